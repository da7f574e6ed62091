// Package host describes the services the configuration surface borrows from
// the application hosting it: dialogs, notifications and command dispatch.
package host

import (
	"context"
	"runtime"
)

// Platform is a GOOS value ("darwin", "linux", "windows", ...).
type Platform string

const (
	Darwin  Platform = "darwin"
	Linux   Platform = "linux"
	Windows Platform = "windows"
)

// Current returns the platform the binary runs on.
func Current() Platform {
	return Platform(runtime.GOOS)
}

// IsMac reports whether p belongs to the restricted platform family, where
// builtin IDEs are started by product name and only custom entries carry a command.
func (p Platform) IsMac() bool {
	return p == Darwin
}

// FileDialogOptions configures an open dialog.
type FileDialogOptions struct {
	CanSelectFiles   bool
	CanSelectFolders bool
	CanSelectMany    bool
	OpenLabel        string
	Title            string
	StartDir         string
}

// Dialogs opens native pickers. A dismissed dialog returns no paths and no error.
type Dialogs interface {
	ShowOpenDialog(ctx context.Context, opts FileDialogOptions) ([]string, error)
}

// Notifier shows short user-visible messages.
type Notifier interface {
	Info(message string)
	Error(message string)
}

// Commands dispatches named commands to other components.
type Commands interface {
	Execute(ctx context.Context, id string, args ...any) error
}
