// Package launcher turns a configured IDE into a command line and starts it.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"editorjump/internal/host"
	"editorjump/internal/models"

	"github.com/alessio/shellescape"
	"github.com/google/shlex"
)

// ErrNoCommand is returned for an IDE that has neither a command nor a platform default.
var ErrNoCommand = errors.New("no command configured")

// product describes how a known IDE is started when no command is configured
type product struct {
	command string // command-line launcher installed by the IDE
	app     string // macOS application bundle
}

var products = map[string]product{
	"IDEA":           {command: "idea", app: "IntelliJ IDEA"},
	"WebStorm":       {command: "webstorm", app: "WebStorm"},
	"PyCharm":        {command: "pycharm", app: "PyCharm"},
	"GoLand":         {command: "goland", app: "GoLand"},
	"CLion":          {command: "clion", app: "CLion"},
	"PhpStorm":       {command: "phpstorm", app: "PhpStorm"},
	"RubyMine":       {command: "rubymine", app: "RubyMine"},
	"Rider":          {command: "rider", app: "Rider"},
	"Android Studio": {command: "studio", app: "Android Studio"},
}

// DefaultCommand returns the launcher command a known IDE installs, or "".
func DefaultCommand(name string) string {
	return products[name].command
}

// Invocation is a resolved command line, without the target arguments.
type Invocation struct {
	IDE     string
	Program string
	Args    []string
	Default bool // platform default, no command configured
}

// Argv returns the program followed by its arguments
func (inv Invocation) Argv() []string {
	return append([]string{inv.Program}, inv.Args...)
}

// String renders the invocation as a shell-safe command line.
func (inv Invocation) String() string {
	return shellescape.QuoteCommand(inv.Argv())
}

// Available reports whether the program can be found.
func (inv Invocation) Available() bool {
	return isCommandAvailable(inv.Program)
}

// Resolve computes how ide is started on platform.
//
// A configured command is used as is; a path to an existing file is taken
// literally, anything else is split like a shell would. Builtin IDEs without
// a command fall back to the product launcher, or to "open -na <App>" on
// macOS.
func Resolve(ide models.IDE, platform host.Platform) (Invocation, error) {
	inv := Invocation{IDE: ide.Name}

	if cmd := strings.TrimSpace(ide.CommandPath); cmd != "" {
		argv, err := splitCommand(cmd)
		if err != nil {
			return inv, fmt.Errorf("parse command of %s: %w", ide.Name, err)
		}
		inv.Program = argv[0]
		inv.Args = argv[1:]
		return inv, nil
	}

	if ide.IsCustom {
		return inv, fmt.Errorf("%s: %w", ide.Name, ErrNoCommand)
	}
	p, ok := products[ide.Name]
	if !ok {
		return inv, fmt.Errorf("%s: %w", ide.Name, ErrNoCommand)
	}

	inv.Default = true
	if platform.IsMac() {
		inv.Program = "open"
		inv.Args = []string{"-na", p.app + ".app", "--args"}
		return inv, nil
	}
	inv.Program = p.command
	return inv, nil
}

func splitCommand(cmd string) ([]string, error) {
	if info, err := os.Stat(cmd); err == nil && !info.IsDir() {
		return []string{cmd}, nil
	}
	argv, err := shlex.Split(cmd)
	if err != nil {
		return nil, err
	}
	if len(argv) == 0 {
		return nil, ErrNoCommand
	}
	return argv, nil
}

// Target is what the IDE should open.
type Target struct {
	Project string // project directory, optional
	File    string // file to open, optional
	Line    int    // 1-based, 0 for none
}

// Args returns the JetBrains command-line arguments for t:
// <project> --line N <file>.
func (t Target) Args() []string {
	var args []string
	if t.Project != "" {
		args = append(args, t.Project)
	}
	if t.Line > 0 && t.File != "" {
		args = append(args, "--line", strconv.Itoa(t.Line))
	}
	if t.File != "" {
		args = append(args, t.File)
	}
	return args
}

// Command builds the command that opens t with inv.
func Command(inv Invocation, t Target) *exec.Cmd {
	args := append(append([]string{}, inv.Args...), t.Args()...)
	return exec.Command(inv.Program, args...)
}

// Launch starts the IDE and returns without waiting for it. The IDE process
// outlives ctx; ctx only stops a launch that has not started yet.
func Launch(ctx context.Context, inv Invocation, t Target) (*exec.Cmd, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !inv.Available() {
		return nil, fmt.Errorf("%s: command %q not found", inv.IDE, inv.Program)
	}
	cmd := Command(inv, t)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", inv.IDE, err)
	}
	return cmd, nil
}

// isCommandAvailable checks if a command exists in PATH
func isCommandAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
