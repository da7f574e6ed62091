package tui

import (
	"editorjump/internal/host"
	"editorjump/internal/panel"
	"editorjump/internal/view"

	tea "github.com/charmbracelet/bubbletea"
)

// surfaceEvent wraps a message that arrived through the surface channel so
// the model knows to listen again.
type surfaceEvent struct {
	msg tea.Msg
}

// renderMsg replaces the whole screen content.
type renderMsg struct {
	model view.Model
}

// outboundMsg carries a controller message that needs no re-render.
type outboundMsg struct {
	msg panel.Outbound
}

// disposeMsg closes the program without detaching from the controller.
type disposeMsg struct{}

// statusMsg carries the status indicator line.
type statusMsg struct {
	text string
}

type toastMsg struct {
	level   string
	message string
}

type clearToastMsg struct {
	seq int
}

// openDialogMsg asks the model to show a path picker. The result, or nil when
// dismissed, is sent on reply.
type openDialogMsg struct {
	opts  host.FileDialogOptions
	reply chan<- []string
}

// highlightEditMsg opens the edit form once the highlight delay has passed.
type highlightEditMsg struct {
	name string
	seq  int
}
