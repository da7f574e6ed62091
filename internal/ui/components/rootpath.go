package components

import (
	"strings"

	"editorjump/internal/ui"
	"editorjump/internal/view"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// RootPathEvent tells the caller what a key press in the field asked for
type RootPathEvent int

const (
	RootPathNone RootPathEvent = iota
	RootPathSave
	RootPathBrowse
	RootPathCancel
)

// RootPathField edits the JetBrains root project path
type RootPathField struct {
	Input   textinput.Model
	Editing bool
	Width   int

	saved string
	keys  ui.KeyMap
}

// NewRootPathField creates the field
func NewRootPathField() *RootPathField {
	ti := textinput.New()
	ti.Placeholder = view.RootPathPlaceholder
	ti.CharLimit = 4096
	ti.Width = 56

	return &RootPathField{
		Input: ti,
		Width: 60,
		keys:  ui.DefaultKeyMap(),
	}
}

// SetModel shows the stored path unless the user is typing.
func (r *RootPathField) SetModel(m view.Model) {
	r.saved = m.RootPath
	if m.RootPathPlaceholder != "" {
		r.Input.Placeholder = m.RootPathPlaceholder
	}
	if !r.Editing {
		r.Input.SetValue(m.RootPath)
	}
}

// SetValue replaces the text, e.g. with a folder picked in a dialog.
func (r *RootPathField) SetValue(path string) {
	r.Input.SetValue(path)
	r.Input.CursorEnd()
}

// Value is the text currently in the field
func (r *RootPathField) Value() string {
	return r.Input.Value()
}

// Start focuses the field for editing
func (r *RootPathField) Start() tea.Cmd {
	r.Editing = true
	r.Input.CursorEnd()
	return r.Input.Focus()
}

// Stop leaves editing mode. Unsaved text is discarded when revert is set.
func (r *RootPathField) Stop(revert bool) {
	r.Editing = false
	r.Input.Blur()
	if revert {
		r.Input.SetValue(r.saved)
	}
}

// Update handles a key press while editing
func (r *RootPathField) Update(msg tea.Msg) (RootPathEvent, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, r.keys.Escape):
			r.Stop(true)
			return RootPathCancel, nil
		case key.Matches(km, r.keys.Enter), key.Matches(km, r.keys.Save):
			r.Stop(false)
			return RootPathSave, nil
		case key.Matches(km, r.keys.Browse):
			return RootPathBrowse, nil
		}
	}

	var cmd tea.Cmd
	r.Input, cmd = r.Input.Update(msg)
	return RootPathNone, cmd
}

// View renders the field with its label and note
func (r *RootPathField) View() string {
	var b strings.Builder
	b.WriteString(ui.RenderLabel(view.RootPathLabel+":", r.Editing))
	b.WriteString("\n    ")
	if r.Editing {
		b.WriteString(r.Input.View())
		b.WriteString("  " + ui.MutedStyle.Render("enter save • ctrl+o browse • esc cancel"))
	} else {
		value := r.Input.Value()
		if value == "" {
			value = ui.MutedStyle.Render(r.Input.Placeholder)
		}
		b.WriteString(value)
	}
	b.WriteString("\n    ")
	b.WriteString(ui.NoteStyle.Render(view.RootPathNote))
	return b.String()
}
