package components

import (
	"os"
	"path/filepath"
	"strings"

	"editorjump/internal/host"
	"editorjump/internal/ui"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
)

// PathDialog is an in-terminal open dialog backed by the bubbles file picker
type PathDialog struct {
	Active  bool
	Options host.FileDialogOptions
	picker  filepicker.Model
	notice  string
	Height  int
}

// NewPathDialog creates a closed dialog
func NewPathDialog() *PathDialog {
	return &PathDialog{Height: 12}
}

// Open shows the dialog and starts reading the start directory.
func (d *PathDialog) Open(opts host.FileDialogOptions) tea.Cmd {
	fp := filepicker.New()
	fp.DirAllowed = opts.CanSelectFolders
	fp.FileAllowed = opts.CanSelectFiles || !opts.CanSelectFolders
	fp.ShowHidden = false
	fp.AutoHeight = false
	fp.Height = d.Height
	fp.CurrentDirectory = startDir(opts.StartDir)

	d.picker = fp
	d.Options = opts
	d.Active = true
	d.notice = ""
	return d.picker.Init()
}

// Close hides the dialog
func (d *PathDialog) Close() {
	d.Active = false
}

// SetHeight resizes the listing
func (d *PathDialog) SetHeight(h int) {
	if h < 5 {
		h = 5
	}
	d.Height = h
	d.picker.Height = h
}

// Update feeds msg to the picker. done is set once the user picked a path
// or dismissed the dialog; paths is empty when dismissed.
func (d *PathDialog) Update(msg tea.Msg) (done bool, paths []string, cmd tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc", "q":
			d.Close()
			return true, nil, nil
		case ".":
			// "." picks the directory being browsed
			if d.Options.CanSelectFolders {
				d.Close()
				return true, []string{d.picker.CurrentDirectory}, nil
			}
		}
	}

	d.picker, cmd = d.picker.Update(msg)

	if selected, path := d.picker.DidSelectFile(msg); selected {
		d.Close()
		return true, []string{path}, cmd
	}
	if disabled, path := d.picker.DidSelectDisabledFile(msg); disabled {
		d.notice = "Selection not allowed: " + filepath.Base(path)
	}
	return false, nil, cmd
}

// View renders the dialog
func (d *PathDialog) View() string {
	var b strings.Builder

	title := d.Options.Title
	if title == "" {
		title = d.Options.OpenLabel
	}
	if title == "" {
		title = "Open"
	}
	b.WriteString(ui.TitleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(ui.MutedStyle.Render(d.picker.CurrentDirectory))
	b.WriteString("\n\n")
	b.WriteString(d.picker.View())
	b.WriteString("\n")

	hint := "enter " + strings.ToLower(labelOr(d.Options.OpenLabel, "select")) + " • esc cancel"
	if d.Options.CanSelectFolders {
		hint = ". choose this folder • " + hint
	}
	b.WriteString(ui.MutedStyle.Render(hint))

	if d.notice != "" {
		b.WriteString("\n")
		b.WriteString(ui.RenderNotification(ui.LevelError, d.notice))
	}
	return ui.DialogStyle.Render(b.String())
}

func labelOr(label, fallback string) string {
	if label == "" {
		return fallback
	}
	return label
}

// startDir resolves where browsing begins: the given directory, else home,
// else the working directory.
func startDir(dir string) string {
	if dir != "" {
		if info, err := os.Stat(dir); err == nil {
			if info.IsDir() {
				return dir
			}
			return filepath.Dir(dir)
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}
	return "."
}
