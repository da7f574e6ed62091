package components

import (
	"errors"
	"strings"

	"editorjump/internal/models"
	"editorjump/internal/ui"
	"editorjump/internal/view"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// FormField is a focusable element of the IDE form
type FormField int

const (
	FieldCustom FormField = iota
	FieldName
	FieldHidden
	FieldCommand
	FieldSave
	FieldCancel
	fieldCount
)

// FormEvent tells the caller what a key press asked for
type FormEvent int

const (
	FormNone FormEvent = iota
	FormSubmit
	FormCancel
	FormBrowse // pick the command with a file dialog
)

// IDEForm is the add/edit form. Editing is empty while adding.
type IDEForm struct {
	Active  bool
	Editing string
	Custom  bool
	Hidden  bool
	Focus   FormField
	Err     string

	Options   []view.NameOption
	NameIndex int

	CustomName textinput.Model
	Command    textinput.Model

	model view.Model
	keys  ui.KeyMap
}

// NewIDEForm creates a closed form
func NewIDEForm() *IDEForm {
	name := textinput.New()
	name.Placeholder = "Enter IDE name"
	name.CharLimit = 128
	name.Width = 40

	cmd := textinput.New()
	cmd.CharLimit = 1024
	cmd.Width = 48

	return &IDEForm{
		CustomName: name,
		Command:    cmd,
		keys:       ui.DefaultKeyMap(),
	}
}

// OpenAdd opens an empty form for a new IDE.
func (f *IDEForm) OpenAdd(m view.Model) tea.Cmd {
	f.model = m
	f.Active = true
	f.Editing = ""
	f.Custom = false
	f.Hidden = false
	f.Err = ""
	f.CustomName.SetValue("")
	f.Command.SetValue("")
	f.refreshOptions()
	f.pickFirstEnabled()
	return f.focus(FieldCustom)
}

// OpenEdit fills the form from the IDE named name. It reports false when no
// such IDE exists.
func (f *IDEForm) OpenEdit(m view.Model, name string) (tea.Cmd, bool) {
	ide, ok := models.Find(m.IDEs, name)
	if !ok {
		return nil, false
	}

	f.model = m
	f.Active = true
	f.Editing = name
	f.Custom = ide.IsCustom
	f.Hidden = ide.Hidden
	f.Err = ""
	f.refreshOptions()
	if ide.IsCustom {
		f.CustomName.SetValue(ide.Name)
	} else {
		f.CustomName.SetValue("")
		f.selectOption(ide.Name)
	}
	f.Command.SetValue(ide.CommandPath)
	return f.focus(FieldName), true
}

// Close hides the form
func (f *IDEForm) Close() {
	f.Active = false
	f.Editing = ""
	f.Err = ""
	f.CustomName.Blur()
	f.Command.Blur()
}

// SetModel updates the data the form validates against after a re-render.
func (f *IDEForm) SetModel(m view.Model) {
	f.model = m
	if f.Active {
		current := f.SelectedName()
		f.refreshOptions()
		f.selectOption(current)
	}
}

// SetCommand fills the command field, e.g. from a file dialog.
func (f *IDEForm) SetCommand(path string) {
	f.Command.SetValue(path)
	f.Command.CursorEnd()
}

// ToggleCustom switches between a known product and a custom IDE.
func (f *IDEForm) ToggleCustom() {
	f.Custom = !f.Custom
	f.refreshOptions()

	if f.Custom {
		f.CustomName.SetValue("")
		f.Command.SetValue("")
		return
	}
	f.pickFirstEnabled()
	if f.model.IsMac {
		f.Command.SetValue("")
	}
}

// SelectedName is the product picked in the name selector.
func (f *IDEForm) SelectedName() string {
	if f.NameIndex >= 0 && f.NameIndex < len(f.Options) {
		return f.Options[f.NameIndex].Value
	}
	return ""
}

// Input returns the current field values.
func (f *IDEForm) Input() models.FormInput {
	return models.FormInput{
		Custom:       f.Custom,
		SelectedName: f.SelectedName(),
		CustomName:   f.CustomName.Value(),
		Hidden:       f.Hidden,
		Command:      f.Command.Value(),
	}
}

// IDEType is the lower-case name sent with a command picker request.
func (f *IDEForm) IDEType() string {
	return strings.ToLower(f.Input().Name())
}

// Submit validates the form. On failure the message is kept in Err.
func (f *IDEForm) Submit() (models.IDE, error) {
	in := f.Input()
	if !in.Custom && f.NameIndex < len(f.Options) && f.Options[f.NameIndex].Disabled {
		in.SelectedName = ""
	}

	ide, err := models.BuildIDE(in, f.model.IsMac)
	if err != nil {
		f.Err = capitalize(err.Error())
		return models.IDE{}, err
	}
	f.Err = ""
	return ide, nil
}

// ShowCommand reports whether the command field is part of the form.
func (f *IDEForm) ShowCommand() bool {
	return f.model.ShowCommandField(f.Custom)
}

// Update handles a key press while the form is open.
func (f *IDEForm) Update(msg tea.KeyMsg) (FormEvent, tea.Cmd) {
	switch {
	case key.Matches(msg, f.keys.Escape):
		f.Close()
		return FormCancel, nil
	case key.Matches(msg, f.keys.Save):
		return FormSubmit, nil
	case key.Matches(msg, f.keys.Browse):
		if f.ShowCommand() {
			return FormBrowse, nil
		}
		return FormNone, nil
	case key.Matches(msg, f.keys.Tab):
		return FormNone, f.focus(f.step(1))
	case key.Matches(msg, f.keys.ShiftTab):
		return FormNone, f.focus(f.step(-1))
	}

	switch f.Focus {
	case FieldCustom:
		if key.Matches(msg, f.keys.Space, f.keys.Enter) {
			f.ToggleCustom()
		}
	case FieldHidden:
		if key.Matches(msg, f.keys.Space, f.keys.Enter) {
			f.Hidden = !f.Hidden
		}
	case FieldName:
		if f.Custom {
			var cmd tea.Cmd
			f.CustomName, cmd = f.CustomName.Update(msg)
			return FormNone, cmd
		}
		switch msg.Type {
		case tea.KeyUp, tea.KeyLeft:
			f.cycleOption(-1)
		case tea.KeyDown, tea.KeyRight:
			f.cycleOption(1)
		case tea.KeyEnter:
			return FormNone, f.focus(f.step(1))
		}
	case FieldCommand:
		if msg.Type == tea.KeyEnter {
			return FormNone, f.focus(f.step(1))
		}
		var cmd tea.Cmd
		f.Command, cmd = f.Command.Update(msg)
		return FormNone, cmd
	case FieldSave:
		if key.Matches(msg, f.keys.Enter, f.keys.Space) {
			return FormSubmit, nil
		}
	case FieldCancel:
		if key.Matches(msg, f.keys.Enter, f.keys.Space) {
			f.Close()
			return FormCancel, nil
		}
	}
	return FormNone, nil
}

// UpdateInputs forwards non-key messages (cursor blink) to the text inputs.
func (f *IDEForm) UpdateInputs(msg tea.Msg) tea.Cmd {
	var c1, c2 tea.Cmd
	f.CustomName, c1 = f.CustomName.Update(msg)
	f.Command, c2 = f.Command.Update(msg)
	return tea.Batch(c1, c2)
}

func (f *IDEForm) refreshOptions() {
	f.Options = view.NameOptions(f.model.IDEs, f.Editing)
}

func (f *IDEForm) pickFirstEnabled() {
	f.NameIndex = 0
	for i, o := range f.Options {
		if !o.Disabled {
			f.NameIndex = i
			return
		}
	}
}

func (f *IDEForm) selectOption(name string) {
	for i, o := range f.Options {
		if o.Value == name {
			f.NameIndex = i
			return
		}
	}
	f.pickFirstEnabled()
}

// cycleOption moves the name selector, skipping options already in use.
func (f *IDEForm) cycleOption(delta int) {
	n := len(f.Options)
	if n == 0 {
		return
	}
	i := f.NameIndex
	for range n {
		i = (i + delta + n) % n
		if !f.Options[i].Disabled {
			f.NameIndex = i
			return
		}
	}
}

// step returns the next focusable field in direction delta.
func (f *IDEForm) step(delta int) FormField {
	field := f.Focus
	for range int(fieldCount) {
		field = FormField((int(field) + delta + int(fieldCount)) % int(fieldCount))
		if field == FieldCommand && !f.ShowCommand() {
			continue
		}
		return field
	}
	return f.Focus
}

func (f *IDEForm) focus(field FormField) tea.Cmd {
	f.Focus = field
	f.CustomName.Blur()
	f.Command.Blur()

	switch {
	case field == FieldName && f.Custom:
		return f.CustomName.Focus()
	case field == FieldCommand:
		return f.Command.Focus()
	}
	return nil
}

// View renders the form
func (f *IDEForm) View() string {
	var b strings.Builder

	title := "Add New IDE"
	if f.Editing != "" {
		title = "Edit IDE"
	}
	b.WriteString(ui.TitleStyle.Render(title))
	b.WriteString("\n\n")

	b.WriteString(ui.RenderLabel("Custom IDE", f.Focus == FieldCustom))
	b.WriteString(" " + ui.RenderCheckbox(f.Custom) + "\n")

	b.WriteString(ui.RenderLabel("IDE Name:", f.Focus == FieldName))
	b.WriteString("\n")
	if f.Custom {
		b.WriteString("    " + f.CustomName.View() + "\n")
	} else {
		b.WriteString(f.renderOptions())
	}

	b.WriteString(ui.RenderLabel("Hidden", f.Focus == FieldHidden))
	b.WriteString(" " + ui.RenderCheckbox(f.Hidden) + "\n")

	if f.ShowCommand() {
		b.WriteString(ui.RenderLabel(f.model.CommandLabel+":", f.Focus == FieldCommand))
		b.WriteString("\n    " + f.Command.View() + "  " + ui.MutedStyle.Render("ctrl+o browse") + "\n")
		b.WriteString("    " + ui.NoteStyle.Render(f.model.CommandNote) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(ui.RenderButton("Save", f.Focus == FieldSave))
	b.WriteString("  ")
	b.WriteString(ui.RenderButton("Cancel", f.Focus == FieldCancel))

	if f.Err != "" {
		b.WriteString("\n\n")
		b.WriteString(ui.RenderNotification(ui.LevelError, f.Err))
	}

	return ui.DialogStyle.Render(b.String())
}

func (f *IDEForm) renderOptions() string {
	var b strings.Builder
	for i, o := range f.Options {
		marker := "  "
		if i == f.NameIndex {
			marker = ui.ActiveGlyphStyle.Render("› ")
		}
		label := o.Label
		switch {
		case o.Disabled:
			label = ui.DisabledStyle.Render(label)
		case i == f.NameIndex:
			label = ui.StatusTextStyle.Render(label)
		default:
			label = ui.MutedStyle.Render(label)
		}
		b.WriteString("    " + marker + label + "\n")
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// IsValidationError reports whether err is a form rejection rather than a failure.
func IsValidationError(err error) bool {
	return errors.Is(err, models.ErrNameRequired) || errors.Is(err, models.ErrCommandRequired)
}
