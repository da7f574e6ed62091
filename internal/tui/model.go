package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"editorjump/internal/models"
	"editorjump/internal/panel"
	"editorjump/internal/ui"
	"editorjump/internal/ui/components"
	"editorjump/internal/view"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const toastDuration = 4 * time.Second

// Screen is what the model currently shows
type Screen int

const (
	ScreenList Screen = iota
	ScreenForm
	ScreenRootPath
	ScreenDialog
	ScreenPreview
	ScreenHelp
)

// ModelOptions wires a Model to its surface.
type ModelOptions struct {
	Events         <-chan tea.Msg
	Submit         func(panel.Action)
	Detach         func()
	Settings       components.SettingsSource
	Version        string
	HighlightStyle string
	HighlightDelay time.Duration
	Clipboard      func(string) error
	Logger         *slog.Logger
}

// Model is the root bubbletea model of the configuration screen
type Model struct {
	events    <-chan tea.Msg
	submit    func(panel.Action)
	detach    func()
	clipboard func(string) error
	settings  components.SettingsSource
	logger    *slog.Logger
	version   string

	view     view.Model
	rendered bool

	keys    ui.KeyMap
	help    help.Model
	list    *components.IDEList
	form    *components.IDEForm
	root    *components.RootPathField
	dialog  *components.PathDialog
	preview *components.SettingsPreview

	screen       Screen
	dialogReturn Screen
	dialogReply  chan<- []string

	toast      string
	toastLevel string
	toastSeq   int
	status     string

	highlightSeq   int
	highlightDelay time.Duration

	width  int
	height int
}

// NewModel creates the model
func NewModel(opts ModelOptions) *Model {
	if opts.Submit == nil {
		opts.Submit = func(panel.Action) {}
	}
	if opts.Detach == nil {
		opts.Detach = func() {}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.HighlightDelay <= 0 {
		opts.HighlightDelay = DefaultHighlightDelay
	}

	return &Model{
		events:         opts.Events,
		submit:         opts.Submit,
		detach:         opts.Detach,
		clipboard:      opts.Clipboard,
		settings:       opts.Settings,
		logger:         opts.Logger,
		version:        opts.Version,
		keys:           ui.DefaultKeyMap(),
		help:           ui.NewHelp(),
		list:           components.NewIDEList(nil),
		form:           components.NewIDEForm(),
		root:           components.NewRootPathField(),
		dialog:         components.NewPathDialog(),
		preview:        components.NewSettingsPreview(opts.HighlightStyle),
		highlightDelay: opts.HighlightDelay,
		width:          80,
		height:         24,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.listen(), textinput.Blink)
}

// listen waits for the next message pushed by the surface.
func (m *Model) listen() tea.Cmd {
	if m.events == nil {
		return nil
	}
	events := m.events
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return surfaceEvent{msg: msg}
	}
}

// Screen returns what is currently shown
func (m *Model) Screen() Screen {
	return m.screen
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case surfaceEvent:
		_, cmd := m.Update(msg.msg)
		if _, ok := msg.msg.(disposeMsg); ok {
			return m, cmd
		}
		return m, tea.Batch(cmd, m.listen())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()
		return m, nil

	case renderMsg:
		m.applyRender(msg.model)
		return m, nil

	case outboundMsg:
		return m, m.handleOutbound(msg.msg)

	case highlightEditMsg:
		if msg.seq != m.highlightSeq {
			return m, nil
		}
		m.list.Highlighted = ""
		if m.screen != ScreenList && m.screen != ScreenForm {
			return m, nil
		}
		return m, m.openEdit(msg.name)

	case toastMsg:
		m.toastSeq++
		m.toast = msg.message
		m.toastLevel = msg.level
		seq := m.toastSeq
		return m, tea.Tick(toastDuration, func(time.Time) tea.Msg { return clearToastMsg{seq: seq} })

	case statusMsg:
		m.status = msg.text
		return m, nil

	case clearToastMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case openDialogMsg:
		return m, m.openDialog(msg)

	case disposeMsg:
		m.cancelDialog()
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// filepicker directory reads, cursor blinks, viewport mouse events
	switch m.screen {
	case ScreenDialog:
		return m, m.updateDialog(msg)
	case ScreenForm:
		return m, m.form.UpdateInputs(msg)
	case ScreenRootPath:
		_, cmd := m.root.Update(msg)
		return m, cmd
	case ScreenPreview:
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) applyRender(v view.Model) {
	m.view = v
	m.rendered = true
	m.list.SetRows(v.Rows)
	m.form.SetModel(v)
	m.root.SetModel(v)
	if m.screen == ScreenPreview {
		m.loadPreview()
	}
}

func (m *Model) handleOutbound(o panel.Outbound) tea.Cmd {
	switch o := o.(type) {
	case panel.SetPath:
		m.form.SetCommand(o.Path)
	case panel.SetRootProjectPath:
		m.root.SetValue(o.Path)
	case panel.HighlightIDE:
		return m.highlight(o.Name)
	}
	return nil
}

// highlight marks the row and schedules its edit form.
func (m *Model) highlight(name string) tea.Cmd {
	if !m.list.FocusName(name) {
		m.logger.Debug("highlight for unknown ide", "name", name)
		return nil
	}
	m.highlightSeq++
	m.list.Highlighted = name
	seq := m.highlightSeq
	return tea.Tick(m.highlightDelay, func(time.Time) tea.Msg {
		return highlightEditMsg{name: name, seq: seq}
	})
}

func (m *Model) openEdit(name string) tea.Cmd {
	cmd, ok := m.form.OpenEdit(m.view, name)
	if !ok {
		return nil
	}
	m.screen = ScreenForm
	return cmd
}

func (m *Model) openDialog(msg openDialogMsg) tea.Cmd {
	if m.dialogReply != nil {
		msg.reply <- nil
		return nil
	}
	m.dialogReply = msg.reply
	m.dialogReturn = m.screen
	m.screen = ScreenDialog
	m.dialog.SetHeight(m.height - 12)
	return m.dialog.Open(msg.opts)
}

func (m *Model) updateDialog(msg tea.Msg) tea.Cmd {
	done, paths, cmd := m.dialog.Update(msg)
	if done {
		m.finishDialog(paths)
	}
	return cmd
}

func (m *Model) finishDialog(paths []string) {
	if m.dialogReply != nil {
		m.dialogReply <- paths
		m.dialogReply = nil
	}
	m.dialog.Close()
	m.screen = m.dialogReturn
}

func (m *Model) cancelDialog() {
	if m.dialogReply != nil {
		m.finishDialog(nil)
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	switch m.screen {
	case ScreenDialog:
		return m, m.updateDialog(msg)
	case ScreenForm:
		return m.handleFormKeys(msg)
	case ScreenRootPath:
		return m.handleRootPathKeys(msg)
	case ScreenPreview:
		return m.handlePreviewKeys(msg)
	case ScreenHelp:
		if key.Matches(msg, m.keys.Escape, m.keys.Help, m.keys.Quit) {
			m.screen = ScreenList
		}
		return m, nil
	}
	return m.handleListKeys(msg)
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.cancelDialog()
	m.detach()
	return m, tea.Quit
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Up):
		m.list.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.list.MoveDown()
	case key.Matches(msg, m.keys.PageUp):
		m.list.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.list.PageDown()
	case key.Matches(msg, m.keys.Home):
		m.list.GoToFirst()
	case key.Matches(msg, m.keys.End):
		m.list.GoToLast()
	case key.Matches(msg, m.keys.Help):
		m.screen = ScreenHelp
	case key.Matches(msg, m.keys.Add):
		m.screen = ScreenForm
		return m, m.form.OpenAdd(m.view)
	case key.Matches(msg, m.keys.RootPath):
		m.screen = ScreenRootPath
		return m, m.root.Start()
	case key.Matches(msg, m.keys.Preview):
		if m.settings == nil {
			return m, m.showToast(ui.LevelInfo, "No settings file in use")
		}
		m.loadPreview()
		m.screen = ScreenPreview
	}

	row, ok := m.list.Current()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Select):
		m.submit(panel.SelectIDE{Name: row.Name})
	case key.Matches(msg, m.keys.Edit):
		return m, m.openEdit(row.Name)
	case key.Matches(msg, m.keys.Hide):
		hidden := !row.Hidden
		custom := row.Custom
		command := row.CommandPath
		m.submit(panel.UpdateIDE{Patch: models.IDEPatch{
			Name:        row.Name,
			IsCustom:    &custom,
			Hidden:      &hidden,
			CommandPath: &command,
		}})
	case key.Matches(msg, m.keys.Remove):
		switch {
		case !row.Removable:
			return m, m.showToast(ui.LevelInfo, "Only custom IDEs can be removed")
		case row.RemoveDisabled:
			return m, m.showToast(ui.LevelError, row.RemoveTitle)
		}
		m.submit(panel.RemoveIDE{Name: row.Name})
	case key.Matches(msg, m.keys.Copy):
		return m, m.copyCommand(row)
	}
	return m, nil
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ev, cmd := m.form.Update(msg)
	switch ev {
	case components.FormSubmit:
		ide, err := m.form.Submit()
		if err != nil {
			return m, cmd
		}
		m.submit(panel.AddIDE{IDE: ide})
		m.form.Close()
		m.screen = ScreenList
	case components.FormCancel:
		m.screen = ScreenList
	case components.FormBrowse:
		m.submit(panel.SelectPath{IDEType: m.form.IDEType()})
	}
	return m, cmd
}

func (m *Model) handleRootPathKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ev, cmd := m.root.Update(msg)
	switch ev {
	case components.RootPathSave:
		path := m.root.Value()
		m.submit(panel.SaveRootProjectPath{Path: &path})
		m.screen = ScreenList
	case components.RootPathBrowse:
		m.root.Stop(true)
		m.submit(panel.SelectPathForRootProject{})
		m.screen = ScreenList
	case components.RootPathCancel:
		m.screen = ScreenList
	}
	return m, cmd
}

func (m *Model) handlePreviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Escape, m.keys.Quit, m.keys.Preview) {
		m.screen = ScreenList
		return m, nil
	}
	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)
	return m, cmd
}

func (m *Model) loadPreview() {
	if m.settings == nil {
		return
	}
	if err := m.preview.Load(m.settings); err != nil {
		m.logger.Warn("settings preview failed", "error", err)
		m.toast = err.Error()
		m.toastLevel = ui.LevelError
	}
}

func (m *Model) copyCommand(row view.Row) tea.Cmd {
	if row.CommandPath == "" {
		return m.showToast(ui.LevelInfo, row.Name+" uses the default command")
	}
	if m.clipboard == nil {
		return nil
	}
	if err := m.clipboard(row.CommandPath); err != nil {
		return m.showToast(ui.LevelError, "Copy failed: "+err.Error())
	}
	return m.showToast(ui.LevelSuccess, "Copied "+row.CommandPath)
}

func (m *Model) showToast(level, message string) tea.Cmd {
	return func() tea.Msg { return toastMsg{level: level, message: message} }
}

func (m *Model) updateSizes() {
	listWidth := max(m.width-4, 30)
	m.list.Width = listWidth
	m.list.Height = max(m.height-14, 5)
	m.root.Width = listWidth
	m.preview.SetSize(listWidth, max(m.height-6, 10))
	m.help.Width = m.width
}

// View renders the screen
func (m *Model) View() string {
	if !m.rendered {
		return ui.AppStyle.Render(ui.MutedStyle.Render("Loading configurations..."))
	}

	var body string
	switch m.screen {
	case ScreenForm:
		body = m.form.View() + "\n" + m.help.ShortHelpView(m.keys.FormHelp())
	case ScreenDialog:
		body = m.dialog.View()
	case ScreenPreview:
		body = m.preview.View()
	case ScreenHelp:
		body = m.renderHelp()
	default:
		body = lipgloss.JoinVertical(lipgloss.Left,
			m.root.View(),
			"",
			m.list.View(),
			m.renderStatusBar(),
			ui.HelpBarStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())),
		)
	}

	return ui.AppStyle.Render(m.renderHeader() + "\n" + body)
}

func (m *Model) renderHeader() string {
	title := ui.TitleStyle.Render("⚡ " + m.view.Title)
	ver := ""
	if m.version != "" {
		ver = ui.VersionStyle.Render("  v" + m.version)
	}
	platform := ui.MutedStyle.Render("  " + string(m.view.Platform))
	return ui.HeaderStyle.Render(title + ver + platform)
}

func (m *Model) renderStatusBar() string {
	if m.toast != "" {
		return ui.StatusBarStyle.Render(ui.RenderNotification(m.toastLevel, m.toast))
	}

	hidden := 0
	for _, row := range m.view.Rows {
		if row.Hidden {
			hidden++
		}
	}
	stats := []string{
		"Selected: " + m.view.Selected,
		fmt.Sprintf("IDEs: %d", len(m.view.Rows)),
	}
	if hidden > 0 {
		stats = append(stats, fmt.Sprintf("Hidden: %d", hidden))
	}
	if m.status != "" {
		stats = append(stats, m.status)
	}
	return ui.StatusBarStyle.Render(ui.StatusTextStyle.Render(strings.Join(stats, "  •  ")))
}

// renderHelp renders the key reference as markdown, falling back to the
// plain help view when the markdown renderer fails.
func (m *Model) renderHelp() string {
	var md strings.Builder
	md.WriteString("# Keys\n\n| Key | Action |\n|---|---|\n")
	for _, group := range m.keys.FullHelp() {
		for _, b := range group {
			fmt.Fprintf(&md, "| `%s` | %s |\n", b.Help().Key, b.Help().Desc)
		}
	}
	md.WriteString("\n" + view.CommandNoteDefault + "\n")

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(m.width-4, 40)),
	)
	if err == nil {
		if out, err := r.Render(md.String()); err == nil {
			return out
		}
	}
	return m.help.FullHelpView(m.keys.FullHelp())
}
