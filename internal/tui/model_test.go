package tui

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"editorjump/internal/host"
	"editorjump/internal/models"
	"editorjump/internal/panel"
	"editorjump/internal/view"

	tea "github.com/charmbracelet/bubbletea"
)

type modelEnv struct {
	model    *Model
	actions  []panel.Action
	detached int
	copied   []string
	copyErr  error
}

func newModelEnv(t *testing.T) *modelEnv {
	t.Helper()
	env := &modelEnv{}
	env.model = NewModel(ModelOptions{
		Submit: func(a panel.Action) { env.actions = append(env.actions, a) },
		Detach: func() { env.detached++ },
		Clipboard: func(s string) error {
			if env.copyErr != nil {
				return env.copyErr
			}
			env.copied = append(env.copied, s)
			return nil
		},
		Version: "1.0.0",
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return env
}

func (e *modelEnv) render(ides []models.IDE, selected string) {
	e.model.Update(renderMsg{model: view.Build(ides, selected, host.Linux, "")})
}

func (e *modelEnv) press(keys ...string) tea.Cmd {
	var last tea.Cmd
	for _, k := range keys {
		_, last = e.model.Update(keyMsg(k))
	}
	return last
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func sampleIDEs() []models.IDE {
	return []models.IDE{
		{Name: "IDEA"},
		{Name: "WebStorm"},
		{Name: "Fleet", IsCustom: true, CommandPath: "/usr/bin/fleet"},
	}
}

func TestModel_ViewBeforeRender(t *testing.T) {
	env := newModelEnv(t)
	if !strings.Contains(env.model.View(), "Loading") {
		t.Error("View() before the first render should show a loading message")
	}
}

func TestModel_RenderShowsRows(t *testing.T) {
	env := newModelEnv(t)
	env.render(sampleIDEs(), "IDEA")

	out := env.model.View()
	for _, want := range []string{view.Title, "IDEA", "WebStorm", "Fleet", "Selected: IDEA"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestModel_SelectRow(t *testing.T) {
	env := newModelEnv(t)
	env.render(sampleIDEs(), "IDEA")

	env.press("j", "enter")

	if len(env.actions) != 1 {
		t.Fatalf("actions = %d, want 1", len(env.actions))
	}
	got, ok := env.actions[0].(panel.SelectIDE)
	if !ok || got.Name != "WebStorm" {
		t.Errorf("action = %#v, want SelectIDE{WebStorm}", env.actions[0])
	}
}

func TestModel_HideSendsFullPatch(t *testing.T) {
	env := newModelEnv(t)
	env.render(sampleIDEs(), "IDEA")

	env.press("G", "h")

	if len(env.actions) != 1 {
		t.Fatalf("actions = %d, want 1", len(env.actions))
	}
	got, ok := env.actions[0].(panel.UpdateIDE)
	if !ok {
		t.Fatalf("action = %T, want UpdateIDE", env.actions[0])
	}
	p := got.Patch
	if p.Name != "Fleet" {
		t.Errorf("Name = %q, want Fleet", p.Name)
	}
	if p.Hidden == nil || !*p.Hidden {
		t.Error("Hidden should be set to true")
	}
	if p.IsCustom == nil || !*p.IsCustom {
		t.Error("IsCustom should carry the row's value")
	}
	if p.CommandPath == nil || *p.CommandPath != "/usr/bin/fleet" {
		t.Error("CommandPath should carry the row's value")
	}
}

func TestModel_RemoveGuards(t *testing.T) {
	tests := []struct {
		name     string
		selected string
		keys     []string
		want     bool
	}{
		{"builtin row", "IDEA", []string{"x"}, false},
		{"selected custom row", "Fleet", []string{"G", "x"}, false},
		{"custom row", "IDEA", []string{"G", "x"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newModelEnv(t)
			env.render(sampleIDEs(), tt.selected)

			cmd := env.press(tt.keys...)

			if !tt.want {
				if len(env.actions) != 0 {
					t.Fatalf("actions = %v, want none", env.actions)
				}
				if cmd == nil {
					t.Error("a refused removal should show a toast")
				}
				return
			}
			if len(env.actions) != 1 {
				t.Fatalf("actions = %d, want 1", len(env.actions))
			}
			if got, ok := env.actions[0].(panel.RemoveIDE); !ok || got.Name != "Fleet" {
				t.Errorf("action = %#v, want RemoveIDE{Fleet}", env.actions[0])
			}
		})
	}
}

func TestModel_AddForm(t *testing.T) {
	env := newModelEnv(t)
	env.render(sampleIDEs(), "IDEA")

	env.press("a")
	if env.model.Screen() != ScreenForm {
		t.Fatalf("Screen() = %v, want ScreenForm", env.model.Screen())
	}

	env.press("ctrl+s")

	if env.model.Screen() != ScreenList {
		t.Errorf("Screen() = %v, want ScreenList after saving", env.model.Screen())
	}
	if len(env.actions) != 1 {
		t.Fatalf("actions = %d, want 1", len(env.actions))
	}
	got, ok := env.actions[0].(panel.AddIDE)
	if !ok {
		t.Fatalf("action = %T, want AddIDE", env.actions[0])
	}
	// IDEA and WebStorm are taken
	if got.IDE.Name != "PyCharm" || got.IDE.IsCustom {
		t.Errorf("IDE = %+v, want builtin PyCharm", got.IDE)
	}
}

func TestModel_AddFormValidation(t *testing.T) {
	env := newModelEnv(t)
	env.render(sampleIDEs(), "IDEA")

	env.press("a", "enter", "ctrl+s")

	if len(env.actions) != 0 {
		t.Errorf("custom IDE without name should not be sent, got %v", env.actions)
	}
	if env.model.Screen() != ScreenForm {
		t.Errorf("form should stay open on validation error")
	}
	if env.model.form.Err == "" {
		t.Error("form should show the validation error")
	}
}

func TestModel_FormBrowse(t *testing.T) {
	env := newModelEnv(t)
	env.render(sampleIDEs(), "IDEA")

	env.press("a", "ctrl+o")

	if len(env.actions) != 1 {
		t.Fatalf("actions = %d, want 1", len(env.actions))
	}
	if got, ok := env.actions[0].(panel.SelectPath); !ok || got.IDEType != "pycharm" {
		t.Errorf("action = %#v, want SelectPath{pycharm}", env.actions[0])
	}

	env.model.Update(outboundMsg{msg: panel.SetPath{Path: "/opt/pycharm/bin/pycharm.sh"}})
	if got := env.model.form.Command.Value(); got != "/opt/pycharm/bin/pycharm.sh" {
		t.Errorf("command = %q after SetPath", got)
	}
}

func TestModel_RootPath(t *testing.T) {
	env := newModelEnv(t)
	env.render(sampleIDEs(), "IDEA")

	env.press("r")
	if env.model.Screen() != ScreenRootPath {
		t.Fatalf("Screen() = %v, want ScreenRootPath", env.model.Screen())
	}
	env.press("/", "w", "enter")

	if len(env.actions) != 1 {
		t.Fatalf("actions = %d, want 1", len(env.actions))
	}
	got, ok := env.actions[0].(panel.SaveRootProjectPath)
	if !ok || got.Path == nil || *got.Path != "/w" {
		t.Errorf("action = %#v, want SaveRootProjectPath{/w}", env.actions[0])
	}
}

func TestModel_RootPathBrowse(t *testing.T) {
	env := newModelEnv(t)
	env.render(sampleIDEs(), "IDEA")

	env.press("r", "ctrl+o")

	if len(env.actions) != 1 {
		t.Fatalf("actions = %d, want 1", len(env.actions))
	}
	if _, ok := env.actions[0].(panel.SelectPathForRootProject); !ok {
		t.Errorf("action = %T, want SelectPathForRootProject", env.actions[0])
	}

	env.model.Update(outboundMsg{msg: panel.SetRootProjectPath{Path: "/repo"}})
	if got := env.model.root.Value(); got != "/repo" {
		t.Errorf("root path = %q, want /repo", got)
	}
}

func TestModel_HighlightOpensEditForm(t *testing.T) {
	env := newModelEnv(t)
	env.render(sampleIDEs(), "IDEA")

	_, cmd := env.model.Update(outboundMsg{msg: panel.HighlightIDE{Name: "WebStorm"}})
	if cmd == nil {
		t.Fatal("highlight should schedule the edit form")
	}
	if env.model.list.Highlighted != "WebStorm" {
		t.Errorf("Highlighted = %q, want WebStorm", env.model.list.Highlighted)
	}
	if row, _ := env.model.list.Current(); row.Name != "WebStorm" {
		t.Errorf("cursor on %q, want WebStorm", row.Name)
	}

	// a stale tick is ignored
	env.model.Update(highlightEditMsg{name: "WebStorm", seq: 0})
	if env.model.Screen() != ScreenList {
		t.Fatal("stale highlight tick should not open the form")
	}

	env.model.Update(highlightEditMsg{name: "WebStorm", seq: env.model.highlightSeq})
	if env.model.Screen() != ScreenForm {
		t.Fatalf("Screen() = %v, want ScreenForm", env.model.Screen())
	}
	if env.model.form.Editing != "WebStorm" {
		t.Errorf("Editing = %q, want WebStorm", env.model.form.Editing)
	}
}

func TestModel_HighlightUnknown(t *testing.T) {
	env := newModelEnv(t)
	env.render(sampleIDEs(), "IDEA")

	_, cmd := env.model.Update(outboundMsg{msg: panel.HighlightIDE{Name: "Nope"}})
	if cmd != nil {
		t.Error("unknown name should not schedule anything")
	}
}

func TestModel_DialogCancel(t *testing.T) {
	env := newModelEnv(t)
	env.render(sampleIDEs(), "IDEA")

	reply := make(chan []string, 1)
	env.model.Update(openDialogMsg{opts: host.FileDialogOptions{CanSelectFiles: true}, reply: reply})
	if env.model.Screen() != ScreenDialog {
		t.Fatalf("Screen() = %v, want ScreenDialog", env.model.Screen())
	}

	env.press("esc")

	if got := <-reply; got != nil {
		t.Errorf("reply = %v, want nil", got)
	}
	if env.model.Screen() != ScreenList {
		t.Errorf("Screen() = %v, want ScreenList", env.model.Screen())
	}
}

func TestModel_SecondDialogRejected(t *testing.T) {
	env := newModelEnv(t)
	env.render(sampleIDEs(), "IDEA")

	first := make(chan []string, 1)
	second := make(chan []string, 1)
	env.model.Update(openDialogMsg{reply: first})
	env.model.Update(openDialogMsg{reply: second})

	select {
	case got := <-second:
		if got != nil {
			t.Errorf("second reply = %v, want nil", got)
		}
	default:
		t.Error("second dialog should be answered immediately")
	}
}

func TestModel_DisposeAnswersDialog(t *testing.T) {
	env := newModelEnv(t)
	env.render(sampleIDEs(), "IDEA")

	reply := make(chan []string, 1)
	env.model.Update(openDialogMsg{reply: reply})
	_, cmd := env.model.Update(disposeMsg{})

	if got := <-reply; got != nil {
		t.Errorf("reply = %v, want nil", got)
	}
	if cmd == nil {
		t.Fatal("dispose should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("dispose should return tea.Quit")
	}
	if env.detached != 0 {
		t.Error("dispose must not detach")
	}
}

func TestModel_QuitDetaches(t *testing.T) {
	env := newModelEnv(t)
	env.render(sampleIDEs(), "IDEA")

	cmd := env.press("q")

	if env.detached != 1 {
		t.Errorf("detached = %d, want 1", env.detached)
	}
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit should return tea.Quit")
	}
}

func TestModel_CopyCommand(t *testing.T) {
	env := newModelEnv(t)
	env.render(sampleIDEs(), "IDEA")

	env.press("G", "y")
	if len(env.copied) != 1 || env.copied[0] != "/usr/bin/fleet" {
		t.Errorf("copied = %v, want [/usr/bin/fleet]", env.copied)
	}

	env.copyErr = errors.New("no clipboard")
	cmd := env.press("y")
	if cmd == nil {
		t.Fatal("copy failure should show a toast")
	}
	msg, ok := cmd().(toastMsg)
	if !ok || !strings.Contains(msg.message, "no clipboard") {
		t.Errorf("toast = %#v", msg)
	}
}

func TestModel_Toast(t *testing.T) {
	env := newModelEnv(t)
	env.render(sampleIDEs(), "IDEA")

	env.model.Update(toastMsg{level: "info", message: "IDE configuration removed"})
	if !strings.Contains(env.model.View(), "IDE configuration removed") {
		t.Error("toast should be visible")
	}

	env.model.Update(clearToastMsg{seq: env.model.toastSeq - 1})
	if env.model.toast == "" {
		t.Error("stale clear should keep the toast")
	}
	env.model.Update(clearToastMsg{seq: env.model.toastSeq})
	if env.model.toast != "" {
		t.Error("toast should be cleared")
	}
}

func TestModel_SurfaceEventRearms(t *testing.T) {
	events := make(chan tea.Msg, 1)
	m := NewModel(ModelOptions{Events: events})

	_, cmd := m.Update(surfaceEvent{msg: renderMsg{model: view.Build(sampleIDEs(), "IDEA", host.Linux, "")}})
	if cmd == nil {
		t.Fatal("surface events should re-arm the listener")
	}
	if len(m.view.Rows) != 3 {
		t.Errorf("rows = %d, want 3", len(m.view.Rows))
	}
}

func TestModel_StatusLine(t *testing.T) {
	env := newModelEnv(t)
	env.render(sampleIDEs(), "IDEA")

	env.model.Update(statusMsg{text: "⚡ IDEA (not found)"})
	if !strings.Contains(env.model.View(), "⚡ IDEA (not found)") {
		t.Error("status text should be shown in the status line")
	}
}
