package components

import (
	"fmt"
	"strings"

	"editorjump/internal/ui"
	"editorjump/internal/view"

	"github.com/mattn/go-runewidth"
)

// IDEList is the list of configured IDEs
type IDEList struct {
	Rows    []view.Row
	Cursor  int
	Width   int
	Height  int
	Focused bool
	Title   string

	// Highlighted is the row a highlight request marked; empty when none.
	Highlighted string
}

// NewIDEList creates a new IDE list
func NewIDEList(rows []view.Row) *IDEList {
	return &IDEList{
		Rows:    rows,
		Width:   60,
		Height:  15,
		Focused: true,
		Title:   "IDEs",
	}
}

// SetRows replaces the rows and keeps the cursor on the same IDE when it is
// still listed.
func (l *IDEList) SetRows(rows []view.Row) {
	current, ok := l.Current()
	l.Rows = rows
	if ok && l.FocusName(current.Name) {
		return
	}
	if l.Cursor >= len(rows) {
		l.Cursor = max(0, len(rows)-1)
	}
}

// FocusName moves the cursor to the row named name.
func (l *IDEList) FocusName(name string) bool {
	for i, row := range l.Rows {
		if row.Name == name {
			l.Cursor = i
			return true
		}
	}
	return false
}

// MoveUp moves cursor up
func (l *IDEList) MoveUp() {
	if l.Cursor > 0 {
		l.Cursor--
	}
}

// MoveDown moves cursor down
func (l *IDEList) MoveDown() {
	if l.Cursor < len(l.Rows)-1 {
		l.Cursor++
	}
}

// PageUp moves cursor up by a page
func (l *IDEList) PageUp() {
	l.Cursor -= l.pageSize()
	if l.Cursor < 0 {
		l.Cursor = 0
	}
}

// PageDown moves cursor down by a page
func (l *IDEList) PageDown() {
	l.Cursor += l.pageSize()
	if l.Cursor >= len(l.Rows) {
		l.Cursor = max(0, len(l.Rows)-1)
	}
}

// GoToFirst moves cursor to the first row
func (l *IDEList) GoToFirst() {
	l.Cursor = 0
}

// GoToLast moves cursor to the last row
func (l *IDEList) GoToLast() {
	if len(l.Rows) > 0 {
		l.Cursor = len(l.Rows) - 1
	}
}

// Current returns the row under the cursor
func (l *IDEList) Current() (view.Row, bool) {
	if l.Cursor >= 0 && l.Cursor < len(l.Rows) {
		return l.Rows[l.Cursor], true
	}
	return view.Row{}, false
}

func (l *IDEList) pageSize() int {
	size := l.Height - 3
	if size < 1 {
		size = 10
	}
	return size
}

// View renders the IDE list
func (l *IDEList) View() string {
	var b strings.Builder

	hidden := 0
	for _, row := range l.Rows {
		if row.Hidden {
			hidden++
		}
	}

	title := l.Title
	if len(l.Rows) > 0 {
		title = fmt.Sprintf("%s (%d)", l.Title, len(l.Rows))
	}
	if hidden > 0 {
		title += ui.MutedStyle.Render(fmt.Sprintf("  %d hidden", hidden))
	}
	b.WriteString(ui.PanelTitleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(ui.DividerStyle.Render(strings.Repeat("─", max(l.Width-2, 1))))
	b.WriteString("\n")

	if len(l.Rows) == 0 {
		b.WriteString(ui.ItemStyle.Render("No IDEs configured. Press a to add one."))
		return l.wrapInPanel(b.String())
	}

	visibleHeight := l.pageSize()
	startIdx := 0
	if l.Cursor >= visibleHeight {
		startIdx = l.Cursor - visibleHeight + 1
	}
	endIdx := min(startIdx+visibleHeight, len(l.Rows))

	if startIdx > 0 {
		b.WriteString(ui.MutedStyle.Render("  ↑ more"))
		b.WriteString("\n")
	}

	for i := startIdx; i < endIdx; i++ {
		b.WriteString(l.renderItem(l.Rows[i], i == l.Cursor))
		if i < endIdx-1 {
			b.WriteString("\n")
		}
	}

	if endIdx < len(l.Rows) {
		b.WriteString("\n")
		b.WriteString(ui.MutedStyle.Render("  ↓ more"))
	}

	return l.wrapInPanel(b.String())
}

// renderItem renders a single row
func (l *IDEList) renderItem(row view.Row, isCursor bool) string {
	glyph := " "
	if row.Selected {
		glyph = ui.ActiveGlyphStyle.Render(view.SelectedGlyph)
	}

	name := row.Name
	maxNameLen := l.Width - 30
	if maxNameLen < 10 {
		maxNameLen = 10
	}
	name = runewidth.Truncate(name, maxNameLen, "...")
	nameWidth := runewidth.StringWidth(name)
	if row.Hidden {
		name = ui.HiddenStyle.Render(name)
	}
	if row.Custom {
		name += ui.CustomStyle.Render(view.CustomSuffix)
	}

	command := ""
	if row.CommandPath != "" {
		// keep the end of long paths, it names the binary
		path := row.CommandPath
		if avail := max(l.Width-nameWidth-14, 10); runewidth.StringWidth(path) > avail {
			path = runewidth.TruncateLeft(path, runewidth.StringWidth(path)-avail+3, "...")
		}
		command = ui.MutedStyle.Render(" " + path)
	}

	content := fmt.Sprintf("%s %s %s%s", glyph, ui.RenderCheckbox(row.Hidden), name, command)

	switch {
	case row.Name == l.Highlighted && l.Highlighted != "":
		return ui.HighlightItemStyle.Width(max(l.Width-4, 1)).Render(content)
	case isCursor && l.Focused:
		return ui.SelectedItemStyle.Width(max(l.Width-4, 1)).Render(content)
	}
	return ui.ItemStyle.Render(content)
}

// wrapInPanel wraps content in a panel border
func (l *IDEList) wrapInPanel(content string) string {
	style := ui.PanelStyle
	if l.Focused {
		style = ui.ActivePanelStyle
	}
	return style.Width(l.Width).Height(l.Height).Render(content)
}
