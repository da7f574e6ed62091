package components

import (
	"fmt"
	"path/filepath"
	"strings"

	"editorjump/internal/settings"
	"editorjump/internal/ui"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// SettingsSource is the file-backed store the preview reads.
type SettingsSource interface {
	Path() string
	Contents() ([]byte, error)
	LastChange() *settings.Change
}

// SettingsPreview shows the settings file with syntax highlighting, followed
// by the diff of the most recent write
type SettingsPreview struct {
	viewport    viewport.Model
	highlighter *ui.Highlighter

	FilePath   string
	FileSize   int
	TotalLines int
	Change     *settings.Change

	Width  int
	Height int

	lineNumStyle lipgloss.Style
	headerStyle  lipgloss.Style
	borderStyle  lipgloss.Style
}

// NewSettingsPreview creates a preview using the given chroma style
func NewSettingsPreview(style string) *SettingsPreview {
	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	return &SettingsPreview{
		viewport:    vp,
		highlighter: ui.NewHighlighter(style),
		Width:       80,
		Height:      20,
		lineNumStyle: lipgloss.NewStyle().
			Foreground(ui.Muted).
			Width(5).
			Align(lipgloss.Right),
		headerStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(ui.Secondary),
		borderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.Secondary).
			Padding(0, 1),
	}
}

// SetSize updates the viewport dimensions
func (p *SettingsPreview) SetSize(width, height int) {
	p.Width = width
	p.Height = height

	// header (3 lines) and border (2 lines)
	p.viewport.Height = max(height-5, 5)
	p.viewport.Width = max(width-4, 20)
}

// Load reads the settings file from src
func (p *SettingsPreview) Load(src SettingsSource) error {
	data, err := src.Contents()
	if err != nil {
		return fmt.Errorf("read settings file: %w", err)
	}

	p.FilePath = src.Path()
	p.FileSize = len(data)
	p.Change = src.LastChange()
	p.SetContent(string(data))
	return nil
}

// SetContent renders content and the current change into the viewport
func (p *SettingsPreview) SetContent(content string) {
	var b strings.Builder

	if content == "" {
		b.WriteString(ui.MutedStyle.Render("  (settings file is empty; defaults are in use)"))
		p.TotalLines = 1
	} else {
		lines := p.highlighter.HighlightDocument(strings.TrimRight(content, "\n"), p.FilePath)
		for i, line := range lines {
			b.WriteString(p.lineNumStyle.Render(fmt.Sprintf("%d", i+1)) + " │ " + line)
			if i < len(lines)-1 {
				b.WriteString("\n")
			}
		}
		p.TotalLines = len(lines)
	}

	if diff := RenderChange(p.Change); diff != "" {
		b.WriteString("\n\n")
		b.WriteString(diff)
	}

	p.viewport.SetContent(b.String())
	p.viewport.GotoTop()
}

// RenderChange renders the changed lines of c, or "" when nothing changed.
func RenderChange(c *settings.Change) string {
	if c == nil {
		return ""
	}
	changed := c.Changed()
	if len(changed) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(ui.PanelTitleStyle.Render(fmt.Sprintf("Last change: %s (+%d -%d)", c.Key, c.Added, c.Removed)))
	for _, l := range changed {
		b.WriteString("\n")
		switch l.Op {
		case settings.DiffInsert:
			b.WriteString(ui.AddedStyle.Render("+ " + l.Text))
		case settings.DiffDelete:
			b.WriteString(ui.RemovedStyle.Render("- " + l.Text))
		}
	}
	return b.String()
}

// Update handles messages for viewport scrolling
func (p *SettingsPreview) Update(msg tea.Msg) (*SettingsPreview, tea.Cmd) {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

// View renders the preview
func (p *SettingsPreview) View() string {
	var b strings.Builder

	header := p.headerStyle.Render(fmt.Sprintf("%s  %s", filepath.Base(p.FilePath), ui.DocumentType(p.FilePath)))
	info := ui.MutedStyle.Render(fmt.Sprintf("  %s  %d lines", humanize.Bytes(uint64(p.FileSize)), p.TotalLines))
	b.WriteString(header + info + "\n")
	b.WriteString(ui.MutedStyle.Render(p.FilePath) + "\n")
	b.WriteString(ui.DividerStyle.Render(strings.Repeat("─", max(p.Width-4, 1))) + "\n")

	b.WriteString(p.viewport.View())

	if p.viewport.TotalLineCount() > p.viewport.Height {
		b.WriteString("\n" + ui.MutedStyle.Render(fmt.Sprintf("─── %.0f%% ───", p.viewport.ScrollPercent()*100)))
	}

	return p.borderStyle.Width(p.Width).Height(p.Height).Render(b.String())
}
