package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	Primary    = lipgloss.Color("#7C3AED") // Purple
	Secondary  = lipgloss.Color("#06B6D4") // Cyan
	Success    = lipgloss.Color("#10B981") // Green
	Warning    = lipgloss.Color("#F59E0B") // Amber
	Error      = lipgloss.Color("#EF4444") // Red
	Muted      = lipgloss.Color("#6B7280") // Gray
	Foreground = lipgloss.Color("#F9FAFB") // Light
	Border     = lipgloss.Color("#374151") // Border gray
	Highlight  = lipgloss.Color("#8B5CF6") // Light purple
	Selected   = lipgloss.Color("#4F46E5") // Indigo
)

// Styles
var (
	AppStyle = lipgloss.NewStyle().
			Padding(0, 1)

	// Header
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1).
			MarginBottom(1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Foreground)

	VersionStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Panels
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Secondary).
			Padding(0, 1)

	ActivePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(Primary).
				Padding(0, 1)

	// List rows
	ItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	SelectedItemStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Selected).
				Foreground(Foreground)

	// HighlightItemStyle marks the row a highlight request pointed at.
	HighlightItemStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Highlight).
				Foreground(Foreground).
				Bold(true)

	ActiveGlyphStyle = lipgloss.NewStyle().
				Foreground(Success).
				Bold(true)

	HiddenStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Strikethrough(true)

	CustomStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Italic(true)

	// Form
	LabelStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	FocusedLabelStyle = lipgloss.NewStyle().
				Foreground(Primary).
				Bold(true)

	DisabledStyle = lipgloss.NewStyle().
			Foreground(Border)

	NoteStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Padding(0, 1).
			MarginTop(1)

	StatusTextStyle = lipgloss.NewStyle().
			Foreground(Foreground)

	// Help bar
	HelpBarStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Padding(0, 1)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(Muted)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Muted)

	DividerStyle = lipgloss.NewStyle().
			Foreground(Border)

	// Diff lines of the settings preview
	AddedStyle = lipgloss.NewStyle().
			Foreground(Success)

	RemovedStyle = lipgloss.NewStyle().
			Foreground(Error)

	// Dialog box style
	DialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2).
			Width(64)

	// Button styles
	ButtonStyle = lipgloss.NewStyle().
			Foreground(Foreground).
			Background(Border).
			Padding(0, 2)

	ButtonActiveStyle = lipgloss.NewStyle().
				Foreground(Foreground).
				Background(Primary).
				Padding(0, 2).
				Bold(true)
)

// Toast levels understood by RenderNotification.
const (
	LevelSuccess = "success"
	LevelInfo    = "info"
	LevelError   = "error"
)

// toasts maps a level to its icon and colors.
var toasts = map[string]struct {
	icon  string
	style lipgloss.Style
}{
	LevelSuccess: {"✓", toastStyle(Success, "#064E3B")},
	LevelInfo:    {"ℹ", toastStyle("#93C5FD", "#1E3A5F")},
	LevelError:   {"✗", toastStyle("#FCA5A5", "#7F1D1D")},
}

func toastStyle(fg, bg lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(fg).Background(bg).Padding(0, 1).Bold(true)
}

// RenderCheckbox renders the hidden/custom flags of a row or form.
func RenderCheckbox(checked bool) string {
	if checked {
		return ActiveGlyphStyle.UnsetBold().Render("[✓]")
	}
	return MutedStyle.Render("[ ]")
}

// NewHelp returns a help view drawn in the help bar palette.
func NewHelp() help.Model {
	h := help.New()
	h.Styles.ShortKey = HelpKeyStyle
	h.Styles.ShortDesc = HelpDescStyle
	h.Styles.ShortSeparator = DividerStyle
	h.Styles.FullKey = HelpKeyStyle
	h.Styles.FullDesc = HelpDescStyle
	h.Styles.FullSeparator = DividerStyle
	return h
}

// RenderNotification renders a toast for the status line. Unknown levels
// render muted.
func RenderNotification(level string, message string) string {
	t, ok := toasts[level]
	if !ok {
		return MutedStyle.Render("• " + message)
	}
	return t.style.Render(t.icon + " " + message)
}

// RenderButton renders a styled button
func RenderButton(label string, active bool) string {
	if active {
		return ButtonActiveStyle.Render(label)
	}
	return ButtonStyle.Render(label)
}

// RenderLabel renders a form label, emphasised when its field has focus.
func RenderLabel(label string, focused bool) string {
	if focused {
		return FocusedLabelStyle.Render("› " + label)
	}
	return LabelStyle.Render("  " + label)
}
