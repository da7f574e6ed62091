package ui

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// DefaultHighlightStyle is the chroma style used for the settings preview.
const DefaultHighlightStyle = "catppuccin-mocha"

// Highlighter colours settings documents for the terminal
type Highlighter struct {
	style *chroma.Style
}

// NewHighlighter creates a highlighter using the named chroma style. Unknown
// names fall back to chroma's default.
func NewHighlighter(style string) *Highlighter {
	if style == "" {
		style = DefaultHighlightStyle
	}
	return &Highlighter{style: styles.Get(style)}
}

// HighlightDocument highlights a whole document and returns it split into
// lines. Tokenising the whole text keeps multi-line constructs (YAML block
// scalars, JSON objects) coloured correctly.
func (h *Highlighter) HighlightDocument(content, filename string) []string {
	lexer := lexerFor(filename)
	if lexer == nil {
		return strings.Split(content, "\n")
	}

	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return strings.Split(content, "\n")
	}

	var lines []string
	var line strings.Builder
	for token := iterator(); token != chroma.EOF; token = iterator() {
		parts := strings.Split(token.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, line.String())
				line.Reset()
			}
			line.WriteString(h.render(token.Type, part))
		}
	}
	return append(lines, line.String())
}

// HighlightLine highlights a single line.
func (h *Highlighter) HighlightLine(line, filename string) string {
	out := h.HighlightDocument(line, filename)
	return strings.Join(out, "")
}

func (h *Highlighter) render(tt chroma.TokenType, text string) string {
	if text == "" {
		return ""
	}
	entry := h.style.Get(tt)
	if !entry.Colour.IsSet() {
		return text
	}

	styled := lipgloss.NewStyle().Foreground(lipgloss.Color(entry.Colour.String()))
	if entry.Bold == chroma.Yes {
		styled = styled.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		styled = styled.Italic(true)
	}
	return styled.Render(text)
}

// lexerFor returns the lexer for a settings or config file.
func lexerFor(filename string) chroma.Lexer {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return lexers.Get("yaml")
	case ".json":
		return lexers.Get("json")
	case ".toml":
		return lexers.Get("toml")
	}
	return lexers.Match(filename)
}

// DocumentType returns a label for the preview header.
func DocumentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return "YAML"
	case ".json":
		return "JSON"
	case ".toml":
		return "TOML"
	default:
		return "Text"
	}
}
