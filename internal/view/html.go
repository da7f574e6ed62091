package view

import (
	"bytes"
	"embed"
	"html/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// RenderHTML renders the model as a complete HTML document with its script.
// html/template escapes every value for the context it lands in, so a root
// path containing &, " or < cannot break out of its attribute.
func RenderHTML(m Model) (string, error) {
	var buf bytes.Buffer
	if err := pageTemplate.ExecuteTemplate(&buf, "page", m); err != nil {
		return "", err
	}
	return buf.String(), nil
}
