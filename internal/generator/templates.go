package generator

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/seitarof/gen-equality/internal/parser"
)

//go:embed templates/*.cs.tmpl
var templateFS embed.FS

const (
	autoEqualityTemplate = "auto_equality_attribute.cs.tmpl"
	autoNotifyTemplate   = "auto_notify_attribute.cs.tmpl"
)

type attributeTemplateData struct {
	Header string
	Name   string
}

type attributeRenderer struct {
	tmpl *template.Template
}

func newAttributeRenderer() *attributeRenderer {
	tmpl := template.Must(template.New("").ParseFS(templateFS, "templates/*.cs.tmpl"))
	return &attributeRenderer{tmpl: tmpl}
}

func (r *attributeRenderer) render(name string) (string, error) {
	data := attributeTemplateData{Header: AutoGeneratedHeader}
	switch name {
	case autoEqualityTemplate:
		data.Name = parser.MarkerAttribute
	case autoNotifyTemplate:
		data.Name = parser.NotifyAttribute
	}
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("template: %w", err)
	}
	return buf.String(), nil
}
