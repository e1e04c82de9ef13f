package template

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"strings"
	"text/template"
)

//go:embed mail/*.tmpl
var mailTemplates embed.FS

// Renewed is the notification body listing renewed certificates.
const Renewed = "renewed"

var funcMap = template.FuncMap{
	"join": strings.Join,
}

// Render renders the named mail template with data.
func Render(name string, data interface{}) (string, error) {
	content, err := mailTemplates.ReadFile(path.Join("mail", name+".tmpl"))
	if err != nil {
		return "", fmt.Errorf("template not found: %s", name)
	}

	tmpl, err := template.New(name).Funcs(funcMap).Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}

	return buf.String(), nil
}
