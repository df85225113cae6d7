package template

// Names of the built-in row templates
const (
	TitleTemplate  = "title"
	MetaTemplate   = "meta"
	DetailTemplate = "detail"
)

// DefaultTemplates contains the built-in formatting templates
var DefaultTemplates = map[string]string{
	TitleTemplate: `{{ .Name | bold }} {{ dim .Version }}`,
	MetaTemplate:  `{{ .ModelType }} · {{ access .AccessType }} · {{ wei .PriceWei }} · {{ bytes .SizeBytes }} · {{ stars .Rating }}`,

	// Markdown, rendered by the detail pane
	DetailTemplate: `# {{ .Name }}

*{{ .ModelType }} {{ .Version }}* · {{ .AccessType }} · {{ wei .PriceWei }} per inference

{{ default "No description." .Description }}

| Size | Rating | Updated |
|------|--------|---------|
| {{ bytes .SizeBytes }} | {{ stars .Rating }} | {{ timestamp .UpdatedAt }} |
{{ if .Tags }}
Tags: {{ join .Tags ", " }}
{{ end }}
` + "`{{ .ID }}`\n",
}

// GetDefaultTemplate returns a default template by name
func GetDefaultTemplate(name string) (string, bool) {
	template, exists := DefaultTemplates[name]
	return template, exists
}

// IsDefaultTemplate checks if a template name is a built-in default
func IsDefaultTemplate(name string) bool {
	_, exists := DefaultTemplates[name]
	return exists
}

// LoadDefaults registers every built-in template, letting overrides replace them
func (e *Engine) LoadDefaults(overrides map[string]string) error {
	for name, body := range DefaultTemplates {
		if override, ok := overrides[name]; ok && override != "" {
			body = override
		}
		if err := e.LoadTemplate(name, body); err != nil {
			return err
		}
	}
	for name, body := range overrides {
		if IsDefaultTemplate(name) {
			continue
		}
		if err := e.LoadTemplate(name, body); err != nil {
			return err
		}
	}
	return nil
}
