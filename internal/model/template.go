package model

import "strings"

// TemplateID is the closed set of CV templates.
type TemplateID int

// Known templates. TemplateClassic is the fallback for unknown names.
const (
	TemplateClassic TemplateID = iota
	TemplateModern
	TemplateMinimal
	TemplateProfessional
	TemplateCreative
	TemplateElegant

	templateCount
)

// DefaultTemplate is used when no template or an unknown one is selected.
const DefaultTemplate = TemplateClassic

var templateNames = [templateCount]string{
	TemplateClassic:      "classic",
	TemplateModern:       "modern",
	TemplateMinimal:      "minimal",
	TemplateProfessional: "professional",
	TemplateCreative:     "creative",
	TemplateElegant:      "elegant",
}

// String returns the template's identifier.
func (t TemplateID) String() string {
	if t < 0 || t >= templateCount {
		return templateNames[DefaultTemplate]
	}
	return templateNames[t]
}

// MarshalText encodes the template as its identifier.
func (t TemplateID) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a template identifier, falling back to DefaultTemplate.
func (t *TemplateID) UnmarshalText(b []byte) error {
	*t, _ = ParseTemplateID(string(b))
	return nil
}

// ParseTemplateID maps a name to a template (case-insensitive).
// Unknown names yield DefaultTemplate and ok=false.
func ParseTemplateID(name string) (TemplateID, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range templateNames {
		if n == name {
			return TemplateID(i), true
		}
	}
	return DefaultTemplate, false
}

// Templates returns every known template in declaration order.
func Templates() []TemplateID {
	out := make([]TemplateID, templateCount)
	for i := range out {
		out[i] = TemplateID(i)
	}
	return out
}

// Design holds the free-form design options of a template selection.
// Empty fields mean "use the template default".
type Design struct {
	FontFamily     string `json:"fontFamily" yaml:"fontFamily"`
	PrimaryColor   string `json:"primaryColor" yaml:"primaryColor"`
	SecondaryColor string `json:"secondaryColor" yaml:"secondaryColor"`
}

// TemplateSelection pairs a template with design options.
// Changing it never touches document content.
type TemplateSelection struct {
	Template TemplateID `json:"template" yaml:"template"`
	Design   Design     `json:"design" yaml:"design"`
}
