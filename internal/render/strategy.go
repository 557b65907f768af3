package render

import (
	"github.com/alnah/go-cv2pdf/internal/assets"
	"github.com/alnah/go-cv2pdf/internal/model"
)

// Style is a row of the generic renderer's style table: the extra CSS class
// applied to each structural element.
type Style struct {
	Header  string
	Section string
	Heading string
	Accent  string
	Item    string
	Chip    string
}

// strategy selects the markup source for a template.
type strategy struct {
	// source is the asset template holding the section blocks.
	source string
	style  Style
}

var styleTable = map[model.TemplateID]Style{
	model.TemplateMinimal: {
		Section: "minimal-section",
		Heading: "minimal-heading",
		Accent:  "minimal-accent",
		Item:    "minimal-item",
	},
	model.TemplateProfessional: {
		Header:  "professional-header",
		Section: "professional-section",
		Heading: "professional-heading",
		Accent:  "professional-accent",
		Item:    "professional-item",
		Chip:    "professional-chip",
	},
	model.TemplateCreative: {
		Header:  "creative-header",
		Section: "creative-section",
		Heading: "creative-heading",
		Accent:  "creative-accent",
		Item:    "creative-item",
		Chip:    "creative-chip",
	},
	model.TemplateElegant: {
		Header:  "elegant-header",
		Section: "elegant-section",
		Heading: "elegant-heading",
		Accent:  "elegant-accent",
		Item:    "elegant-item",
	},
}

// strategyFor returns the render strategy of id. Out-of-range ids use the
// default template's strategy.
func strategyFor(id model.TemplateID) strategy {
	switch id {
	case model.TemplateClassic:
		return strategy{source: "classic"}
	case model.TemplateModern:
		return strategy{source: "modern"}
	case model.TemplateMinimal, model.TemplateProfessional, model.TemplateCreative, model.TemplateElegant:
		return strategy{source: assets.GenericTemplateName, style: styleTable[id]}
	}
	return strategyFor(model.DefaultTemplate)
}

// IsPrebuilt reports whether id has its own renderer rather than the generic one.
func IsPrebuilt(id model.TemplateID) bool {
	return strategyFor(id).source != assets.GenericTemplateName
}
