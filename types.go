package cv2pdf

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alnah/go-cv2pdf/internal/compose"
	"github.com/alnah/go-cv2pdf/internal/export"
	"github.com/alnah/go-cv2pdf/internal/layout"
	"github.com/alnah/go-cv2pdf/internal/model"
	"github.com/alnah/go-cv2pdf/internal/render"
	"github.com/alnah/go-cv2pdf/internal/surface"
	"github.com/alnah/go-cv2pdf/internal/yamlutil"
)

// Document model. The types live in an internal package so the pipeline
// stages can share them; these aliases are the public names.
type (
	Document          = model.Document
	PersonalInfo      = model.PersonalInfo
	Experience        = model.Experience
	Education         = model.Education
	Project           = model.Project
	Reference         = model.Reference
	CustomSection     = model.CustomSection
	CustomItem        = model.CustomItem
	SectionOrder      = model.SectionOrder
	TemplateID        = model.TemplateID
	Design            = model.Design
	TemplateSelection = model.TemplateSelection
	CVFile            = model.CVFile
)

// Pipeline outputs.
type (
	RenderedPage = render.Page
	PagePlan     = layout.PagePlan
	Heuristics   = layout.Heuristics
	Replanner    = layout.Replanner
	Composition  = compose.Composition
	Frame        = compose.Frame
	Artifact     = export.Artifact
	Measurement  = export.Measurement
	Notifier     = export.Notifier
	NotifierFunc = export.NotifierFunc
	Downloader   = export.Downloader
	Engine       = surface.Engine
)

// Templates.
const (
	TemplateClassic      = model.TemplateClassic
	TemplateModern       = model.TemplateModern
	TemplateMinimal      = model.TemplateMinimal
	TemplateProfessional = model.TemplateProfessional
	TemplateCreative     = model.TemplateCreative
	TemplateElegant      = model.TemplateElegant
	DefaultTemplate      = model.DefaultTemplate
)

// Browser engines.
const (
	EngineRod      = surface.EngineRod
	EngineChromedp = surface.EngineChromedp
)

// Page geometry in CSS pixels.
const (
	PageWidthPx  = model.PageWidthPx
	PageHeightPx = model.PageHeightPx
)

// FailureMessage is sent to the Notifier when an export fails.
const FailureMessage = export.FailureMessage

// Templates lists the prebuilt templates.
func Templates() []TemplateID {
	return model.Templates()
}

// ParseTemplateID resolves a template name; unknown names yield the default
// template and false.
func ParseTemplateID(name string) (TemplateID, bool) {
	return model.ParseTemplateID(name)
}

// DefaultHeuristics returns the default page estimate constants.
func DefaultHeuristics() Heuristics {
	return layout.DefaultHeuristics()
}

// NewReplanner returns a debounced page planner for documents being edited.
// onChange receives the new plan whenever the page count changes; a
// non-positive delay uses 100ms.
func NewReplanner(h Heuristics, delay time.Duration, onChange func(PagePlan)) *Replanner {
	return layout.NewReplanner(h, delay, onChange)
}

// Frames lists the preview frames of plan, one per page.
func Frames(plan PagePlan) []Frame {
	return compose.Frames(plan)
}

// DefaultSectionOrder returns the built-in sections followed by doc's
// custom sections.
func DefaultSectionOrder(doc *Document) SectionOrder {
	return model.DefaultSectionOrder(doc)
}

// Input is one CV to render.
type Input struct {
	Document  *Document         // CV content (required)
	Selection TemplateSelection // Template and design
	Order     SectionOrder      // Section order (nil = DefaultSectionOrder)
	Title     string            // Document title (empty = full name, then "CV")
	FileName  string            // Download name (empty = cv.pdf)
	CSS       string            // Extra CSS appended after the template style
	BaseDir   string            // Relative image and link paths resolve here on export
}

// InputFrom builds an Input from a decoded CV file.
func InputFrom(f *CVFile) Input {
	if f == nil {
		return Input{}
	}
	return Input{
		Document:  &f.Document,
		Selection: f.Selection,
		Order:     f.Order,
	}
}

// order returns the effective section order.
func (in Input) order() SectionOrder {
	if in.Order != nil {
		return in.Order
	}
	return model.DefaultSectionOrder(in.Document)
}

// title returns the effective document title.
func (in Input) title() string {
	if t := strings.TrimSpace(in.Title); t != "" {
		return t
	}
	if in.Document != nil {
		if name := strings.TrimSpace(in.Document.PersonalInfo.FullName); name != "" {
			return name
		}
	}
	return "CV"
}

// ParseCV decodes a YAML or JSON CV file. Malformed values are coerced or
// dropped; only unreadable syntax is an error.
func ParseCV(data []byte) (*CVFile, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	raw, err := yamlutil.DecodeMap(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCVParse, err)
	}
	return model.Decode(raw), nil
}

// LoadCV reads and decodes a CV file from disk.
func LoadCV(path string) (*CVFile, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("reading CV file: %w", err)
	}
	return ParseCV(data)
}
