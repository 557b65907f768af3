// Package layout estimates how tall a CV will render and plans the A4 pages
// that hold it.
//
// The estimate is a heuristic over section cardinality; it never looks at
// rendered geometry. Long free text is under-estimated and sparse entries
// over-estimated. The exporter measures the real height instead, so the two
// page counts can disagree.
package layout

import (
	"strings"

	"github.com/alnah/go-cv2pdf/internal/model"
)

// Heuristics are the tuning constants of the estimate, in CSS pixels.
type Heuristics struct {
	Header            int `yaml:"header"`
	PerExperience     int `yaml:"perExperience"`
	PerEducation      int `yaml:"perEducation"`
	PerProject        int `yaml:"perProject"`
	PerReference      int `yaml:"perReference"`
	Skills            int `yaml:"skills"`
	CustomSectionBase int `yaml:"customSectionBase"`
	PerCustomItem     int `yaml:"perCustomItem"`
	Padding           int `yaml:"padding"`
}

// DefaultHeuristics returns the empirical defaults.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		Header:            200,
		PerExperience:     120,
		PerEducation:      100,
		PerProject:        140,
		PerReference:      100,
		Skills:            150,
		CustomSectionBase: 80,
		PerCustomItem:     30,
		Padding:           100,
	}
}

// PagePlan is the page partition of a document: Count pages, page i starting
// at Offsets[i] pixels into the full-height render.
type PagePlan struct {
	Count   int   `json:"count"`
	Offsets []int `json:"offsets"`
	// Estimate is the total height the plan was derived from.
	Estimate int `json:"estimate"`
}

// NewPagePlan partitions height into whole pages. Count is at least 1.
func NewPagePlan(height int) PagePlan {
	count := model.PageCount(float64(height))
	offsets := make([]int, count)
	for i := range offsets {
		offsets[i] = i * model.PageHeightPx
	}
	return PagePlan{Count: count, Offsets: offsets, Estimate: height}
}

// Estimate returns the estimated rendered height of doc under order.
// Only sections present in order count; a token repeated with a suffix
// counts again. Unknown tokens add nothing.
func (h Heuristics) Estimate(doc *model.Document, order model.SectionOrder) int {
	if doc == nil {
		doc = &model.Document{}
	}
	total := h.Padding
	for _, rs := range order.ResolveAll(doc) {
		switch rs.Kind {
		case model.KindPersonalInfo:
			total += h.Header
		case model.KindExperience:
			total += h.PerExperience * len(doc.Experience)
		case model.KindEducation:
			total += h.PerEducation * len(doc.Education)
		case model.KindProjects:
			total += h.PerProject * len(doc.Projects)
		case model.KindReferences:
			total += h.PerReference * len(doc.References)
		case model.KindSkills:
			total += h.Skills
		case model.KindCustom:
			total += h.CustomSectionBase + h.PerCustomItem*renderedItems(rs.Custom)
		}
	}
	return total
}

// renderedItems counts the items of cs that are not blank; blank items are
// not rendered.
func renderedItems(cs *model.CustomSection) int {
	n := 0
	for _, it := range cs.Items {
		if strings.TrimSpace(it.Text) != "" {
			n++
		}
	}
	return n
}

// Plan estimates doc's height and partitions it into pages.
func (h Heuristics) Plan(doc *model.Document, order model.SectionOrder) PagePlan {
	return NewPagePlan(h.Estimate(doc, order))
}

// Validate reports negative constants, which would break monotonicity.
func (h Heuristics) Validate() error {
	fields := []struct {
		name  string
		value int
	}{
		{"header", h.Header},
		{"perExperience", h.PerExperience},
		{"perEducation", h.PerEducation},
		{"perProject", h.PerProject},
		{"perReference", h.PerReference},
		{"skills", h.Skills},
		{"customSectionBase", h.CustomSectionBase},
		{"perCustomItem", h.PerCustomItem},
		{"padding", h.Padding},
	}
	for _, f := range fields {
		if f.value < 0 {
			return &HeuristicError{Field: f.name, Value: f.value}
		}
	}
	return nil
}
