// Package model defines the CV document, its section order and template selection.
//
// The types here are plain data: the editing layer owns them, the render and
// export stages only read them. Collections keep insertion order; order is the
// only positioning signal a document carries.
package model

import "github.com/google/uuid"

// PersonalInfo holds the header fields of a CV.
type PersonalInfo struct {
	FullName string `json:"fullName" yaml:"fullName"`
	JobTitle string `json:"jobTitle" yaml:"jobTitle"`
	Email    string `json:"email" yaml:"email"`
	Phone    string `json:"phone" yaml:"phone"`
	Location string `json:"location" yaml:"location"`
	Website  string `json:"website" yaml:"website"`
	LinkedIn string `json:"linkedin" yaml:"linkedin"`
	GitHub   string `json:"github" yaml:"github"`
	Summary  string `json:"summary" yaml:"summary"` // Markdown
}

// IsZero reports whether no personal field is set.
func (p PersonalInfo) IsZero() bool {
	return p == PersonalInfo{}
}

// Experience is one position held.
type Experience struct {
	ID          string `json:"id" yaml:"id"`
	Company     string `json:"company" yaml:"company"`
	Position    string `json:"position" yaml:"position"`
	Location    string `json:"location" yaml:"location"`
	StartDate   string `json:"startDate" yaml:"startDate"` // YYYY-MM or YYYY-MM-DD
	EndDate     string `json:"endDate" yaml:"endDate"`
	Current     bool   `json:"current" yaml:"current"`
	Description string `json:"description" yaml:"description"` // Markdown
}

// Education is one degree or course of study.
type Education struct {
	ID          string `json:"id" yaml:"id"`
	Institution string `json:"institution" yaml:"institution"`
	Degree      string `json:"degree" yaml:"degree"`
	Field       string `json:"field" yaml:"field"`
	StartDate   string `json:"startDate" yaml:"startDate"`
	EndDate     string `json:"endDate" yaml:"endDate"`
	Description string `json:"description" yaml:"description"`
}

// Project is a personal or professional project.
type Project struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Description  string   `json:"description" yaml:"description"` // Markdown, may contain code
	Technologies []string `json:"technologies" yaml:"technologies"`
	URL          string   `json:"url" yaml:"url"`
}

// Reference is a professional contact vouching for the candidate.
type Reference struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Position string `json:"position" yaml:"position"`
	Company  string `json:"company" yaml:"company"`
	Email    string `json:"email" yaml:"email"`
	Phone    string `json:"phone" yaml:"phone"`
}

// CustomItem is a single free-text line of a custom section.
type CustomItem struct {
	ID   string `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
}

// CustomSection is a user-defined titled list.
type CustomSection struct {
	ID    string       `json:"id" yaml:"id"`
	Title string       `json:"title" yaml:"title"`
	Items []CustomItem `json:"items" yaml:"items"`
}

// Document is the normalized CV content.
type Document struct {
	PersonalInfo   PersonalInfo    `json:"personalInfo" yaml:"personalInfo"`
	Experience     []Experience    `json:"experience" yaml:"experience"`
	Education      []Education     `json:"education" yaml:"education"`
	Skills         []string        `json:"skills" yaml:"skills"`
	Projects       []Project       `json:"projects" yaml:"projects"`
	References     []Reference     `json:"references" yaml:"references"`
	CustomSections []CustomSection `json:"customSections" yaml:"customSections"`
}

// CustomSection returns the custom section with the given ID.
func (d *Document) CustomSection(id string) (*CustomSection, bool) {
	if d == nil || id == "" {
		return nil, false
	}
	for i := range d.CustomSections {
		if d.CustomSections[i].ID == id {
			return &d.CustomSections[i], true
		}
	}
	return nil, false
}

// NewID returns a fresh locally unique entry identifier.
var NewID = func() string {
	return uuid.NewString()
}

// NewExperience returns an empty experience entry with a fresh ID.
func NewExperience() Experience { return Experience{ID: NewID()} }

// NewEducation returns an empty education entry with a fresh ID.
func NewEducation() Education { return Education{ID: NewID()} }

// NewProject returns an empty project entry with a fresh ID.
func NewProject() Project { return Project{ID: NewID()} }

// NewReference returns an empty reference entry with a fresh ID.
func NewReference() Reference { return Reference{ID: NewID()} }

// NewCustomSection returns a titled custom section with a fresh ID.
func NewCustomSection(title string) CustomSection {
	return CustomSection{ID: NewID(), Title: title}
}

// NewCustomItem returns a custom section line with a fresh ID.
func NewCustomItem(text string) CustomItem {
	return CustomItem{ID: NewID(), Text: text}
}

// EnsureIDs assigns IDs to entries loaded without one. Existing IDs are kept.
// Call once when a document enters the program, never during rendering.
func (d *Document) EnsureIDs() {
	if d == nil {
		return
	}
	for i := range d.Experience {
		d.Experience[i].ID = orNewID(d.Experience[i].ID)
	}
	for i := range d.Education {
		d.Education[i].ID = orNewID(d.Education[i].ID)
	}
	for i := range d.Projects {
		d.Projects[i].ID = orNewID(d.Projects[i].ID)
	}
	for i := range d.References {
		d.References[i].ID = orNewID(d.References[i].ID)
	}
	for i := range d.CustomSections {
		cs := &d.CustomSections[i]
		cs.ID = orNewID(cs.ID)
		for j := range cs.Items {
			cs.Items[j].ID = orNewID(cs.Items[j].ID)
		}
	}
}

func orNewID(id string) string {
	if id != "" {
		return id
	}
	return NewID()
}
