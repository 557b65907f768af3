package model

import "strings"

// SectionKind identifies a built-in section type.
type SectionKind int

// Built-in section kinds. KindCustom marks a token resolved to a CustomSection.
const (
	KindUnknown SectionKind = iota
	KindPersonalInfo
	KindExperience
	KindEducation
	KindSkills
	KindProjects
	KindReferences
	KindCustom
)

// Section tokens as they appear in a SectionOrder.
const (
	TokenPersonalInfo = "personalInfo"
	TokenExperience   = "experience"
	TokenEducation    = "education"
	TokenSkills       = "skills"
	TokenProjects     = "projects"
	TokenReferences   = "references"
)

// tokenSuffixSep separates a kind from a disambiguating suffix ("experience_2").
const tokenSuffixSep = "_"

var kindByToken = map[string]SectionKind{
	TokenPersonalInfo: KindPersonalInfo,
	TokenExperience:   KindExperience,
	TokenEducation:    KindEducation,
	TokenSkills:       KindSkills,
	TokenProjects:     KindProjects,
	TokenReferences:   KindReferences,
}

// String returns the canonical token of a built-in kind.
func (k SectionKind) String() string {
	switch k {
	case KindPersonalInfo:
		return TokenPersonalInfo
	case KindExperience:
		return TokenExperience
	case KindEducation:
		return TokenEducation
	case KindSkills:
		return TokenSkills
	case KindProjects:
		return TokenProjects
	case KindReferences:
		return TokenReferences
	case KindCustom:
		return "custom"
	}
	return "unknown"
}

// SectionOrder lists the section tokens to render, in order.
type SectionOrder []string

// DefaultSectionOrder returns the built-in sections followed by every custom
// section of doc, in document order.
func DefaultSectionOrder(doc *Document) SectionOrder {
	order := SectionOrder{
		TokenPersonalInfo,
		TokenExperience,
		TokenEducation,
		TokenSkills,
		TokenProjects,
		TokenReferences,
	}
	if doc != nil {
		for _, cs := range doc.CustomSections {
			if cs.ID != "" {
				order = append(order, cs.ID)
			}
		}
	}
	return order
}

// ResolvedSection is a token matched against a document.
type ResolvedSection struct {
	Token  string
	Kind   SectionKind
	Custom *CustomSection // set when Kind == KindCustom
}

// Resolve maps a token to a section. Custom section IDs win over kind prefixes.
// Unknown tokens return ok=false and are meant to be skipped, not reported.
func Resolve(doc *Document, token string) (ResolvedSection, bool) {
	if cs, ok := doc.CustomSection(token); ok {
		return ResolvedSection{Token: token, Kind: KindCustom, Custom: cs}, true
	}
	kind := KindOf(token)
	if kind == KindUnknown {
		return ResolvedSection{}, false
	}
	return ResolvedSection{Token: token, Kind: kind}, true
}

// KindOf strips any "_suffix" from token and maps the prefix to a built-in kind.
func KindOf(token string) SectionKind {
	prefix, _, _ := strings.Cut(token, tokenSuffixSep)
	return kindByToken[prefix]
}

// ResolveAll resolves every token of order, dropping unknown ones.
func (o SectionOrder) ResolveAll(doc *Document) []ResolvedSection {
	out := make([]ResolvedSection, 0, len(o))
	for _, token := range o {
		if rs, ok := Resolve(doc, token); ok {
			out = append(out, rs)
		}
	}
	return out
}
