package model

import (
	"reflect"
	"testing"
)

// ---------------------------------------------------------------------------
// TestKindOf - Token Prefix Resolution
// ---------------------------------------------------------------------------

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		token string
		want  SectionKind
	}{
		{"personalInfo", KindPersonalInfo},
		{"experience", KindExperience},
		{"experience_2", KindExperience},
		{"education_abc_def", KindEducation},
		{"skills", KindSkills},
		{"projects_1", KindProjects},
		{"references", KindReferences},
		{"hobbies", KindUnknown},
		{"", KindUnknown},
		{"_experience", KindUnknown},
		{"Experience", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			t.Parallel()

			if got := KindOf(tt.token); got != tt.want {
				t.Errorf("KindOf(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestResolve - Custom Sections and Unknown Tokens
// ---------------------------------------------------------------------------

func TestResolve(t *testing.T) {
	t.Parallel()

	doc := &Document{
		CustomSections: []CustomSection{
			{ID: "cs-1", Title: "Languages"},
			{ID: "skills_custom", Title: "Shadowing"},
		},
	}

	t.Run("custom id resolves to custom section", func(t *testing.T) {
		t.Parallel()

		rs, ok := Resolve(doc, "cs-1")
		if !ok || rs.Kind != KindCustom || rs.Custom == nil || rs.Custom.Title != "Languages" {
			t.Errorf("Resolve(cs-1) = %+v, %v", rs, ok)
		}
	})

	t.Run("custom id wins over kind prefix", func(t *testing.T) {
		t.Parallel()

		rs, ok := Resolve(doc, "skills_custom")
		if !ok || rs.Kind != KindCustom {
			t.Errorf("Resolve(skills_custom) kind = %v, want custom", rs.Kind)
		}
	})

	t.Run("unknown token is skipped", func(t *testing.T) {
		t.Parallel()

		if _, ok := Resolve(doc, "hobbies"); ok {
			t.Error("expected unknown token to be unresolved")
		}
	})

	t.Run("nil document resolves built-ins", func(t *testing.T) {
		t.Parallel()

		rs, ok := Resolve(nil, "education_2")
		if !ok || rs.Kind != KindEducation || rs.Token != "education_2" {
			t.Errorf("Resolve(nil, education_2) = %+v, %v", rs, ok)
		}
	})
}

func TestSectionOrder_ResolveAll(t *testing.T) {
	t.Parallel()

	order := SectionOrder{"skills", "bogus", "personalInfo", "experience_1"}
	got := order.ResolveAll(&Document{})

	var tokens []string
	for _, rs := range got {
		tokens = append(tokens, rs.Token)
	}
	want := []string{"skills", "personalInfo", "experience_1"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("ResolveAll tokens = %v, want %v", tokens, want)
	}
}

func TestDefaultSectionOrder(t *testing.T) {
	t.Parallel()

	doc := &Document{CustomSections: []CustomSection{{ID: "a"}, {ID: ""}, {ID: "b"}}}
	got := DefaultSectionOrder(doc)
	want := SectionOrder{"personalInfo", "experience", "education", "skills", "projects", "references", "a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DefaultSectionOrder = %v, want %v", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestParseTemplateID - Closed Set with Typed Fallback
// ---------------------------------------------------------------------------

func TestParseTemplateID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		want   TemplateID
		wantOK bool
	}{
		{"classic", TemplateClassic, true},
		{"Modern", TemplateModern, true},
		{"  minimal ", TemplateMinimal, true},
		{"professional", TemplateProfessional, true},
		{"creative", TemplateCreative, true},
		{"elegant", TemplateElegant, true},
		{"neon", DefaultTemplate, false},
		{"", DefaultTemplate, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ParseTemplateID(tt.name)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseTemplateID(%q) = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestTemplateID_String(t *testing.T) {
	t.Parallel()

	for _, id := range Templates() {
		back, ok := ParseTemplateID(id.String())
		if !ok || back != id {
			t.Errorf("round trip of %v failed: %v, %v", id, back, ok)
		}
	}
	if got := TemplateID(99).String(); got != "classic" {
		t.Errorf("out of range String() = %q, want classic", got)
	}
}

// ---------------------------------------------------------------------------
// TestEnsureIDs
// ---------------------------------------------------------------------------

func TestEnsureIDs(t *testing.T) {
	orig := NewID
	t.Cleanup(func() { NewID = orig })
	n := 0
	NewID = func() string {
		n++
		return "gen-" + string(rune('0'+n))
	}

	doc := &Document{
		Experience:     []Experience{{ID: "keep"}, {}},
		CustomSections: []CustomSection{{Items: []CustomItem{{Text: "x"}}}},
	}
	doc.EnsureIDs()

	if doc.Experience[0].ID != "keep" {
		t.Errorf("existing ID overwritten: %q", doc.Experience[0].ID)
	}
	if doc.Experience[1].ID == "" || doc.CustomSections[0].ID == "" || doc.CustomSections[0].Items[0].ID == "" {
		t.Errorf("missing IDs not generated: %+v", doc)
	}
}

func TestNewID_Unique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for range 100 {
		id := NewExperience().ID
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

// ---------------------------------------------------------------------------
// TestPageCount - Ceil With a Floor of One
// ---------------------------------------------------------------------------

func TestPageCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		height float64
		want   int
	}{
		{-5, 1},
		{0, 1},
		{1, 1},
		{1123, 1},
		{1123.5, 2},
		{1124, 2},
		{1170, 2},
		{2246, 2},
		{3369, 3},
		{3370, 4},
	}

	for _, tt := range tests {
		if got := PageCount(tt.height); got != tt.want {
			t.Errorf("PageCount(%v) = %d, want %d", tt.height, got, tt.want)
		}
	}
}
