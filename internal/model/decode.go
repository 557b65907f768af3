package model

import (
	"fmt"
	"strconv"
	"strings"
)

// SkillPlaceholder replaces skill entries that are not usable strings.
const SkillPlaceholder = "Skill"

// CVFile is the on-disk bundle: template selection, section order and content.
type CVFile struct {
	Selection TemplateSelection
	Order     SectionOrder // nil means DefaultSectionOrder
	Document  Document
}

// EffectiveOrder returns the explicit order, or the default one when unset.
func (f *CVFile) EffectiveOrder() SectionOrder {
	if f.Order != nil {
		return f.Order
	}
	return DefaultSectionOrder(&f.Document)
}

// Decode builds a CVFile from loosely typed data (decoded YAML or JSON).
// It never fails: values of the wrong shape are coerced or dropped so that
// hand-edited content cannot break rendering. Entries without IDs get one.
func Decode(raw map[string]any) *CVFile {
	f := &CVFile{}
	if raw == nil {
		return f
	}

	f.Selection.Template, _ = ParseTemplateID(str(raw["template"]))
	if d := asMap(raw["design"]); d != nil {
		f.Selection.Design = Design{
			FontFamily:     str(d["fontFamily"]),
			PrimaryColor:   str(d["primaryColor"]),
			SecondaryColor: str(d["secondaryColor"]),
		}
	}

	if v, ok := raw["sectionOrder"]; ok {
		f.Order = SectionOrder{}
		for _, t := range asSlice(v) {
			if s := strings.TrimSpace(str(t)); s != "" {
				f.Order = append(f.Order, s)
			}
		}
	}

	doc := &f.Document
	if p := asMap(raw["personalInfo"]); p != nil {
		doc.PersonalInfo = PersonalInfo{
			FullName: str(p["fullName"]),
			JobTitle: str(p["jobTitle"]),
			Email:    str(p["email"]),
			Phone:    str(p["phone"]),
			Location: str(p["location"]),
			Website:  str(p["website"]),
			LinkedIn: str(p["linkedin"]),
			GitHub:   str(p["github"]),
			Summary:  str(p["summary"]),
		}
	}

	for _, m := range maps(raw["experience"]) {
		doc.Experience = append(doc.Experience, Experience{
			ID:          str(m["id"]),
			Company:     str(m["company"]),
			Position:    str(m["position"]),
			Location:    str(m["location"]),
			StartDate:   str(m["startDate"]),
			EndDate:     str(m["endDate"]),
			Current:     boolean(m["current"]),
			Description: str(m["description"]),
		})
	}

	for _, m := range maps(raw["education"]) {
		doc.Education = append(doc.Education, Education{
			ID:          str(m["id"]),
			Institution: str(m["institution"]),
			Degree:      str(m["degree"]),
			Field:       str(m["field"]),
			StartDate:   str(m["startDate"]),
			EndDate:     str(m["endDate"]),
			Description: str(m["description"]),
		})
	}

	for _, s := range asSlice(raw["skills"]) {
		doc.Skills = append(doc.Skills, skill(s))
	}

	for _, m := range maps(raw["projects"]) {
		var techs []string
		for _, t := range asSlice(m["technologies"]) {
			if s := str(t); s != "" {
				techs = append(techs, s)
			}
		}
		doc.Projects = append(doc.Projects, Project{
			ID:           str(m["id"]),
			Name:         str(m["name"]),
			Description:  str(m["description"]),
			Technologies: techs,
			URL:          str(m["url"]),
		})
	}

	for _, m := range maps(raw["references"]) {
		doc.References = append(doc.References, Reference{
			ID:       str(m["id"]),
			Name:     str(m["name"]),
			Position: str(m["position"]),
			Company:  str(m["company"]),
			Email:    str(m["email"]),
			Phone:    str(m["phone"]),
		})
	}

	for _, m := range maps(raw["customSections"]) {
		cs := CustomSection{ID: str(m["id"]), Title: str(m["title"])}
		for _, it := range asSlice(m["items"]) {
			// Items are either plain strings or {id, text} records.
			if im := asMap(it); im != nil {
				cs.Items = append(cs.Items, CustomItem{ID: str(im["id"]), Text: str(im["text"])})
				continue
			}
			cs.Items = append(cs.Items, CustomItem{Text: str(it)})
		}
		doc.CustomSections = append(doc.CustomSections, cs)
	}

	doc.EnsureIDs()
	return f
}

// skill coerces a raw skill entry to a display label.
func skill(v any) string {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return SkillPlaceholder
	}
	return s
}

// str coerces scalars to strings; composite values become "".
func str(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x)
	case fmt.Stringer:
		return x.String()
	}
	return ""
}

func boolean(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(x))
		return b
	}
	return false
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

// asMap accepts both map shapes YAML decoders produce.
func asMap(v any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return m
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out
	}
	return nil
}

// maps returns the map elements of a slice, skipping anything else.
func maps(v any) []map[string]any {
	var out []map[string]any
	for _, e := range asSlice(v) {
		if m := asMap(e); m != nil {
			out = append(out, m)
		}
	}
	return out
}
