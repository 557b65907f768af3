package render

import (
	"html/template"
	"net/url"
	"strings"
	"unicode"

	"github.com/alnah/go-cv2pdf/internal/model"
)

// Labels shown in place of missing content.
const (
	PlaceholderName = "Your Name"
	UntitledSection = "Untitled Section"
	PresentLabel    = "Present"
)

// sectionTitles are the headings of built-in sections.
var sectionTitles = map[model.SectionKind]string{
	model.KindExperience: "Experience",
	model.KindEducation:  "Education",
	model.KindSkills:     "Skills",
	model.KindProjects:   "Projects",
	model.KindReferences: "References",
}

// emptyStates are shown when a known section has no entries.
var emptyStates = map[model.SectionKind]string{
	model.KindExperience: "No experience added yet.",
	model.KindEducation:  "No education added yet.",
	model.KindSkills:     "No skills added yet.",
	model.KindProjects:   "No projects added yet.",
	model.KindReferences: "No references added yet.",
	model.KindCustom:     "No items added yet.",
}

// sectionView is the data every section block is executed with.
type sectionView struct {
	Token string
	Title string
	Empty string
	Style Style

	Person     personView
	Experience []experienceView
	Education  []educationView
	Skills     []string
	Projects   []projectView
	References []model.Reference
	Items      []itemView
}

type contactView struct {
	Label string
	Text  string
	Href  string
}

type personView struct {
	Name        string
	Placeholder bool
	Initials    string
	JobTitle    string
	Contacts    []contactView
	Summary     template.HTML
}

type experienceView struct {
	ID          string
	Position    string
	Company     string
	Location    string
	Period      string
	Description template.HTML
}

type educationView struct {
	ID          string
	Degree      string
	Field       string
	Institution string
	Period      string
	Description template.HTML
}

type projectView struct {
	ID           string
	Name         string
	URL          string
	Technologies []string
	Description  template.HTML
}

type itemView struct {
	ID   string
	HTML template.HTML
}

// view builds the block data for one resolved section.
func (n *Normalizer) view(doc *model.Document, rs model.ResolvedSection, style Style) sectionView {
	v := sectionView{Token: rs.Token, Title: sectionTitles[rs.Kind], Style: style}

	switch rs.Kind {
	case model.KindPersonalInfo:
		v.Person = n.person(doc.PersonalInfo)

	case model.KindExperience:
		for _, e := range doc.Experience {
			v.Experience = append(v.Experience, experienceView{
				ID:          e.ID,
				Position:    strings.TrimSpace(e.Position),
				Company:     strings.TrimSpace(e.Company),
				Location:    strings.TrimSpace(e.Location),
				Period:      n.dates.Period(e.StartDate, e.EndDate, e.Current, n.present),
				Description: n.markup.MustBlock(e.Description),
			})
		}
		v.Empty = emptyIf(len(v.Experience) == 0, rs.Kind)

	case model.KindEducation:
		for _, e := range doc.Education {
			v.Education = append(v.Education, educationView{
				ID:          e.ID,
				Degree:      strings.TrimSpace(e.Degree),
				Field:       strings.TrimSpace(e.Field),
				Institution: strings.TrimSpace(e.Institution),
				Period:      n.dates.Period(e.StartDate, e.EndDate, false, n.present),
				Description: n.markup.MustBlock(e.Description),
			})
		}
		v.Empty = emptyIf(len(v.Education) == 0, rs.Kind)

	case model.KindSkills:
		for _, s := range doc.Skills {
			if s = strings.TrimSpace(s); s == "" {
				s = model.SkillPlaceholder
			}
			v.Skills = append(v.Skills, s)
		}
		v.Empty = emptyIf(len(v.Skills) == 0, rs.Kind)

	case model.KindProjects:
		for _, p := range doc.Projects {
			v.Projects = append(v.Projects, projectView{
				ID:           p.ID,
				Name:         strings.TrimSpace(p.Name),
				URL:          webHref(p.URL),
				Technologies: nonBlank(p.Technologies),
				Description:  n.markup.MustBlock(p.Description),
			})
		}
		v.Empty = emptyIf(len(v.Projects) == 0, rs.Kind)

	case model.KindReferences:
		v.References = doc.References
		v.Empty = emptyIf(len(v.References) == 0, rs.Kind)

	case model.KindCustom:
		v.Title = strings.TrimSpace(rs.Custom.Title)
		if v.Title == "" {
			v.Title = UntitledSection
		}
		for _, it := range rs.Custom.Items {
			if strings.TrimSpace(it.Text) == "" {
				continue
			}
			v.Items = append(v.Items, itemView{ID: it.ID, HTML: n.markup.MustInline(it.Text)})
		}
		v.Empty = emptyIf(len(v.Items) == 0, rs.Kind)
	}

	return v
}

func emptyIf(empty bool, kind model.SectionKind) string {
	if !empty {
		return ""
	}
	return emptyStates[kind]
}

func (n *Normalizer) person(p model.PersonalInfo) personView {
	v := personView{
		Name:     strings.TrimSpace(p.FullName),
		JobTitle: strings.TrimSpace(p.JobTitle),
		Summary:  n.markup.MustBlock(p.Summary),
	}
	if v.Name == "" {
		v.Name = PlaceholderName
		v.Placeholder = true
	}
	v.Initials = initials(v.Name)

	add := func(label, text, href string) {
		if text = strings.TrimSpace(text); text != "" {
			v.Contacts = append(v.Contacts, contactView{Label: label, Text: text, Href: href})
		}
	}
	add("Email", p.Email, mailHref(p.Email))
	add("Phone", p.Phone, telHref(p.Phone))
	add("Location", p.Location, "")
	add("Web", p.Website, webHref(p.Website))
	add("LinkedIn", p.LinkedIn, webHref(p.LinkedIn))
	add("GitHub", p.GitHub, webHref(p.GitHub))
	return v
}

// initials returns up to two uppercase initials of name.
func initials(name string) string {
	var out []rune
	for _, word := range strings.Fields(name) {
		r := []rune(word)[0]
		if !unicode.IsLetter(r) {
			continue
		}
		out = append(out, unicode.ToUpper(r))
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}

func mailHref(email string) string {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return ""
	}
	return "mailto:" + email
}

func telHref(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) || (r == '+' && b.Len() == 0) {
			b.WriteRune(r)
		}
	}
	if b.Len() < 3 {
		return ""
	}
	return "tel:" + b.String()
}

// webHref turns "example.com/me" into an absolute https URL.
// Anything that does not parse as an http(s) URL gets no link.
func webHref(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	return u.String()
}

func nonBlank(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
