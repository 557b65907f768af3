package render

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/alnah/go-cv2pdf/internal/assets"
	"github.com/alnah/go-cv2pdf/internal/markup"
	"github.com/alnah/go-cv2pdf/internal/model"
)

// Page is an assembled CV: a standalone HTML document plus the parts the
// page compositor reuses to build paginated frames.
type Page struct {
	Title    string
	Lang     string
	Template string
	Width    int
	CSS      template.CSS
	Body     template.HTML // the <main> element holding every fragment
	HTML     string        // complete document
}

// pageData is the document template's input.
type pageData struct {
	Title     string
	Lang      string
	Template  string
	Width     int
	CSS       template.CSS
	Fragments []Fragment
}

// Assemble wraps fragments in the document shell of sel's template.
// extraCSS is appended after the template style and design tokens.
func (n *Normalizer) Assemble(sel model.TemplateSelection, fragments []Fragment, title, extraCSS string) (*Page, error) {
	tmpl, err := n.template(assets.DocumentTemplateName)
	if err != nil {
		return nil, err
	}
	css, err := n.stylesheet(sel, extraCSS)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(title) == "" {
		title = "CV"
	}

	data := pageData{
		Title:     title,
		Lang:      n.lang,
		Template:  sel.Template.String(),
		Width:     model.PageWidthPx,
		CSS:       template.CSS(css), // #nosec G203 -- assembled from assets and sanitized tokens
		Fragments: fragments,
	}

	var body, doc bytes.Buffer
	if err := tmpl.ExecuteTemplate(&body, "body", data); err != nil {
		return nil, fmt.Errorf("%w: document body: %v", ErrTemplateExecute, err)
	}
	if err := tmpl.Execute(&doc, data); err != nil {
		return nil, fmt.Errorf("%w: document: %v", ErrTemplateExecute, err)
	}

	return &Page{
		Title:    data.Title,
		Lang:     data.Lang,
		Template: data.Template,
		Width:    data.Width,
		CSS:      data.CSS,
		Body:     template.HTML(body.String()), // #nosec G203 -- produced by html/template
		HTML:     doc.String(),
	}, nil
}

// stylesheet concatenates base rules, code highlighting, the template style,
// design tokens and caller CSS.
func (n *Normalizer) stylesheet(sel model.TemplateSelection, extraCSS string) (string, error) {
	base, err := n.loader.LoadStyle(assets.BaseStyleName)
	if err != nil {
		return "", err
	}
	style, err := n.loader.LoadStyle(sel.Template.String())
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(base)
	b.WriteString("\n")
	b.WriteString(markup.HighlightCSS())
	b.WriteString("\n")
	b.WriteString(style)
	b.WriteString("\n")
	b.WriteString(DesignCSS(sel.Design))
	if extraCSS != "" {
		b.WriteString("\n")
		b.WriteString(extraCSS)
	}
	return sanitizeCSS(b.String()), nil
}

var (
	colorToken = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|[a-zA-Z]{3,20}|(rgb|rgba|hsl|hsla)\([0-9.,%\s]+\))$`)
	fontToken  = regexp.MustCompile(`^[A-Za-z0-9 \-]{1,40}$`)
)

// fontStacks expands the font family tokens offered by the editor.
var fontStacks = map[string]string{
	"inter":        `"Inter", "Segoe UI", Arial, sans-serif`,
	"roboto":       `"Roboto", Arial, sans-serif`,
	"lato":         `"Lato", Arial, sans-serif`,
	"open-sans":    `"Open Sans", Arial, sans-serif`,
	"georgia":      `Georgia, "Times New Roman", serif`,
	"garamond":     `"EB Garamond", Garamond, serif`,
	"merriweather": `"Merriweather", Georgia, serif`,
	"mono":         `"JetBrains Mono", "Courier New", monospace`,
	"system":       `system-ui, -apple-system, "Segoe UI", sans-serif`,
}

// DesignCSS turns design options into CSS custom properties. Values that are
// not recognizable colors or font names are dropped, which leaves the
// template defaults in place.
func DesignCSS(d model.Design) string {
	var decls []string
	if c := strings.TrimSpace(d.PrimaryColor); c != "" && colorToken.MatchString(c) {
		decls = append(decls, "--cv-primary: "+c)
	}
	if c := strings.TrimSpace(d.SecondaryColor); c != "" && colorToken.MatchString(c) {
		decls = append(decls, "--cv-secondary: "+c)
	}
	if f := strings.TrimSpace(d.FontFamily); f != "" {
		if stack, ok := fontStacks[strings.ToLower(f)]; ok {
			decls = append(decls, "--cv-font: "+stack)
		} else if fontToken.MatchString(f) {
			decls = append(decls, `--cv-font: "`+f+`", sans-serif`)
		}
	}
	if len(decls) == 0 {
		return ""
	}
	return ":root { " + strings.Join(decls, "; ") + "; }"
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
