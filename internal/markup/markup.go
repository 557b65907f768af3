// Package markup renders the free-text fields of a CV (summaries,
// descriptions, custom items) from Markdown to safe HTML fragments.
package markup

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"html/template"
	"strings"
	"sync"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// ErrMarkdown indicates goldmark failed to render a fragment.
var ErrMarkdown = errors.New("markdown conversion failed")

// HighlightStyle is the chroma style used for fenced code blocks.
const HighlightStyle = "github"

// Converter turns Markdown into HTML fragments.
// Safe for concurrent use.
type Converter struct {
	md goldmark.Markdown
}

// New creates a Converter with GFM extensions and class-based syntax highlighting.
func New() *Converter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM, // Tables, strikethrough, autolinks, task lists
			highlighting.NewHighlighting(
				highlighting.WithStyle(HighlightStyle),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(), // a newline typed in an editor is a line break on the CV
			gmhtml.WithXHTML(),
			// Raw HTML in user text is dropped: WithUnsafe is not set.
		),
	)
	return &Converter{md: md}
}

// Block renders src as block content (paragraphs, lists, code).
// Blank input yields "".
func (c *Converter) Block(src string) (template.HTML, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMarkdown, err)
	}
	return template.HTML(strings.TrimSpace(buf.String())), nil // #nosec G203 -- goldmark output without WithUnsafe
}

// Inline renders a single line, unwrapping the paragraph goldmark adds so the
// result can sit inside a list item.
func (c *Converter) Inline(src string) (template.HTML, error) {
	out, err := c.Block(src)
	if err != nil {
		return "", err
	}
	s := string(out)
	if strings.HasPrefix(s, "<p>") && strings.HasSuffix(s, "</p>") && strings.Count(s, "<p>") == 1 {
		s = strings.TrimSuffix(strings.TrimPrefix(s, "<p>"), "</p>")
	}
	return template.HTML(s), nil // #nosec G203 -- see Block
}

// MustBlock is Block with a plain-text fallback: content typed by a user must
// never prevent a preview, so a conversion failure degrades to escaped text.
func (c *Converter) MustBlock(src string) template.HTML {
	out, err := c.Block(src)
	if err != nil {
		return escaped(src)
	}
	return out
}

// MustInline is Inline with the same fallback as MustBlock.
func (c *Converter) MustInline(src string) template.HTML {
	out, err := c.Inline(src)
	if err != nil {
		return escaped(src)
	}
	return out
}

func escaped(src string) template.HTML {
	return template.HTML("<p>" + html.EscapeString(src) + "</p>") // #nosec G203 -- escaped
}

var (
	highlightOnce sync.Once
	highlightCSS  string
)

// HighlightCSS returns the stylesheet for the classes emitted on code blocks.
func HighlightCSS() string {
	highlightOnce.Do(func() {
		var buf bytes.Buffer
		formatter := chromahtml.New(chromahtml.WithClasses(true))
		if err := formatter.WriteCSS(&buf, styles.Get(HighlightStyle)); err == nil {
			highlightCSS = buf.String()
		}
	})
	return highlightCSS
}
