package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"sync"

	"github.com/alnah/go-cv2pdf/internal/assets"
	"github.com/alnah/go-cv2pdf/internal/dateutil"
	"github.com/alnah/go-cv2pdf/internal/markup"
	"github.com/alnah/go-cv2pdf/internal/model"
)

// Sentinel errors for rendering.
var (
	// ErrTemplateParse indicates an HTML template asset failed to parse.
	ErrTemplateParse = errors.New("template parse failed")

	// ErrTemplateExecute indicates a section or page template failed to execute.
	ErrTemplateExecute = errors.New("template execution failed")
)

// Fragment is one rendered section, in section-order position.
type Fragment struct {
	Token string
	Kind  model.SectionKind
	HTML  template.HTML
}

// Normalizer resolves documents into fragments. Parsed templates are cached,
// so a Normalizer should be reused. Safe for concurrent use.
type Normalizer struct {
	loader  assets.AssetLoader
	markup  *markup.Converter
	dates   *dateutil.Formatter
	present string
	lang    string

	mu    sync.Mutex
	cache map[string]*template.Template
}

// Option configures a Normalizer.
type Option func(*Normalizer) error

// WithDateFormat sets the entry date format (tokens or preset, see dateutil).
func WithDateFormat(format string) Option {
	return func(n *Normalizer) error {
		f, err := dateutil.NewFormatter(format)
		if err != nil {
			return err
		}
		n.dates = f
		return nil
	}
}

// WithPresentLabel sets the end label of current positions.
func WithPresentLabel(label string) Option {
	return func(n *Normalizer) error {
		if label != "" {
			n.present = label
		}
		return nil
	}
}

// WithLang sets the html lang attribute of assembled pages.
func WithLang(lang string) Option {
	return func(n *Normalizer) error {
		if lang != "" {
			n.lang = lang
		}
		return nil
	}
}

// New creates a Normalizer reading markup and styles from loader.
// A nil loader uses the embedded assets.
func New(loader assets.AssetLoader, opts ...Option) (*Normalizer, error) {
	if loader == nil {
		loader = assets.NewEmbeddedLoader()
	}
	dates, err := dateutil.NewFormatter(dateutil.DefaultDateFormat)
	if err != nil {
		return nil, err
	}
	n := &Normalizer{
		loader:  loader,
		markup:  markup.New(),
		dates:   dates,
		present: PresentLabel,
		lang:    "en",
		cache:   make(map[string]*template.Template),
	}
	for _, opt := range opts {
		if err := opt(n); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// Normalize renders every resolvable token of order, in order. Unknown tokens
// are skipped. A nil document renders like an empty one.
// Errors only come from broken template assets, never from content.
func (n *Normalizer) Normalize(doc *model.Document, id model.TemplateID, order model.SectionOrder) ([]Fragment, error) {
	if doc == nil {
		doc = &model.Document{}
	}
	st := strategyFor(id)
	tmpl, err := n.template(st.source)
	if err != nil {
		return nil, err
	}

	resolved := order.ResolveAll(doc)
	fragments := make([]Fragment, 0, len(resolved))
	for _, rs := range resolved {
		block := rs.Kind.String()
		if tmpl.Lookup(block) == nil {
			continue
		}
		var buf bytes.Buffer
		if err := tmpl.ExecuteTemplate(&buf, block, n.view(doc, rs, st.style)); err != nil {
			return nil, fmt.Errorf("%w: %s/%s: %v", ErrTemplateExecute, st.source, rs.Token, err)
		}
		fragments = append(fragments, Fragment{
			Token: rs.Token,
			Kind:  rs.Kind,
			HTML:  template.HTML(buf.String()), // #nosec G203 -- produced by html/template
		})
	}
	return fragments, nil
}

// template returns the parsed asset template name, parsing it once.
func (n *Normalizer) template(name string) (*template.Template, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if t, ok := n.cache[name]; ok {
		return t, nil
	}
	src, err := n.loader.LoadTemplate(name)
	if err != nil {
		return nil, err
	}
	t, err := template.New(name).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateParse, name, err)
	}
	n.cache[name] = t
	return t, nil
}
