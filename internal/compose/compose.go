// Package compose is the page compositor: it turns a page plan and an
// assembled CV into fixed-size A4 frames for on-screen preview.
//
// Every frame holds the complete document translated up by its page offset
// and clipped to 794x1123 px. Consecutive frames therefore continue each
// other exactly, as long as the plan uses the same page height.
package compose

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"sync"

	"github.com/alnah/go-cv2pdf/internal/assets"
	"github.com/alnah/go-cv2pdf/internal/layout"
	"github.com/alnah/go-cv2pdf/internal/model"
	"github.com/alnah/go-cv2pdf/internal/render"
)

// Sentinel errors for composition.
var (
	ErrNilPage        = errors.New("nil page")
	ErrPreviewRender  = errors.New("preview rendering failed")
	ErrPreviewParsing = errors.New("preview template parse failed")
)

// Frame is one page window onto the full document.
type Frame struct {
	Index  int `json:"index"`
	Number int `json:"number"`
	Offset int `json:"offset"`
}

// Composition is the compositor's output.
type Composition struct {
	Count  int     `json:"count"`
	Frames []Frame `json:"frames"`
	HTML   string  `json:"-"`
}

// Compositor builds paginated previews. Safe for concurrent use.
type Compositor struct {
	loader         assets.AssetLoader
	onPagesChanged func(count int)

	mu        sync.Mutex
	tmpl      *template.Template
	lastCount int
}

// Option configures a Compositor.
type Option func(*Compositor)

// WithOnPagesChanged registers fn to receive the page count whenever a
// composition's count differs from the previous one. The first composition
// always reports.
func WithOnPagesChanged(fn func(count int)) Option {
	return func(c *Compositor) {
		c.onPagesChanged = fn
	}
}

// New creates a Compositor. A nil loader uses the embedded assets.
func New(loader assets.AssetLoader, opts ...Option) *Compositor {
	if loader == nil {
		loader = assets.NewEmbeddedLoader()
	}
	c := &Compositor{loader: loader}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Frames returns the frame list of plan. A plan without pages still yields
// one frame at offset 0.
func Frames(plan layout.PagePlan) []Frame {
	offsets := plan.Offsets
	if len(offsets) == 0 {
		offsets = layout.NewPagePlan(0).Offsets
	}
	frames := make([]Frame, len(offsets))
	for i, off := range offsets {
		frames[i] = Frame{Index: i, Number: i + 1, Offset: off}
	}
	return frames
}

type previewData struct {
	Title      string
	Lang       string
	CSS        template.CSS
	Body       template.HTML
	Count      int
	PageWidth  int
	PageHeight int
	Frames     []Frame
}

// Compose renders one frame per planned page around page's body.
func (c *Compositor) Compose(plan layout.PagePlan, page *render.Page) (*Composition, error) {
	if page == nil {
		return nil, ErrNilPage
	}
	tmpl, err := c.template()
	if err != nil {
		return nil, err
	}

	frames := Frames(plan)
	data := previewData{
		Title:      page.Title,
		Lang:       page.Lang,
		CSS:        page.CSS,
		Body:       page.Body,
		Count:      len(frames),
		PageWidth:  model.PageWidthPx,
		PageHeight: model.PageHeightPx,
		Frames:     frames,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPreviewRender, err)
	}

	c.notify(len(frames))
	return &Composition{Count: len(frames), Frames: frames, HTML: buf.String()}, nil
}

func (c *Compositor) notify(count int) {
	c.mu.Lock()
	changed := count != c.lastCount
	c.lastCount = count
	c.mu.Unlock()

	if changed && c.onPagesChanged != nil {
		c.onPagesChanged(count)
	}
}

func (c *Compositor) template() (*template.Template, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tmpl != nil {
		return c.tmpl, nil
	}
	src, err := c.loader.LoadTemplate(assets.PreviewTemplateName)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New(assets.PreviewTemplateName).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPreviewParsing, err)
	}
	c.tmpl = tmpl
	return tmpl, nil
}
