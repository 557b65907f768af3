package cv2pdf

import (
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-cv2pdf/internal/export"
	"github.com/alnah/go-cv2pdf/internal/layout"
	"github.com/alnah/go-cv2pdf/internal/render"
	"github.com/alnah/go-cv2pdf/internal/surface"
)

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout        time.Duration
	assetPath      string
	engine         string
	heuristics     layout.Heuristics
	logger         *zap.Logger
	notifier       Notifier
	onPagesChanged func(count int)
	renderOpts     []render.Option
	exportOpts     []export.Option
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the export timeout, page load included.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("cv2pdf: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithAssetPath sets a directory of custom styles and templates.
// Missing files fall back to the embedded assets.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithAssetLoader sets a custom asset loader. It takes precedence over
// WithAssetPath.
func WithAssetLoader(loader AssetLoader) Option {
	return func(c *Converter) {
		c.publicLoader = loader
	}
}

// WithEngine selects the headless browser driver ("rod" or "chromedp").
func WithEngine(name string) Option {
	return func(c *Converter) {
		c.cfg.engine = name
	}
}

// WithHeuristics replaces the page estimate constants.
func WithHeuristics(h Heuristics) Option {
	return func(c *Converter) {
		c.cfg.heuristics = h
	}
}

// WithOverlap sets the extra pixels captured below each page (10 to 80).
func WithOverlap(px int) Option {
	return func(c *Converter) {
		c.cfg.exportOpts = append(c.cfg.exportOpts, export.WithOverlap(px))
	}
}

// WithShift sets how far pages after the first are painted upward, in px.
func WithShift(px float64) Option {
	return func(c *Converter) {
		c.cfg.exportOpts = append(c.cfg.exportOpts, export.WithShift(px))
	}
}

// WithScale sets the capture pixel density (1 to 4).
func WithScale(scale float64) Option {
	return func(c *Converter) {
		c.cfg.exportOpts = append(c.cfg.exportOpts, export.WithScale(scale))
	}
}

// WithNotifier sets where export failure messages go.
func WithNotifier(n Notifier) Option {
	return func(c *Converter) {
		if n != nil {
			c.cfg.notifier = n
		}
	}
}

// WithDateFormat sets the entry date format: a preset ("short", "long",
// "numeric", "iso") or a token layout such as "MMM YYYY".
func WithDateFormat(format string) Option {
	return func(c *Converter) {
		c.cfg.renderOpts = append(c.cfg.renderOpts, render.WithDateFormat(format))
	}
}

// WithPresentLabel sets the end label of current positions.
func WithPresentLabel(label string) Option {
	return func(c *Converter) {
		c.cfg.renderOpts = append(c.cfg.renderOpts, render.WithPresentLabel(label))
	}
}

// WithLang sets the document language attribute.
func WithLang(lang string) Option {
	return func(c *Converter) {
		c.cfg.renderOpts = append(c.cfg.renderOpts, render.WithLang(lang))
	}
}

// WithLogger sets the structured logger. Nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.cfg.logger = l
		}
	}
}

// WithOnPagesChanged registers fn to receive the preview page count each
// time it changes.
func WithOnPagesChanged(fn func(count int)) Option {
	return func(c *Converter) {
		c.cfg.onPagesChanged = fn
	}
}

// withSurface injects a rendering surface (tests).
func withSurface(s surface.Surface) Option {
	return func(c *Converter) {
		c.surface = s
	}
}
