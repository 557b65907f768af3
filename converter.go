package cv2pdf

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/alnah/go-cv2pdf/internal/assets"
	"github.com/alnah/go-cv2pdf/internal/compose"
	"github.com/alnah/go-cv2pdf/internal/export"
	"github.com/alnah/go-cv2pdf/internal/layout"
	"github.com/alnah/go-cv2pdf/internal/localpath"
	"github.com/alnah/go-cv2pdf/internal/render"
	"github.com/alnah/go-cv2pdf/internal/surface"
)

// Compile-time interface implementation checks.
var (
	_ assets.AssetLoader = internalLoader{}
	_ AssetLoader        = (*assetLoaderAdapter)(nil)
)

// Converter runs the CV pipeline: normalize, estimate, compose, export.
// Create with NewConverter and Close when done. Render, Plan and Preview
// are pure and safe for concurrent use; Export and MeasurePages share one
// browser surface and reject overlapping calls with ErrExportInProgress.
type Converter struct {
	cfg          converterConfig
	loader       assets.AssetLoader
	publicLoader AssetLoader
	normalizer   *render.Normalizer
	compositor   *compose.Compositor
	surface      surface.Surface
	exporter     *export.Exporter
}

// NewConverter creates a Converter. No browser starts until the first
// Export or MeasurePages call.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout:    defaultTimeout,
			heuristics: layout.DefaultHeuristics(),
			logger:     zap.NewNop(),
			notifier:   export.NotifierFunc(func(context.Context, string) {}),
		},
		loader: assets.NewEmbeddedLoader(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.cfg.heuristics.Validate(); err != nil {
		return nil, err
	}

	if c.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		c.loader = resolver
	}
	if c.publicLoader != nil {
		c.loader = internalLoader{pub: c.publicLoader}
	}

	normalizer, err := render.New(c.loader, c.cfg.renderOpts...)
	if err != nil {
		return nil, fmt.Errorf("initializing renderer: %w", err)
	}
	c.normalizer = normalizer

	var composeOpts []compose.Option
	if c.cfg.onPagesChanged != nil {
		composeOpts = append(composeOpts, compose.WithOnPagesChanged(c.cfg.onPagesChanged))
	}
	c.compositor = compose.New(c.loader, composeOpts...)

	// Create surface if not injected (e.g., by tests)
	if c.surface == nil {
		engine, err := surface.ParseEngine(c.cfg.engine)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidEngine, err)
		}
		c.surface, err = surface.New(engine,
			surface.WithTimeout(c.cfg.timeout),
			surface.WithLogger(c.cfg.logger),
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidEngine, err)
		}
	}

	exportOpts := append([]export.Option{
		export.WithLogger(c.cfg.logger),
		export.WithNotifier(c.cfg.notifier),
	}, c.cfg.exportOpts...)
	c.exporter, err = export.New(c.surface, exportOpts...)
	if err != nil {
		_ = c.surface.Close()
		return nil, err
	}

	return c, nil
}

// Render normalizes in.Document into a standalone HTML document.
func (c *Converter) Render(in Input) (*RenderedPage, error) {
	if in.Document == nil {
		return nil, ErrNilDocument
	}
	fragments, err := c.normalizer.Normalize(in.Document, in.Selection.Template, in.order())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplateRender, err)
	}
	page, err := c.normalizer.Assemble(in.Selection, fragments, in.title(), in.CSS)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplateRender, err)
	}
	return page, nil
}

// Plan estimates the page partition of in without rendering it.
func (c *Converter) Plan(in Input) PagePlan {
	return c.cfg.heuristics.Plan(in.Document, in.order())
}

// Preview renders in and lays it out as fixed-size A4 frames, one per
// estimated page.
func (c *Converter) Preview(in Input) (*Composition, error) {
	page, err := c.Render(in)
	if err != nil {
		return nil, err
	}
	comp, err := c.compositor.Compose(c.Plan(in), page)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPreviewRender, err)
	}
	return comp, nil
}

// Export renders in and rasterizes it into a PDF. The page count comes from
// the measured height, not the estimate, so it can differ from Plan.
// Every failure except ErrExportInProgress sends FailureMessage to the
// notifier once and matches ErrExportFailed.
func (c *Converter) Export(ctx context.Context, in Input) (*Artifact, error) {
	return c.run(ctx, in, func(ctx context.Context, req export.Request) (*Artifact, error) {
		return c.exporter.Export(ctx, req)
	})
}

// ExportTo exports in and hands the PDF to d. Failures are reported as by
// Export; a failing Downloader counts as one.
func (c *Converter) ExportTo(ctx context.Context, in Input, d Downloader) (*Artifact, error) {
	return c.run(ctx, in, func(ctx context.Context, req export.Request) (*Artifact, error) {
		return c.exporter.ExportTo(ctx, req, d)
	})
}

// run renders in and passes the request to do under the configured timeout.
// Panics, including ones from a Downloader, are recovered and reported like
// any other failure.
func (c *Converter) run(ctx context.Context, in Input, do func(context.Context, export.Request) (*Artifact, error)) (art *Artifact, err error) {
	defer func() {
		if r := recover(); r != nil {
			art, err = nil, c.fail(ctx, fmt.Errorf("internal error: %v", r))
		}
	}()

	req, err := c.request(in)
	if err != nil {
		return nil, c.fail(ctx, err)
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()
	return do(ctx, req)
}

// MeasurePages renders in, mounts it and reports the measured height and
// page count.
func (c *Converter) MeasurePages(ctx context.Context, in Input) (Measurement, error) {
	req, err := c.request(in)
	if err != nil {
		return Measurement{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()
	return c.exporter.Measure(ctx, req.HTML)
}

// Busy reports whether an export or measurement is running.
func (c *Converter) Busy() bool {
	return c.exporter.Busy()
}

// Close releases the browser.
func (c *Converter) Close() error {
	if c.surface == nil {
		return nil
	}
	if err := c.surface.Close(); err != nil && !errors.Is(err, surface.ErrClosed) {
		return err
	}
	return nil
}

// fail reports a failure the exporter did not report itself: a render error
// or a recovered panic.
func (c *Converter) fail(ctx context.Context, err error) error {
	c.cfg.logger.Error("export failed", zap.String("step", "render"), zap.Error(err))
	c.cfg.notifier.Notify(ctx, FailureMessage)
	return fmt.Errorf("%w: %w", ErrExportFailed, err)
}

func (c *Converter) request(in Input) (export.Request, error) {
	page, err := c.Render(in)
	if err != nil {
		return export.Request{}, err
	}
	doc, err := localpath.Rewrite(page.HTML, in.BaseDir)
	if err != nil {
		return export.Request{}, fmt.Errorf("%w: %w", ErrTemplateRender, err)
	}
	return export.Request{HTML: doc, FileName: in.FileName, Title: page.Title}, nil
}
