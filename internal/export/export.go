package export

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-cv2pdf/internal/fileutil"
	"github.com/alnah/go-cv2pdf/internal/model"
	"github.com/alnah/go-cv2pdf/internal/surface"
)

// Sentinel errors for export operations.
var (
	ErrExportFailed     = errors.New("export failed")
	ErrExportInProgress = errors.New("export already in progress")
	ErrNilSurface       = errors.New("export: nil surface")
	ErrInvalidOverlap   = errors.New("overlap out of range")
	ErrInvalidShift     = errors.New("shift must be between 0 and overlap")
	ErrInvalidScale     = errors.New("scale must be between 1 and 4")
	ErrNoPages          = errors.New("no page images to assemble")
	ErrAssemble         = errors.New("failed to assemble PDF")
	ErrDownload         = errors.New("failed to deliver PDF")
)

// Capture tuning. Overlap is the extra height captured below each page;
// shift is how far later pages are painted upward to hide the seam.
const (
	DefaultOverlap = 20
	MinOverlap     = 10
	MaxOverlap     = 80
	DefaultShift   = 4
)

// FailureMessage is what the user is told when an export fails.
const FailureMessage = "Download failed, please try again."

// MIMEType of every artifact.
const MIMEType = "application/pdf"

// Request is one export job.
type Request struct {
	// HTML is a full, unpaginated document as produced by render.Assemble.
	HTML string
	// FileName is the download name; empty means cv.pdf.
	FileName string
	// Title goes into the PDF metadata.
	Title string
}

// Artifact is a finished PDF ready for a Downloader.
type Artifact struct {
	FileName string
	MIMEType string
	Data     []byte
	Pages    int
	Height   float64
}

// Measurement is the measured height of a mounted document.
type Measurement struct {
	Height float64
	Pages  int
}

// Exporter rasterizes a mounted document page by page and assembles the
// captures into a PDF. Overlapping calls are rejected, not queued.
type Exporter struct {
	surface  surface.Surface
	notifier Notifier
	logger   *zap.Logger
	overlap  int
	shift    float64
	scale    float64
	creator  string
	now      func() time.Time

	busy atomic.Bool
}

// Option configures an Exporter.
type Option func(*Exporter) error

// WithOverlap sets the extra capture height in px (10 to 80).
func WithOverlap(px int) Option {
	return func(e *Exporter) error {
		if px < MinOverlap || px > MaxOverlap {
			return fmt.Errorf("%w: %d (allowed %d-%d)", ErrInvalidOverlap, px, MinOverlap, MaxOverlap)
		}
		e.overlap = px
		return nil
	}
}

// WithShift sets how many px later pages are painted upward.
func WithShift(px float64) Option {
	return func(e *Exporter) error {
		e.shift = px
		return nil
	}
}

// WithScale sets the capture device pixel ratio.
func WithScale(scale float64) Option {
	return func(e *Exporter) error {
		if scale < 1 || scale > 4 {
			return fmt.Errorf("%w: %v", ErrInvalidScale, scale)
		}
		e.scale = scale
		return nil
	}
}

// WithNotifier sets where user-facing failure messages go.
func WithNotifier(n Notifier) Option {
	return func(e *Exporter) error {
		if n != nil {
			e.notifier = n
		}
		return nil
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Exporter) error {
		if l != nil {
			e.logger = l
		}
		return nil
	}
}

// WithCreator sets the PDF creator field.
func WithCreator(name string) Option {
	return func(e *Exporter) error {
		e.creator = name
		return nil
	}
}

// New creates an Exporter over s.
func New(s surface.Surface, opts ...Option) (*Exporter, error) {
	if s == nil {
		return nil, ErrNilSurface
	}
	e := &Exporter{
		surface:  s,
		notifier: nopNotifier{},
		logger:   zap.NewNop(),
		overlap:  DefaultOverlap,
		shift:    DefaultShift,
		scale:    model.CaptureScale,
		now:      time.Now,
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	if e.shift < 0 || e.shift > float64(e.overlap) {
		return nil, fmt.Errorf("%w: %v (overlap %d)", ErrInvalidShift, e.shift, e.overlap)
	}
	return e, nil
}

// Busy reports whether an export is running.
func (e *Exporter) Busy() bool {
	return e.busy.Load()
}

// Export produces a PDF artifact for req. While another export runs it
// returns ErrExportInProgress without touching the surface. Any other
// failure is reported to the notifier and wrapped in ErrExportFailed.
func (e *Exporter) Export(ctx context.Context, req Request) (*Artifact, error) {
	if !e.busy.CompareAndSwap(false, true) {
		return nil, ErrExportInProgress
	}
	defer e.busy.Store(false)

	start := e.now()
	art, err := e.export(ctx, req)
	if err != nil {
		return nil, e.fail(ctx, "export", err)
	}

	e.logger.Info("export complete",
		zap.String("file", art.FileName),
		zap.Int("pages", art.Pages),
		zap.Float64("height", art.Height),
		zap.Int("bytes", len(art.Data)),
		zap.Duration("duration", time.Since(start)),
	)
	return art, nil
}

// ExportTo exports req and hands the artifact to d. A failing Downloader
// counts as a failed export.
func (e *Exporter) ExportTo(ctx context.Context, req Request, d Downloader) (*Artifact, error) {
	art, err := e.Export(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := d.Download(ctx, art); err != nil {
		return nil, e.fail(ctx, "download", fmt.Errorf("%w: %v", ErrDownload, err))
	}
	return art, nil
}

// Measure mounts html, waits for layout and reports its page count.
// It shares the busy guard with Export.
func (e *Exporter) Measure(ctx context.Context, html string) (Measurement, error) {
	if !e.busy.CompareAndSwap(false, true) {
		return Measurement{}, ErrExportInProgress
	}
	defer e.busy.Store(false)

	stage, err := e.surface.Mount(ctx, html, model.PageWidthPx)
	if err != nil {
		return Measurement{}, err
	}
	defer e.detach(ctx, stage)

	h, err := e.measure(ctx, stage)
	if err != nil {
		return Measurement{}, err
	}
	return Measurement{Height: h, Pages: model.PageCount(h)}, nil
}

func (e *Exporter) export(ctx context.Context, req Request) (*Artifact, error) {
	stage, err := e.surface.Mount(ctx, req.HTML, model.PageWidthPx)
	if err != nil {
		return nil, err
	}
	defer e.detach(ctx, stage)

	h, err := e.measure(ctx, stage)
	if err != nil {
		return nil, err
	}
	count := model.PageCount(h)
	e.logger.Debug("stage measured", zap.Float64("height", h), zap.Int("pages", count))

	images := make([][]byte, 0, count)
	for i := range count {
		img, err := e.capturePage(ctx, stage, i)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		images = append(images, img)
	}

	data, err := assemble(images, e.shift, metadata{
		Title:   req.Title,
		Creator: e.creator,
		Created: e.now(),
	})
	if err != nil {
		return nil, err
	}

	return &Artifact{
		FileName: fileutil.PDFFileName(req.FileName),
		MIMEType: MIMEType,
		Data:     data,
		Pages:    count,
		Height:   h,
	}, nil
}

func (e *Exporter) measure(ctx context.Context, stage surface.Stage) (float64, error) {
	if err := stage.Settle(ctx); err != nil {
		return 0, err
	}
	return stage.Height(ctx)
}

func (e *Exporter) capturePage(ctx context.Context, stage surface.Stage, i int) ([]byte, error) {
	if err := stage.Translate(ctx, float64(i*model.PageHeightPx)); err != nil {
		return nil, err
	}
	if err := stage.Settle(ctx); err != nil {
		return nil, err
	}
	return stage.Capture(ctx, model.PageHeightPx+e.overlap, e.scale)
}

// detach tears the stage down even when ctx has been cancelled.
func (e *Exporter) detach(ctx context.Context, stage surface.Stage) {
	if err := stage.Detach(context.WithoutCancel(ctx)); err != nil {
		e.logger.Warn("stage detach failed", zap.Error(err))
	}
}

func (e *Exporter) fail(ctx context.Context, step string, err error) error {
	e.logger.Error("export failed", zap.String("step", step), zap.Error(err))
	e.notifier.Notify(ctx, FailureMessage)
	return fmt.Errorf("%w: %w", ErrExportFailed, err)
}
