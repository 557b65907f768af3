package surface

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Sentinel errors for surface operations.
var (
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrMount          = errors.New("failed to mount stage")
	ErrMeasure        = errors.New("failed to measure stage")
	ErrSettle         = errors.New("stage did not settle")
	ErrCapture        = errors.New("failed to capture stage")
	ErrDetached       = errors.New("stage is detached")
	ErrClosed         = errors.New("surface is closed")
	ErrUnknownEngine  = errors.New("unknown browser engine")
	ErrInvalidWidth   = errors.New("stage width must be positive")
	ErrInvalidCapture = errors.New("capture height and scale must be positive")
)

// Surface hosts off-screen stages. Implementations are safe for concurrent use.
type Surface interface {
	// Mount loads html into a fresh stage laid out at width CSS pixels.
	Mount(ctx context.Context, html string, width int) (Stage, error)
	// Attached reports how many stages are currently mounted.
	Attached(ctx context.Context) (int, error)
	Close() error
}

// Stage is one mounted document. A stage is driven by a single goroutine.
type Stage interface {
	// Height returns the full scroll height of the mounted content in CSS px.
	Height(ctx context.Context) (float64, error)
	// Translate shifts the content up by offset CSS px.
	Translate(ctx context.Context, offset float64) error
	// Settle waits until fonts are loaded and two animation frames have run.
	Settle(ctx context.Context) error
	// Capture rasterizes the top height CSS px of the stage as PNG at scale.
	Capture(ctx context.Context, height int, scale float64) ([]byte, error)
	// Detach removes the stage. Calling it twice is a no-op.
	Detach(ctx context.Context) error
}

// Engine selects the browser driver behind a Surface.
type Engine string

const (
	EngineRod      Engine = "rod"
	EngineChromedp Engine = "chromedp"
	DefaultEngine         = EngineRod
)

// Engines lists the supported engines in display order.
func Engines() []Engine {
	return []Engine{EngineRod, EngineChromedp}
}

// ParseEngine accepts an engine name case-insensitively; empty means default.
func ParseEngine(s string) (Engine, error) {
	switch Engine(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultEngine, nil
	case EngineRod:
		return EngineRod, nil
	case EngineChromedp:
		return EngineChromedp, nil
	}
	return "", fmt.Errorf("%w: %q (available: rod, chromedp)", ErrUnknownEngine, s)
}

// DefaultTimeout bounds page loads when the caller's context has no deadline.
const DefaultTimeout = 30 * time.Second

type options struct {
	timeout time.Duration
	logger  *zap.Logger
}

// Option configures a Surface.
type Option func(*options)

// WithTimeout sets the page load timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger sets the structured logger. Nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// New returns a lazily started Surface for engine. No browser is launched
// until the first Mount.
func New(engine Engine, opts ...Option) (Surface, error) {
	o := options{timeout: DefaultTimeout, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	switch engine {
	case EngineRod, "":
		return newRodSurface(o), nil
	case EngineChromedp:
		return newChromedpSurface(o), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, engine)
}

// loadTimeout prefers the context deadline over the configured default.
func loadTimeout(ctx context.Context, fallback time.Duration) (time.Duration, error) {
	if deadline, ok := ctx.Deadline(); ok {
		d := time.Until(deadline)
		if d <= 0 {
			return 0, context.DeadlineExceeded
		}
		return d, nil
	}
	return fallback, nil
}

func validateCapture(height int, scale float64) error {
	if height <= 0 || scale <= 0 {
		return fmt.Errorf("%w: height=%d scale=%v", ErrInvalidCapture, height, scale)
	}
	return nil
}
