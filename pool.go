package cv2pdf

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// ErrPoolClosed is returned by Acquire after Close.
var ErrPoolClosed = errors.New("converter pool is closed")

// ConverterPool manages Converter instances for parallel exports.
// Each converter owns its own browser, so n converters can export n CVs at
// once. Converters are created lazily on first acquire to avoid startup delay.
type ConverterPool struct {
	size  int
	opts  []Option
	newFn func(...Option) (*Converter, error)

	mu         sync.Mutex
	converters []*Converter
	sem        chan *Converter
	created    int
	closed     bool
}

// NewConverterPool creates a pool with capacity for n converters, each built
// with opts.
func NewConverterPool(n int, opts ...Option) *ConverterPool {
	if n < 1 {
		n = 1
	}
	return &ConverterPool{
		size:       n,
		opts:       opts,
		newFn:      NewConverter,
		converters: make([]*Converter, 0, n),
		sem:        make(chan *Converter, n),
	}
}

// Acquire gets a converter from the pool, creating one if needed.
// Blocks until one is free or ctx is done.
func (p *ConverterPool) Acquire(ctx context.Context) (*Converter, error) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return nil, ErrPoolClosed
	}

	select {
	case c, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return c, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		// Create outside the lock
		c, err := p.newFn(p.opts...)
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}

		p.mu.Lock()
		p.converters = append(p.converters, c)
		p.mu.Unlock()
		return c, nil
	}
	p.mu.Unlock()

	select {
	case c, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return c, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a converter to the pool.
// The lock is held while sending so Close cannot close the channel under us;
// the channel has room for every converter, so the send never blocks.
func (p *ConverterPool) Release(c *Converter) {
	if c == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.sem <- c
}

// Close releases every browser. Converters are closed concurrently and
// their errors joined.
func (p *ConverterPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	// Idle converters still buffered in sem would otherwise be handed out
	// by Acquire after Close.
	for drained := false; !drained; {
		select {
		case <-p.sem:
		default:
			drained = true
		}
	}
	close(p.sem)
	converters := p.converters
	p.mu.Unlock()

	errs := make([]error, len(converters))
	var g errgroup.Group
	for i, c := range converters {
		g.Go(func() error {
			errs[i] = c.Close()
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *ConverterPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the optimal pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolvePoolSize(workers int) int {
	// Explicit value takes priority
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	available := runtime.GOMAXPROCS(0)
	n := available / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}

// Render renders in on a pooled converter.
func (p *ConverterPool) Render(ctx context.Context, in Input) (*RenderedPage, error) {
	return withConverter(ctx, p, func(c *Converter) (*RenderedPage, error) {
		return c.Render(in)
	})
}

// Plan estimates in's pages on a pooled converter.
func (p *ConverterPool) Plan(ctx context.Context, in Input) (PagePlan, error) {
	return withConverter(ctx, p, func(c *Converter) (PagePlan, error) {
		return c.Plan(in), nil
	})
}

// Preview composes in on a pooled converter.
func (p *ConverterPool) Preview(ctx context.Context, in Input) (*Composition, error) {
	return withConverter(ctx, p, func(c *Converter) (*Composition, error) {
		return c.Preview(in)
	})
}

// Export exports in on a pooled converter. Waits for a free converter
// instead of failing with ErrExportInProgress.
func (p *ConverterPool) Export(ctx context.Context, in Input) (*Artifact, error) {
	return withConverter(ctx, p, func(c *Converter) (*Artifact, error) {
		return c.Export(ctx, in)
	})
}

// MeasurePages measures in on a pooled converter.
func (p *ConverterPool) MeasurePages(ctx context.Context, in Input) (Measurement, error) {
	return withConverter(ctx, p, func(c *Converter) (Measurement, error) {
		return c.MeasurePages(ctx, in)
	})
}

func withConverter[T any](ctx context.Context, p *ConverterPool, fn func(*Converter) (T, error)) (T, error) {
	c, err := p.Acquire(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	defer p.Release(c)
	return fn(c)
}
