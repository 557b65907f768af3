package surface

// Notes:
// - Browser-backed behaviour lives in surface_integration_test.go; these tests
//   cover everything that runs before a browser would be launched.
// - The JS snippets are checked for the markers base.css depends on, not
//   executed.

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

// ---------------------------------------------------------------------------
// TestParseEngine
// ---------------------------------------------------------------------------

func TestParseEngine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Engine
		wantErr error
	}{
		{"", DefaultEngine, nil},
		{"rod", EngineRod, nil},
		{" ChromeDP ", EngineChromedp, nil},
		{"firefox", "", ErrUnknownEngine},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseEngine(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseEngine(%q) error = %v, want %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseEngine(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEngines(t *testing.T) {
	t.Parallel()

	for _, e := range Engines() {
		if _, err := ParseEngine(string(e)); err != nil {
			t.Errorf("listed engine %q does not parse: %v", e, err)
		}
	}
}

// ---------------------------------------------------------------------------
// TestNew - Lazy Construction
// ---------------------------------------------------------------------------

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("unknown engine", func(t *testing.T) {
		t.Parallel()

		if _, err := New("webkit"); !errors.Is(err, ErrUnknownEngine) {
			t.Errorf("New(webkit) error = %v, want ErrUnknownEngine", err)
		}
	})

	for _, engine := range Engines() {
		t.Run(string(engine), func(t *testing.T) {
			t.Parallel()

			s, err := New(engine, WithTimeout(time.Second), WithLogger(zap.NewNop()))
			if err != nil {
				t.Fatalf("New(%s) error = %v", engine, err)
			}

			n, err := s.Attached(context.Background())
			if err != nil || n != 0 {
				t.Errorf("Attached() = %d, %v; want 0, nil", n, err)
			}

			if _, err := s.Mount(context.Background(), "<p>x</p>", 0); !errors.Is(err, ErrInvalidWidth) {
				t.Errorf("Mount(width 0) error = %v, want ErrInvalidWidth", err)
			}

			// Closing an unused surface must not launch anything.
			if err := s.Close(); err != nil {
				t.Errorf("Close() error = %v", err)
			}
			if _, err := s.Mount(context.Background(), "<p>x</p>", 794); !errors.Is(err, ErrClosed) {
				t.Errorf("Mount after Close error = %v, want ErrClosed", err)
			}
		})
	}
}

func TestMount_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := New(EngineRod)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if _, err := s.Mount(ctx, "<p>x</p>", 794); !errors.Is(err, context.Canceled) {
		t.Errorf("Mount() error = %v, want context.Canceled", err)
	}
}

func TestWithOptions_IgnoreZeroValues(t *testing.T) {
	t.Parallel()

	o := options{timeout: DefaultTimeout, logger: zap.NewNop()}
	WithTimeout(0)(&o)
	WithLogger(nil)(&o)

	if o.timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want default", o.timeout)
	}
	if o.logger == nil {
		t.Error("logger reset to nil")
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func TestLoadTimeout(t *testing.T) {
	t.Parallel()

	got, err := loadTimeout(context.Background(), 5*time.Second)
	if err != nil || got != 5*time.Second {
		t.Errorf("no deadline: %v, %v", got, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	got, err = loadTimeout(ctx, 5*time.Second)
	if err != nil || got <= 5*time.Second {
		t.Errorf("deadline should win: %v, %v", got, err)
	}

	expired, cancel2 := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel2()
	if _, err := loadTimeout(expired, time.Second); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expired deadline error = %v", err)
	}
}

func TestValidateCapture(t *testing.T) {
	t.Parallel()

	tests := []struct {
		height int
		scale  float64
		ok     bool
	}{
		{1143, 2, true},
		{1, 0.5, true},
		{0, 2, false},
		{1143, 0, false},
		{-1, 2, false},
	}

	for _, tt := range tests {
		err := validateCapture(tt.height, tt.scale)
		if tt.ok != (err == nil) {
			t.Errorf("validateCapture(%d, %v) error = %v", tt.height, tt.scale, err)
		}
		if err != nil && !errors.Is(err, ErrInvalidCapture) {
			t.Errorf("error %v should wrap ErrInvalidCapture", err)
		}
	}
}

func TestInvoke(t *testing.T) {
	t.Parallel()

	tests := []struct {
		fn   string
		args []float64
		want string
	}{
		{"() => 1", nil, "(() => 1)()"},
		{"(a) => a", []float64{794}, "((a) => a)(794)"},
		{"(a, b) => a", []float64{1123.5, -4}, "((a, b) => a)(1123.5, -4)"},
	}

	for _, tt := range tests {
		if got := invoke(tt.fn, tt.args...); got != tt.want {
			t.Errorf("invoke() = %q, want %q", got, tt.want)
		}
	}
}

func TestScripts_UseStageMarkers(t *testing.T) {
	t.Parallel()

	scripts := map[string]string{
		"mount":     mountJS,
		"height":    heightJS,
		"translate": translateJS,
		"detach":    detachJS,
	}
	for name, js := range scripts {
		if !strings.Contains(js, "data-cv2pdf-stage") {
			t.Errorf("%s script does not reference the stage marker", name)
		}
	}
	if !strings.Contains(settleJS, "document.fonts") || strings.Count(settleJS, "requestAnimationFrame") != 2 {
		t.Errorf("settle script must wait for fonts and two animation frames")
	}
}
