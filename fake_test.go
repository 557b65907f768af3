package cv2pdf

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"

	"github.com/alnah/go-cv2pdf/internal/surface"
)

// fakeSurface stands in for headless Chrome: the stage reports a fixed
// height and returns small PNGs.
type fakeSurface struct {
	mu      sync.Mutex
	height  float64
	failOn  string // "mount" or "capture"
	block   chan struct{}
	html    []string
	live    int
	offsets []float64
	closed  int
}

var _ surface.Surface = (*fakeSurface)(nil)

func (s *fakeSurface) Mount(ctx context.Context, html string, _ int) (surface.Stage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn == "mount" {
		return nil, surface.ErrMount
	}
	s.html = append(s.html, html)
	s.live++
	return &fakeStage{s: s}, nil
}

func (s *fakeSurface) Attached(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live, nil
}

func (s *fakeSurface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

func (s *fakeSurface) lastHTML() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.html) == 0 {
		return ""
	}
	return s.html[len(s.html)-1]
}

type fakeStage struct {
	s    *fakeSurface
	once sync.Once
}

func (st *fakeStage) Height(context.Context) (float64, error) { return st.s.height, nil }

func (st *fakeStage) Translate(_ context.Context, offset float64) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	st.s.offsets = append(st.s.offsets, offset)
	return nil
}

func (st *fakeStage) Settle(ctx context.Context) error {
	if st.s.block != nil {
		select {
		case <-st.s.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (st *fakeStage) Capture(_ context.Context, height int, _ float64) ([]byte, error) {
	if st.s.failOn == "capture" {
		return nil, surface.ErrCapture
	}
	return tinyPNG(794/8, height/8), nil
}

func (st *fakeStage) Detach(context.Context) error {
	st.once.Do(func() {
		st.s.mu.Lock()
		st.s.live--
		st.s.mu.Unlock()
	})
	return nil
}

func tinyPNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	for y := range img.Bounds().Dy() {
		for x := range img.Bounds().Dx() {
			img.Set(x, y, color.RGBA{R: 255, G: uint8(x), B: uint8(y), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
