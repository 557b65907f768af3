package export

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"

	"github.com/alnah/go-cv2pdf/internal/surface"
)

// fakeSurface records stage activity instead of driving a browser.
type fakeSurface struct {
	mu       sync.Mutex
	height   float64
	mountErr error
	// failOn makes the stage fail the named step: "settle", "height",
	// "translate" or "capture". failAt selects which capture (0-based).
	failOn string
	failAt int
	// block, when set, holds Settle until it is closed.
	block chan struct{}

	mounted  int
	live     int
	widths   []int
	offsets  []float64
	captures []captureCall
}

type captureCall struct {
	height int
	scale  float64
}

var _ surface.Surface = (*fakeSurface)(nil)

func (s *fakeSurface) Mount(ctx context.Context, html string, width int) (surface.Stage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mountErr != nil {
		return nil, s.mountErr
	}
	s.mounted++
	s.live++
	s.widths = append(s.widths, width)
	return &fakeStage{s: s}, nil
}

func (s *fakeSurface) Attached(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live, nil
}

func (s *fakeSurface) Close() error { return nil }

type fakeStage struct {
	s        *fakeSurface
	detached bool
	captured int
}

func (st *fakeStage) Height(context.Context) (float64, error) {
	if st.s.failOn == "height" {
		return 0, surface.ErrMeasure
	}
	return st.s.height, nil
}

func (st *fakeStage) Translate(_ context.Context, offset float64) error {
	if st.s.failOn == "translate" {
		return surface.ErrCapture
	}
	st.s.mu.Lock()
	st.s.offsets = append(st.s.offsets, offset)
	st.s.mu.Unlock()
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
	if st.s.failOn == "settle" {
		return surface.ErrSettle
	}
	return nil
}

func (st *fakeStage) Capture(_ context.Context, height int, scale float64) ([]byte, error) {
	defer func() { st.captured++ }()
	if st.s.failOn == "capture" && st.captured == st.s.failAt {
		return nil, surface.ErrCapture
	}
	st.s.mu.Lock()
	st.s.captures = append(st.s.captures, captureCall{height, scale})
	st.s.mu.Unlock()
	return testPNG(794*int(scale)/4, height*int(scale)/4), nil
}

func (st *fakeStage) Detach(context.Context) error {
	if st.detached {
		return nil
	}
	st.detached = true
	st.s.mu.Lock()
	st.s.live--
	st.s.mu.Unlock()
	return nil
}

// testPNG encodes a small opaque image. Dimensions only need the right
// aspect ratio for assembly.
func testPNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	for y := range img.Bounds().Dy() {
		for x := range img.Bounds().Dx() {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// countPages counts page objects in an uncompressed PDF object table.
func countPages(pdf []byte) int {
	return bytes.Count(pdf, []byte("/Type /Page")) - bytes.Count(pdf, []byte("/Type /Pages"))
}
