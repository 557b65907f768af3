package surface

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/alnah/go-cv2pdf/internal/fileutil"
	"github.com/alnah/go-cv2pdf/internal/model"
	"github.com/alnah/go-cv2pdf/internal/process"
)

// Compile-time interface checks
var (
	_ Surface = (*rodSurface)(nil)
	_ Stage   = (*rodStage)(nil)
)

// rodSurface drives a lazily launched Chromium through go-rod.
// Rod downloads Chromium on first run if none is found.
type rodSurface struct {
	opts options

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
	stages   map[*rodStage]struct{}
	closed   bool
}

func newRodSurface(o options) *rodSurface {
	return &rodSurface{opts: o, stages: make(map[*rodStage]struct{})}
}

// sandboxDisabled reports whether Chrome must run without its sandbox,
// which containers and CI runners require.
func sandboxDisabled() bool {
	return os.Getenv("CI") == "true" ||
		os.Getenv("ROD_NO_SANDBOX") != "" ||
		os.Getenv("ROD_BROWSER_BIN") != ""
}

// ensureBrowser lazily connects to the browser. Callers hold s.mu.
func (s *rodSurface) ensureBrowser() (*rod.Browser, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if s.browser != nil {
		return s.browser, nil
	}

	l := launcher.New()
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}
	if sandboxDisabled() {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Kill()
		process.KillProcessGroup(l.PID())
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	s.opts.logger.Debug("browser launched", zap.String("engine", string(EngineRod)), zap.Int("pid", l.PID()))
	s.launcher = l
	s.browser = b
	return b, nil
}

func (s *rodSurface) Mount(ctx context.Context, html string, width int) (Stage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if width <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWidth, width)
	}

	s.mu.Lock()
	browser, err := s.ensureBrowser()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	path, cleanup, err := fileutil.WriteTempFile(html, "html")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMount, err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "file://" + path})
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	st := &rodStage{surface: s, page: page, cleanup: cleanup, width: width}
	if err := st.load(ctx); err != nil {
		_ = st.Detach(context.WithoutCancel(ctx))
		return nil, err
	}

	s.mu.Lock()
	s.stages[st] = struct{}{}
	s.mu.Unlock()
	return st, nil
}

func (s *rodSurface) Attached(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stages), nil
}

// Close detaches live stages and terminates the browser process group.
func (s *rodSurface) Close() error {
	s.mu.Lock()
	stages := make([]*rodStage, 0, len(s.stages))
	for st := range s.stages {
		stages = append(stages, st)
	}
	s.closed = true
	s.mu.Unlock()

	for _, st := range stages {
		_ = st.Detach(context.Background())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browser == nil {
		return nil
	}
	err := s.browser.Close()
	if s.launcher != nil {
		pid := s.launcher.PID()
		s.launcher.Kill()
		process.KillProcessGroup(pid)
		s.launcher.Cleanup()
	}
	s.browser = nil
	s.launcher = nil
	return err
}

func (s *rodSurface) forget(st *rodStage) {
	s.mu.Lock()
	delete(s.stages, st)
	s.mu.Unlock()
}

type rodStage struct {
	surface *rodSurface
	page    *rod.Page
	cleanup func()
	width   int

	once     sync.Once
	detached bool
}

func (st *rodStage) load(ctx context.Context) error {
	timeout, err := loadTimeout(ctx, st.surface.opts.timeout)
	if err != nil {
		return err
	}
	page := st.page.Context(ctx)

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             st.width,
		Height:            model.PageHeightPx,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if _, err := page.Eval(mountJS, st.width); err != nil {
		return fmt.Errorf("%w: %v", ErrMount, err)
	}
	return nil
}

func (st *rodStage) live(ctx context.Context) (*rod.Page, error) {
	if st.detached {
		return nil, ErrDetached
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return st.page.Context(ctx), nil
}

func (st *rodStage) Height(ctx context.Context) (float64, error) {
	page, err := st.live(ctx)
	if err != nil {
		return 0, err
	}
	obj, err := page.Eval(heightJS)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMeasure, err)
	}
	h := obj.Value.Num()
	if h < 0 {
		return 0, fmt.Errorf("%w: stage content missing", ErrMeasure)
	}
	return h, nil
}

func (st *rodStage) Translate(ctx context.Context, offset float64) error {
	page, err := st.live(ctx)
	if err != nil {
		return err
	}
	obj, err := page.Eval(translateJS, offset)
	if err != nil {
		return fmt.Errorf("%w: translate: %v", ErrCapture, err)
	}
	if !obj.Value.Bool() {
		return fmt.Errorf("%w: stage content missing", ErrCapture)
	}
	return nil
}

func (st *rodStage) Settle(ctx context.Context) error {
	page, err := st.live(ctx)
	if err != nil {
		return err
	}
	if _, err := page.Eval(settleJS); err != nil {
		return fmt.Errorf("%w: %v", ErrSettle, err)
	}
	return nil
}

func (st *rodStage) Capture(ctx context.Context, height int, scale float64) ([]byte, error) {
	if err := validateCapture(height, scale); err != nil {
		return nil, err
	}
	page, err := st.live(ctx)
	if err != nil {
		return nil, err
	}
	img, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
		Clip: &proto.PageViewport{
			Width:  float64(st.width),
			Height: float64(height),
			Scale:  scale,
		},
		CaptureBeyondViewport: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCapture, err)
	}
	return img, nil
}

// Detach removes the stage node, closes the tab and deletes the temp file.
// Teardown runs even when ctx is already cancelled.
func (st *rodStage) Detach(ctx context.Context) error {
	var err error
	st.once.Do(func() {
		st.detached = true
		defer st.surface.forget(st)
		defer st.cleanup()

		page := st.page.Context(context.WithoutCancel(ctx))
		_, _ = page.Eval(detachJS)
		err = page.Close()
	})
	return err
}
