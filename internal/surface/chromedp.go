package surface

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/alnah/go-cv2pdf/internal/fileutil"
	"github.com/alnah/go-cv2pdf/internal/model"
)

// Compile-time interface checks
var (
	_ Surface = (*chromedpSurface)(nil)
	_ Stage   = (*chromedpStage)(nil)
)

// chromedpSurface drives Chrome through chromedp. One browser per surface,
// one tab per stage.
type chromedpSurface struct {
	opts options

	mu            sync.Mutex
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	stages        map[*chromedpStage]struct{}
	closed        bool
}

func newChromedpSurface(o options) *chromedpSurface {
	return &chromedpSurface{opts: o, stages: make(map[*chromedpStage]struct{})}
}

func allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	if sandboxDisabled() {
		opts = append(opts, chromedp.NoSandbox)
	}
	if p := os.Getenv("CHROME_PATH"); p != "" {
		opts = append(opts, chromedp.ExecPath(p))
	}
	return opts
}

// ensureBrowser starts Chrome on first use. Callers hold s.mu.
func (s *chromedpSurface) ensureBrowser() (context.Context, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if s.browserCtx != nil {
		return s.browserCtx, nil
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocatorOptions()...)
	logger := s.opts.logger
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			logger.Debug(fmt.Sprintf("chromedp: "+format, args...))
		}),
	)
	cancel := func() {
		cancelBrowser()
		cancelAlloc()
	}

	// The first Run launches the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	logger.Debug("browser launched", zap.String("engine", string(EngineChromedp)))
	s.browserCtx = browserCtx
	s.cancelBrowser = cancel
	return browserCtx, nil
}

func (s *chromedpSurface) Mount(ctx context.Context, html string, width int) (Stage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if width <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWidth, width)
	}

	s.mu.Lock()
	browserCtx, err := s.ensureBrowser()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	path, cleanup, err := fileutil.WriteTempFile(html, "html")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMount, err)
	}

	tab, cancelTab := chromedp.NewContext(browserCtx)
	st := &chromedpStage{surface: s, tab: tab, cancel: cancelTab, cleanup: cleanup, width: width}

	// The first Run on a tab context creates the target.
	if err := chromedp.Run(tab); err != nil {
		_ = st.Detach(ctx)
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	if err := st.load(ctx, "file://"+path); err != nil {
		_ = st.Detach(ctx)
		return nil, err
	}

	s.mu.Lock()
	s.stages[st] = struct{}{}
	s.mu.Unlock()
	return st, nil
}

func (s *chromedpSurface) Attached(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stages), nil
}

// Close detaches live stages and shuts the browser down.
func (s *chromedpSurface) Close() error {
	s.mu.Lock()
	stages := make([]*chromedpStage, 0, len(s.stages))
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
	if s.browserCtx == nil {
		return nil
	}
	err := chromedp.Cancel(s.browserCtx)
	s.cancelBrowser()
	s.browserCtx = nil
	s.cancelBrowser = nil
	return err
}

func (s *chromedpSurface) forget(st *chromedpStage) {
	s.mu.Lock()
	delete(s.stages, st)
	s.mu.Unlock()
}

type chromedpStage struct {
	surface *chromedpSurface
	tab     context.Context
	cancel  context.CancelFunc
	cleanup func()
	width   int

	once     sync.Once
	detached bool
}

// run executes actions in the stage's tab. The run context derives from the
// tab so chromedp can find its target; cancelling ctx aborts the call
// without closing the tab.
func (st *chromedpStage) run(ctx context.Context, actions ...chromedp.Action) error {
	if st.detached {
		return ErrDetached
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if c := chromedp.FromContext(st.tab); c == nil || c.Target == nil {
		return ErrDetached
	}

	runCtx, cancel := context.WithCancel(st.tab)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

func (st *chromedpStage) load(ctx context.Context, url string) error {
	timeout, err := loadTimeout(ctx, st.surface.opts.timeout)
	if err != nil {
		return err
	}
	loadCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err = st.run(loadCtx,
		chromedp.EmulateViewport(int64(st.width), model.PageHeightPx),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	var ok bool
	if err := st.run(ctx, chromedp.Evaluate(invoke(mountJS, float64(st.width)), &ok)); err != nil {
		return fmt.Errorf("%w: %v", ErrMount, err)
	}
	return nil
}

func (st *chromedpStage) Height(ctx context.Context) (float64, error) {
	var h float64
	if err := st.run(ctx, chromedp.Evaluate(invoke(heightJS), &h)); err != nil {
		if errors.Is(err, ErrDetached) || ctx.Err() != nil {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %v", ErrMeasure, err)
	}
	if h < 0 {
		return 0, fmt.Errorf("%w: stage content missing", ErrMeasure)
	}
	return h, nil
}

func (st *chromedpStage) Translate(ctx context.Context, offset float64) error {
	var ok bool
	if err := st.run(ctx, chromedp.Evaluate(invoke(translateJS, offset), &ok)); err != nil {
		if errors.Is(err, ErrDetached) || ctx.Err() != nil {
			return err
		}
		return fmt.Errorf("%w: translate: %v", ErrCapture, err)
	}
	if !ok {
		return fmt.Errorf("%w: stage content missing", ErrCapture)
	}
	return nil
}

func (st *chromedpStage) Settle(ctx context.Context) error {
	var ok bool
	if err := st.run(ctx, chromedp.Evaluate(invoke(settleJS), &ok, awaitPromise)); err != nil {
		if errors.Is(err, ErrDetached) || ctx.Err() != nil {
			return err
		}
		return fmt.Errorf("%w: %v", ErrSettle, err)
	}
	return nil
}

func (st *chromedpStage) Capture(ctx context.Context, height int, scale float64) ([]byte, error) {
	if err := validateCapture(height, scale); err != nil {
		return nil, err
	}
	var img []byte
	err := st.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		img, err = page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			WithClip(&page.Viewport{
				Width:  float64(st.width),
				Height: float64(height),
				Scale:  scale,
			}).
			WithCaptureBeyondViewport(true).
			Do(ctx)
		return err
	}))
	if err != nil {
		if errors.Is(err, ErrDetached) || ctx.Err() != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrCapture, err)
	}
	return img, nil
}

// Detach removes the stage node, closes the tab and deletes the temp file.
func (st *chromedpStage) Detach(ctx context.Context) error {
	st.once.Do(func() {
		var ok bool
		_ = st.run(context.WithoutCancel(ctx), chromedp.Evaluate(invoke(detachJS), &ok))
		st.detached = true
		st.cancel()
		st.cleanup()
		st.surface.forget(st)
	})
	return nil
}
