package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"

	"neoncrush/internal/logging"
	"neoncrush/internal/services"
)

// ChromeOptions configures the headless browser renderer.
type ChromeOptions struct {
	ExecPath    string
	SettleDelay time.Duration
	Timeout     time.Duration
	Logger      *slog.Logger
}

// Chrome renders frames by loading the SVG as a standalone document in
// headless Chrome and scrubbing its animation timelines. SMIL animations are
// paused and seeked through the SVG DOM; CSS animations through the Web
// Animations API.
type Chrome struct {
	opts   ChromeOptions
	logger *slog.Logger
}

// NewChrome constructs the browser-backed renderer.
func NewChrome(opts ChromeOptions) *Chrome {
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Minute
	}
	return &Chrome{opts: opts, logger: logging.NewComponentLogger(opts.Logger, "render-chrome")}
}

// Name identifies the engine in logs and history.
func (c *Chrome) Name() string { return "chrome" }

// prepareScript freezes every timeline at zero and makes the root element
// scale to the viewport. %d/%d is the natural size used for a missing viewBox.
const prepareScript = `(() => {
  const root = document.documentElement;
  if (!root.getAttribute('viewBox') && %d > 0 && %d > 0) {
    root.setAttribute('viewBox', '0 0 %d %d');
  }
  root.setAttribute('preserveAspectRatio', root.getAttribute('preserveAspectRatio') || 'xMidYMid meet');
  if (typeof root.pauseAnimations === 'function') { root.pauseAnimations(); }
  for (const anim of document.getAnimations()) { anim.pause(); }
  return true;
})()`

// seekScript moves every timeline to %f milliseconds, resizes the root to
// %d x %d, and resolves after the next rendering tick.
const seekScript = `(() => {
  const t = %f;
  const root = document.documentElement;
  root.setAttribute('width', '%d');
  root.setAttribute('height', '%d');
  if (typeof root.setCurrentTime === 'function') { root.setCurrentTime(t / 1000); }
  for (const anim of document.getAnimations()) { anim.pause(); anim.currentTime = t; }
  return new Promise(resolve => requestAnimationFrame(() => resolve(true)));
})()`

// Open starts a browser, loads the document from a temporary file, and
// freezes its timelines.
func (c *Chrome) Open(ctx context.Context, svg []byte) (Session, error) {
	width, height := NaturalSize(svg)

	dir, err := os.MkdirTemp("", "neoncrush-render-")
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "render", "stage svg", "Failed to create render workspace", err)
	}
	docPath := filepath.Join(dir, "document.svg")
	if err := os.WriteFile(docPath, svg, 0o600); err != nil {
		_ = os.RemoveAll(dir)
		return nil, services.Wrap(services.ErrTransient, "render", "stage svg", "Failed to write render document", err)
	}

	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	allocOpts = append(allocOpts, chromedp.Flag("hide-scrollbars", true))
	if c.opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(c.opts.ExecPath))
	}

	timeoutCtx, cancelTimeout := context.WithTimeout(ctx, c.opts.Timeout)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(timeoutCtx, allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	session := &chromeSession{
		ctx:    browserCtx,
		dir:    dir,
		width:  width,
		height: height,
		settle: c.opts.SettleDelay,
		cancel: func() {
			cancelBrowser()
			cancelAlloc()
			cancelTimeout()
		},
	}

	var ready bool
	err = chromedp.Run(browserCtx,
		emulation.SetDefaultBackgroundColorOverride().WithColor(&cdp.RGBA{R: 255, G: 255, B: 255, A: 1}),
		chromedp.Navigate("file://"+docPath),
		chromedp.Evaluate(fmt.Sprintf(prepareScript, width, height, width, height), &ready),
	)
	if err != nil {
		_ = session.Close()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, services.Wrap(services.ErrExternalTool, "render", "open chrome", "Headless Chrome could not load the document", err)
	}

	logging.WithContext(ctx, c.logger).Debug("svg loaded in chrome",
		logging.Int("width", width),
		logging.Int("height", height),
		logging.String("document", docPath),
	)
	return session, nil
}

type chromeSession struct {
	ctx      context.Context
	cancel   func()
	dir      string
	width    int
	height   int
	settle   time.Duration
	viewport image.Point
}

func (s *chromeSession) Size() (int, int) { return s.width, s.height }

func (s *chromeSession) Capture(ctx context.Context, atMillis float64, width, height int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("capture %dx%d: %w", width, height, ErrInvalidSize)
	}

	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var actions []chromedp.Action
	if s.viewport != image.Pt(width, height) {
		actions = append(actions, chromedp.EmulateViewport(int64(width), int64(height)))
	}
	var ticked bool
	var png []byte
	actions = append(actions,
		chromedp.Evaluate(fmt.Sprintf(seekScript, atMillis, width, height), &ticked, awaitPromise),
	)
	if s.settle > 0 {
		actions = append(actions, chromedp.Sleep(s.settle))
	}
	actions = append(actions, chromedp.CaptureScreenshot(&png))

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("capture at %.0fms: %w", atMillis, err)
	}
	s.viewport = image.Pt(width, height)

	frame, err := imaging.Decode(bytes.NewReader(png))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	return fitFrame(frame, width, height), nil
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

// fitFrame rescales a screenshot whose size differs from the request, which
// happens on HiDPI device scale factors.
func fitFrame(src image.Image, width, height int) image.Image {
	if src.Bounds().Dx() == width && src.Bounds().Dy() == height {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

func (s *chromeSession) Close() error {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.dir == "" {
		return nil
	}
	err := os.RemoveAll(s.dir)
	s.dir = ""
	return err
}
