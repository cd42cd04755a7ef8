// Package render drives a headless Chromium instance to turn the
// dashboard's report page into PNG and PDF artifacts. The browser is
// launched lazily on first use and reused across renders.
package render

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/stowpack/stowpack/internal/config"
)

// readyExpr polls the flag the report page sets once every Plotly view
// has finished drawing.
const readyExpr = `() => window.__reportReady === true`

// A4 landscape, in inches.
const (
	pdfPaperWidth  = 11.69
	pdfPaperHeight = 8.27
)

// Renderer owns the headless browser used for exports.
type Renderer struct {
	browserPath string
	timeout     time.Duration
	logger      *zap.Logger

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// New creates a renderer from config. The browser is not launched
// until the first render.
func New(cfg config.RenderConfig, logger *zap.Logger) (*Renderer, error) {
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("parse render timeout: %w", err)
	}
	return &Renderer{
		browserPath: cfg.BrowserPath,
		timeout:     timeout,
		logger:      logger,
	}, nil
}

// handle returns the shared browser, launching it on first use.
func (r *Renderer) handle() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	launch := launcher.New().Headless(true)
	if r.browserPath != "" {
		launch = launch.Bin(r.browserPath)
	}

	url, err := launch.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch headless browser: %w", err)
	}

	browser := rod.New().ControlURL(url)
	if err := browser.Connect(); err != nil {
		launch.Cleanup()
		return nil, fmt.Errorf("connect to headless browser: %w", err)
	}

	r.logger.Info("headless browser launched", zap.String("control_url", url))
	r.launcher = launch
	r.browser = browser
	return browser, nil
}

// openReady navigates to url and blocks until the page reports itself
// ready. The caller must close the returned page.
func (r *Renderer) openReady(ctx context.Context, url string) (*rod.Page, error) {
	browser, err := r.handle()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", url, err)
	}
	page = page.Context(ctx)

	if err := page.WaitLoad(); err != nil {
		page.Close()
		return nil, fmt.Errorf("load %s: %w", url, err)
	}
	if err := page.Wait(rod.Eval(readyExpr)); err != nil {
		page.Close()
		return nil, fmt.Errorf("wait for report render: %w", err)
	}
	return page, nil
}

// Snapshot captures a PNG of the page at the given viewport size.
func (r *Renderer) Snapshot(ctx context.Context, url string, width, height int) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	page, err := r.openReady(ctx, url)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, fmt.Errorf("set viewport: %w", err)
	}

	data, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}
	return data, nil
}

// PrintPDF renders the page to a landscape A4 PDF.
func (r *Renderer) PrintPDF(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	page, err := r.openReady(ctx, url)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	w := pdfPaperWidth
	h := pdfPaperHeight
	stream, err := page.PDF(&proto.PagePrintToPDF{
		Landscape:       true,
		PrintBackground: true,
		PaperWidth:      &w,
		PaperHeight:     &h,
	})
	if err != nil {
		return nil, fmt.Errorf("print to pdf: %w", err)
	}

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("read pdf stream: %w", err)
	}
	return data, nil
}

// Close shuts the browser down.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	if r.launcher != nil {
		r.launcher.Cleanup()
	}
	r.browser = nil
	r.launcher = nil
	return err
}
