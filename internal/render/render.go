// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render loads JavaScript-driven catalog pages in headless Chrome and
// returns the markup once the tree items have appeared.
package render

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/pdiddy/dlibra-harvest/internal/logger"
	"github.com/pdiddy/dlibra-harvest/pkg/types"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultSettleDelay = 5 * time.Second
	defaultLocale      = "en-US"

	// snippetLen bounds the page source logged on a render timeout.
	snippetLen = 1000

	// snippetTimeout bounds the extra round trip that fetches the snippet.
	snippetTimeout = 5 * time.Second
)

var (
	// ErrBrowserSetup is returned when the browser cannot be started.
	ErrBrowserSetup = errors.New("browser setup failed")

	// ErrRenderTimeout is returned when the wait selector never appears.
	ErrRenderTimeout = errors.New("timed out waiting for catalog items")
)

// Page is a rendered catalog page.
type Page struct {
	// URL is the browser's location after navigation and redirects.
	URL string

	// HTML is the full markup of the rendered document.
	HTML string
}

// Renderer loads url and returns its markup once waitSelector matches.
type Renderer interface {
	Render(ctx context.Context, url, waitSelector string) (Page, error)
}

// ChromeRenderer drives a fresh headless Chrome per Render call. The browser
// is closed before Render returns, whatever the outcome.
type ChromeRenderer struct {
	timeout     time.Duration
	settleDelay time.Duration
	locale      string
	browserPath string
	log         logger.Logger
}

// NewChromeRenderer returns a renderer using cfg, with defaults of 30s
// timeout, 5s settle delay and the en-US locale.
func NewChromeRenderer(cfg types.RenderConfig, log logger.Logger) *ChromeRenderer {
	r := &ChromeRenderer{
		timeout:     cfg.Timeout,
		settleDelay: cfg.SettleDelay,
		locale:      cfg.Locale,
		browserPath: cfg.BrowserPath,
		log:         log,
	}
	if r.timeout <= 0 {
		r.timeout = defaultTimeout
	}
	if r.settleDelay < 0 {
		r.settleDelay = 0
	} else if cfg.SettleDelay == 0 {
		r.settleDelay = defaultSettleDelay
	}
	if r.locale == "" {
		r.locale = defaultLocale
	}
	return r
}

// flags returns the Chrome command-line switches for a session.
func (r *ChromeRenderer) flags() map[string]interface{} {
	return map[string]interface{}{
		"headless":              true,
		"no-sandbox":            true,
		"disable-gpu":           true,
		"disable-dev-shm-usage": true,
		"lang":                  r.locale,
	}
}

func (r *ChromeRenderer) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)

	flags := r.flags()
	names := make([]string, 0, len(flags))
	for name := range flags {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		opts = append(opts, chromedp.Flag(name, flags[name]))
	}
	if r.browserPath != "" {
		opts = append(opts, chromedp.ExecPath(r.browserPath))
	}
	return opts
}

// Render opens url, waits up to the configured timeout for waitSelector,
// pauses for the settle delay and returns the page markup.
func (r *ChromeRenderer) Render(ctx context.Context, url, waitSelector string) (Page, error) {
	r.log.Info("setting up headless browser", logger.String("locale", r.locale))

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, r.allocatorOptions()...)
	defer cancelAlloc()
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer func() {
		cancelTab()
		r.log.Info("browser closed")
	}()

	var userAgent string
	if err := chromedp.Run(tabCtx, chromedp.Evaluate(`navigator.userAgent`, &userAgent)); err != nil {
		r.log.Error("failed to start browser", logger.Error(err))
		return Page{}, fmt.Errorf("%w: %v", ErrBrowserSetup, err)
	}
	r.log.Info("browser session started", logger.String("user_agent", userAgent))

	r.log.Info("loading page",
		logger.String("url", url),
		logger.String("selector", waitSelector),
		logger.Duration("timeout", r.timeout))

	// The timeout covers navigation as well as the wait for the items.
	waitCtx, cancelWait := context.WithTimeout(tabCtx, r.timeout)
	err := chromedp.Run(waitCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady(waitSelector, chromedp.ByQuery),
	)
	timedOut := errors.Is(waitCtx.Err(), context.DeadlineExceeded)
	cancelWait()
	if err != nil {
		if timedOut || errors.Is(err, context.DeadlineExceeded) {
			r.log.Error("timeout waiting for elements",
				logger.String("selector", waitSelector),
				logger.Duration("timeout", r.timeout))
			r.log.Debug("page source at timeout", logger.String("snippet", r.snippet(tabCtx)))
			return Page{}, fmt.Errorf("%w %q on %s after %v", ErrRenderTimeout, waitSelector, url, r.timeout)
		}
		return Page{}, fmt.Errorf("loading %s: %w", url, err)
	}

	r.log.Info("catalog items found, waiting for page to stabilize", logger.Duration("settle_delay", r.settleDelay))

	var page Page
	if err := chromedp.Run(tabCtx,
		chromedp.Sleep(r.settleDelay),
		chromedp.Location(&page.URL),
		chromedp.OuterHTML("html", &page.HTML, chromedp.ByQuery),
	); err != nil {
		return Page{}, fmt.Errorf("reading rendered page %s: %w", url, err)
	}

	r.log.Debug("page rendered",
		logger.String("current_url", page.URL),
		logger.Int("source_length", len(page.HTML)))
	return page, nil
}

// snippet returns the start of the current page source for diagnostics.
func (r *ChromeRenderer) snippet(tabCtx context.Context) string {
	ctx, cancel := context.WithTimeout(tabCtx, snippetTimeout)
	defer cancel()

	var html string
	if err := chromedp.Run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return fmt.Sprintf("<unavailable: %v>", err)
	}
	return truncate(html, snippetLen)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
