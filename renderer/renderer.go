package renderer

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"

	"github.com/brandlens/brandlens/config"
	"github.com/brandlens/brandlens/models"
)

// Snapshot is the immutable capture of one rendered page. Every extraction
// task reads the same snapshot and none mutates it, so no synchronization is
// needed between tasks.
type Snapshot struct {
	// Screenshot is the viewport screenshot, PNG-encoded.
	Screenshot []byte

	// HTML is the rendered markup after JS execution.
	HTML string

	// FinalURL is the URL after following all redirects.
	FinalURL string

	// Title is the document title.
	Title string
}

// Renderer manages the global browser lifecycle and the page pool.
// It is safe for concurrent use.
type Renderer struct {
	browser     *rod.Browser
	pagePool    rod.Pool[rod.Page]
	browserCfg  config.BrowserConfig
	rendererCfg config.RendererConfig
	activePages atomic.Int32
}

// New launches a headless browser and initialises the reusable page pool.
func New(browserCfg config.BrowserConfig, rendererCfg config.RendererConfig) (*Renderer, error) {
	l := launcher.New().
		Headless(browserCfg.Headless).
		NoSandbox(browserCfg.NoSandbox)

	if browserCfg.BrowserBin != "" {
		l = l.Bin(browserCfg.BrowserBin)
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "AudioServiceOutOfProcess,TranslateUI")
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("disable-prompt-on-repost"))
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewExtractError(
			models.ErrCodeBrowserCrash,
			"failed to launch browser",
			err,
		)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, models.NewExtractError(
			models.ErrCodeBrowserCrash,
			"failed to connect to browser",
			err,
		)
	}

	pool := rod.NewPagePool(browserCfg.MaxPages)
	slog.Info("page pool created", "maxPages", browserCfg.MaxPages)

	return &Renderer{
		browser:     browser,
		pagePool:    pool,
		browserCfg:  browserCfg,
		rendererCfg: rendererCfg,
	}, nil
}

// Stats returns a snapshot of the pool's current state.
func (r *Renderer) Stats() models.PoolStats {
	return models.PoolStats{
		MaxPages:    r.browserCfg.MaxPages,
		ActivePages: int(r.activePages.Load()),
	}
}

// Ready reports whether the browser connection is usable.
func (r *Renderer) Ready() bool {
	return r.browser != nil
}

// Close drains the page pool and kills the browser process.
// Call this on graceful shutdown to prevent zombie Chrome processes.
func (r *Renderer) Close() {
	slog.Info("renderer shutting down: draining page pool")
	r.pagePool.Cleanup(func(p *rod.Page) {
		_ = p.Close()
	})
	slog.Info("renderer shutting down: closing browser")
	r.browser.MustClose()
	slog.Info("renderer shutdown complete")
}

// clampTimeout bounds a client-supplied timeout by the configured maximum,
// substituting the default when unset.
func (r *Renderer) clampTimeout(seconds int) time.Duration {
	timeout := time.Duration(seconds) * time.Second
	if timeout <= 0 {
		timeout = r.rendererCfg.DefaultTimeout
	}
	if timeout > r.rendererCfg.MaxTimeout {
		timeout = r.rendererCfg.MaxTimeout
	}
	return timeout
}
