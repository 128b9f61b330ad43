package renderer

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/brandlens/brandlens/models"
)

// Render navigates to the URL and captures one immutable Snapshot
// (viewport screenshot + rendered HTML). timeoutSeconds of zero uses the
// configured default.
//
// Lifecycle:
//
//  1. Timeout guard      – hard deadline on the entire operation
//  2. Acquire page       – borrow a tab from the pool (or create one)
//  3. DEFER: cleanup     – about:blank + return to pool (leak prevention)
//  4. Stealth injection  – mask navigator.webdriver etc. (before navigation!)
//  5. Context binding    – propagate timeout to all Rod operations
//  6. Navigate + wait    – DOM stable, then a short settle pause so late
//     images and webfonts finish painting before the screenshot
//  7. Capture            – screenshot, page.HTML(), title, final URL
//
// Unlike a text scraper, images and stylesheets are never blocked here:
// the screenshot is the color-extraction input, so the page must paint.
func (r *Renderer) Render(ctx context.Context, targetURL string, timeoutSeconds int) (*Snapshot, error) {
	// ── 1. Timeout guard ──────────────────────────────────────────────
	ctx, cancel := context.WithTimeout(ctx, r.clampTimeout(timeoutSeconds))
	defer cancel()

	// ── 2. Acquire page from pool ─────────────────────────────────────
	r.activePages.Add(1)
	defer r.activePages.Add(-1)

	page, acquireErr := r.pagePool.Get(func() (*rod.Page, error) {
		return r.browser.Page(proto.TargetCreateTarget{})
	})
	if acquireErr != nil {
		return nil, models.NewExtractError(
			models.ErrCodeBrowserCrash,
			"failed to acquire page from pool",
			acquireErr,
		)
	}

	// ── 3. CRITICAL DEFER: prevent DOM memory leak + guarantee pool return
	// about:blank uses the ORIGINAL page reference (without request
	// context), so cleanup succeeds even if the request context expired.
	defer func() {
		if navErr := page.Navigate("about:blank"); navErr != nil {
			slog.Warn("cleanup: failed to navigate to about:blank",
				"error", navErr,
			)
		}
		r.pagePool.Put(page)
	}()

	// ── 4. Stealth injection ──────────────────────────────────────────
	if r.rendererCfg.Stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth",
				"error", evalErr,
			)
		}
	}

	// ── 4b. Plausible Referer (search engines rarely get blocked) ────
	if u, parseErr := url.Parse(targetURL); parseErr == nil {
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: proto.NetworkHeaders{
				"Referer": gson.New("https://www.google.com/search?q=" + url.QueryEscape(u.Hostname())),
			},
		}.Call(page)
	}

	// ── 5. Bind request context to page ───────────────────────────────
	p := page.Context(ctx)

	// ── 6. Navigate + wait ────────────────────────────────────────────
	if navErr := p.Navigate(targetURL); navErr != nil {
		return nil, categorizeError(navErr, "navigation to target URL failed")
	}

	if stableErr := p.WaitDOMStable(300*time.Millisecond, 0.1); stableErr != nil {
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM",
			"error", stableErr,
		)
	}

	// Settle pause: DOM stability does not imply paint completion.
	if r.rendererCfg.SettleWait > 0 {
		select {
		case <-time.After(r.rendererCfg.SettleWait):
		case <-ctx.Done():
			return nil, categorizeError(ctx.Err(), "render cancelled during settle wait")
		}
	}

	// ── 7. Capture ────────────────────────────────────────────────────
	screenshot, shotErr := p.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if shotErr != nil {
		return nil, categorizeError(shotErr, "failed to capture screenshot")
	}

	rawHTML, htmlErr := p.HTML()
	if htmlErr != nil {
		return nil, categorizeError(htmlErr, "failed to extract page HTML")
	}

	title := evalStringOrEmpty(p, `() => document.title`)
	finalURL := evalStringOrEmpty(p, `() => window.location.href`)
	if finalURL == "" {
		finalURL = targetURL
	}

	return &Snapshot{
		Screenshot: screenshot,
		HTML:       rawHTML,
		FinalURL:   finalURL,
		Title:      title,
	}, nil
}

// evalStringOrEmpty evaluates a JS expression and returns the string result,
// swallowing any errors (useful for optional metadata extraction).
func evalStringOrEmpty(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// categorizeError wraps raw errors into typed ExtractErrors so the API layer
// can map them to appropriate HTTP status codes. Render-stage errors are the
// only ones that fail a request end-to-end.
func categorizeError(err error, msg string) *models.ExtractError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewExtractError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewExtractError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewExtractError(models.ErrCodeNavigation, msg, err)
	}
}
