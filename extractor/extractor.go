// Package extractor coordinates a brand extraction: render the page once,
// then fan the immutable snapshot out to the logo, color and text tasks
// concurrently. Rendering is the only fatal step; each signal task either
// succeeds or is replaced by its documented fallback value, so one flaky
// collaborator never sinks the whole request.
package extractor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/brandlens/brandlens/colors"
	"github.com/brandlens/brandlens/logo"
	"github.com/brandlens/brandlens/renderer"
	"github.com/brandlens/brandlens/text"
)

// PageRenderer produces a page snapshot.
type PageRenderer interface {
	Render(ctx context.Context, targetURL string, timeoutSeconds int) (*renderer.Snapshot, error)
}

// LogoExtractor runs the logo task. An error means the task fell over; the
// orchestrator absorbs it into the no-logo fallback.
type LogoExtractor interface {
	Extract(ctx context.Context, snap *renderer.Snapshot) (logo.Result, error)
}

// ColorExtractor runs the color task. It degrades internally and always
// returns a usable result.
type ColorExtractor interface {
	Extract(screenshot []byte, markup string) colors.Result
}

// TextExtractor runs the text task. It degrades internally; empty blocks are
// its fallback.
type TextExtractor interface {
	Extract(ctx context.Context, snap *renderer.Snapshot) text.Blocks
}

// Result is the aggregated extraction output plus phase timings.
type Result struct {
	Logo       *string
	LogoRaw    *string
	Colors     colors.Result
	About      *string
	Disclaimer *string

	RenderMs  int64
	ExtractMs int64
}

// Orchestrator wires the renderer and the three signal tasks together.
type Orchestrator struct {
	renderer PageRenderer
	logo     LogoExtractor
	colors   ColorExtractor
	text     TextExtractor
}

// New creates an Orchestrator from its collaborators.
func New(r PageRenderer, l LogoExtractor, c ColorExtractor, t TextExtractor) *Orchestrator {
	return &Orchestrator{renderer: r, logo: l, colors: c, text: t}
}

// Extract renders targetURL and runs the three signal tasks against the
// snapshot. A render failure is returned as-is; task failures are logged and
// replaced by fallbacks.
func (o *Orchestrator) Extract(ctx context.Context, targetURL string, timeoutSeconds int) (*Result, error) {
	renderStart := time.Now()
	snap, err := o.renderer.Render(ctx, targetURL, timeoutSeconds)
	if err != nil {
		return nil, err
	}
	renderMs := time.Since(renderStart).Milliseconds()

	extractStart := time.Now()

	// Fallbacks are in place before the tasks run: a task that errors or
	// panics simply leaves its slot untouched.
	var (
		logoResult  logo.Result
		colorResult = colors.FallbackResult()
		textBlocks  text.Blocks
	)

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		runTask("logo", targetURL, func() {
			res, err := o.logo.Extract(ctx, snap)
			if err != nil {
				slog.Warn("extract: logo task failed, using fallback",
					"url", targetURL, "error", err)
				return
			}
			logoResult = res
		})
	}()

	go func() {
		defer wg.Done()
		runTask("colors", targetURL, func() {
			colorResult = o.colors.Extract(snap.Screenshot, snap.HTML)
		})
	}()

	go func() {
		defer wg.Done()
		runTask("text", targetURL, func() {
			textBlocks = o.text.Extract(ctx, snap)
		})
	}()

	wg.Wait()

	return &Result{
		Logo:       logoResult.Logo,
		LogoRaw:    logoResult.LogoRaw,
		Colors:     colorResult,
		About:      textBlocks.About,
		Disclaimer: textBlocks.Disclaimer,
		RenderMs:   renderMs,
		ExtractMs:  time.Since(extractStart).Milliseconds(),
	}, nil
}

// runTask executes fn with panic containment. A panicking task is logged and
// its fallback value stands.
func runTask(name, url string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("extract: task panicked, using fallback",
				"task", name, "url", url, "panic", r)
		}
	}()
	fn()
}
