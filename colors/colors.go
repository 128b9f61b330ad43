// Package colors extracts dominant brand colors from a page snapshot by
// clustering screenshot pixels and scanning markup for literal color tokens.
package colors

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"

	_ "golang.org/x/image/webp"

	"github.com/brandlens/brandlens/config"
)

// Result is the color extraction output. It is always structurally complete:
// Primary and Secondary are valid hex strings and Palette is non-empty.
type Result struct {
	Primary   string
	Secondary string
	Palette   []string
}

// FallbackResult is the fixed black/white result used when fewer than two
// usable candidates survive filtering.
func FallbackResult() Result {
	return Result{
		Primary:   "#000000",
		Secondary: "#FFFFFF",
		Palette:   []string{"#000000", "#FFFFFF"},
	}
}

// Extractor runs the dominant-color pipeline. It is stateless between
// requests and safe for concurrent use.
type Extractor struct {
	cfg config.ColorConfig
}

// NewExtractor creates a color Extractor with the given clustering config.
func NewExtractor(cfg config.ColorConfig) *Extractor {
	return &Extractor{cfg: cfg}
}

// Extract turns a screenshot and its rendered markup into a brand color
// result: sample → cluster, in parallel with a markup literal scan, then
// merge → filter → select. The pipeline degrades instead of failing — an
// undecodable screenshot or insufficient pixel signal falls back to markup
// colors only, and too few surviving candidates yield FallbackResult.
func (e *Extractor) Extract(screenshot []byte, markup string) Result {
	candidates := e.screenshotCandidates(screenshot)
	candidates = append(candidates, scanMarkup(markup)...)

	merged := merge(candidates)
	filtered := filterUsable(merged)
	return selectColors(filtered)
}

// screenshotCandidates decodes, samples and clusters the screenshot. Returns
// nil when the image is unusable or carries too little signal.
func (e *Extractor) screenshotCandidates(screenshot []byte) []Candidate {
	if len(screenshot) == 0 {
		return nil
	}

	img, _, err := image.Decode(bytes.NewReader(screenshot))
	if err != nil {
		slog.Warn("color extraction: screenshot decode failed, using markup colors only",
			"error", err,
		)
		return nil
	}

	samples := samplePixels(img)
	if samples == nil {
		slog.Debug("color extraction: insufficient pixel signal, using markup colors only")
		return nil
	}

	centroids := cluster(samples, e.cfg.Clusters, e.cfg.Restarts, e.cfg.MaxIterations, e.cfg.Seed)
	candidates := make([]Candidate, 0, len(centroids))
	for _, c := range centroids {
		candidates = append(candidates, Candidate{
			Hex:    formatHex(c),
			Source: SourceScreenshot,
		})
	}
	return candidates
}
