// Package text produces the about and disclaimer blocks for a page snapshot.
// The pipeline cleans the rendered markup down to readable text, asks an
// OpenAI-compatible model to extract the blocks, and falls back to markup
// heuristics when no model is configured or the call fails. It degrades, it
// never errors: the worst outcome is two null blocks.
package text

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"github.com/brandlens/brandlens/config"
	"github.com/brandlens/brandlens/renderer"
)

// Output bounds for the two blocks, applied on every path.
const (
	maxAboutChars      = 300
	maxDisclaimerChars = 1000
)

// Blocks is the text task output. Both fields are nullable; a page with no
// usable description or no legal text is a normal outcome.
type Blocks struct {
	About      *string
	Disclaimer *string
}

// Extractor runs the text pipeline against a snapshot.
type Extractor struct {
	cleaner    *cleaner
	summarizer *summarizer
	cfg        config.SummarizeConfig
}

// NewExtractor creates a text Extractor. With an empty API key the model path
// is skipped entirely and heuristics carry the task.
func NewExtractor(cfg config.SummarizeConfig) *Extractor {
	return &Extractor{
		cleaner:    newCleaner(),
		summarizer: newSummarizer(cfg),
		cfg:        cfg,
	}
}

// Ready reports whether the summarizer model path is configured.
func (e *Extractor) Ready() bool {
	return e.cfg.APIKey != ""
}

// Extract cleans the snapshot markup and produces the text blocks. Pages with
// less than minContentLength runes of cleaned text yield empty Blocks without
// touching the model.
func (e *Extractor) Extract(ctx context.Context, snap *renderer.Snapshot) Blocks {
	content := e.cleaner.clean(snap.HTML, snap.FinalURL, e.cfg.MaxChars)
	if utf8.RuneCountInString(content) < minContentLength {
		slog.Debug("text: cleaned content too short, skipping",
			"url", snap.FinalURL, "length", utf8.RuneCountInString(content))
		return Blocks{}
	}

	if e.cfg.APIKey != "" {
		blocks, err := e.summarizer.summarize(ctx, content)
		if err == nil {
			return blocks
		}
		slog.Warn("text: summarizer failed, falling back to heuristics",
			"url", snap.FinalURL, "error", err)
	}

	return heuristicBlocks(snap.HTML)
}

// clampBlock trims a block, drops it if empty, and bounds it at max runes.
func clampBlock(s *string, max int) *string {
	if s == nil {
		return nil
	}
	trimmed := collapseSpaces(*s)
	if trimmed == "" {
		return nil
	}
	trimmed = truncateRunes(trimmed, max)
	return &trimmed
}
