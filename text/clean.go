package text

import (
	"log/slog"
	nurl "net/url"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// minContentLength is the minimum cleaned-text length (in runes) for a page
// to be worth summarizing. Below this the page is effectively empty and both
// text blocks stay null.
const minContentLength = 100

var (
	spaceRun  = regexp.MustCompile(`[ \t]+`)
	blankRun  = regexp.MustCompile(`\n{3,}`)
	spacedEOL = regexp.MustCompile(`[ \t]+\n`)
)

// cleaner reduces rendered HTML to compact Markdown-flavoured text suitable
// as summarizer input. The converter is created once and reused across
// requests (goroutine-safe).
type cleaner struct {
	mdConverter *converter.Converter
}

func newCleaner() *cleaner {
	return &cleaner{
		mdConverter: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
	}
}

// clean runs the two-stage pipeline: readability isolates the main content,
// html-to-markdown renders it as text. Whitespace is collapsed and the
// result is bounded at maxChars runes.
func (c *cleaner) clean(rawHTML, sourceURL string, maxChars int) string {
	content := mainContent(rawHTML, sourceURL)

	text, err := c.mdConverter.ConvertString(content, converter.WithDomain(sourceURL))
	if err != nil {
		slog.Warn("text: markdown conversion failed, stripping tags instead",
			"url", sourceURL, "error", err)
		text = stripTags(content)
	}

	return truncateRunes(normalizeWhitespace(text), maxChars)
}

// mainContent runs the Mozilla Readability algorithm on rawHTML and returns
// the main-content HTML fragment. When readability fails or finds nearly
// nothing, the raw markup minus obvious chrome (script/style/nav/header/
// footer) is used instead — the pipeline must never come back empty-handed
// just because the algorithm choked on an unusual layout.
func mainContent(rawHTML, sourceURL string) string {
	parsedURL, err := nurl.Parse(sourceURL)
	if err != nil {
		return stripChrome(rawHTML)
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err != nil {
		slog.Warn("text: readability failed, using stripped markup",
			"url", sourceURL, "error", err)
		return stripChrome(rawHTML)
	}
	if len(strings.TrimSpace(article.TextContent)) < minContentLength {
		return stripChrome(rawHTML)
	}
	return article.Content
}

// stripChrome removes non-content elements from raw markup and returns what
// remains as an HTML fragment.
func stripChrome(rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return rawHTML
	}
	doc.Find("script, style, noscript, nav, header, footer, iframe").Remove()
	if body := doc.Find("body"); body.Length() > 0 {
		if html, err := body.Html(); err == nil {
			return html
		}
	}
	return rawHTML
}

// stripTags extracts visible text from an HTML fragment.
func stripTags(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	return strings.TrimSpace(doc.Text())
}

// normalizeWhitespace collapses horizontal whitespace runs and excess blank
// lines so the summarizer budget is spent on words, not padding.
func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = spaceRun.ReplaceAllString(s, " ")
	s = spacedEOL.ReplaceAllString(s, "\n")
	s = blankRun.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// truncateRunes bounds s at max runes, never splitting a multi-byte rune.
func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
