package text

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// About candidates from meta descriptions must look like an actual
	// company description, not a truncated slogan or an SEO keyword dump.
	minAboutLen = 60
	maxAboutLen = 400

	// Disclaimer candidates: long enough to be legal text, short enough to
	// not be the whole footer.
	minDisclaimerLen = 60
	maxDisclaimerLen = 1500

	// maxLinkDensity rejects footer blocks that are mostly navigation.
	maxLinkDensity = 0.4
)

// disclaimerKeywords mark legal/compliance language. A block needs at least
// one to count as a disclaimer.
var disclaimerKeywords = []string{
	"disclaimer",
	"not investment advice",
	"not constitute",
	"no guarantee",
	"for informational purposes only",
	"no representation",
	"securities offered through",
}

// boilerplateHints disqualify meta descriptions that describe the website
// machinery instead of the business.
var boilerplateHints = []string{
	"cookie",
	"privacy policy",
	"terms of service",
	"terms and conditions",
	"javascript",
}

// heuristicBlocks recovers the text blocks from markup alone: the about text
// from meta descriptions, the disclaimer from footer/small-print regions.
// Used when no summarizer is configured or the model call failed.
func heuristicBlocks(rawHTML string) Blocks {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return Blocks{}
	}

	return Blocks{
		About:      clampBlock(metaAbout(doc), maxAboutChars),
		Disclaimer: clampBlock(footerDisclaimer(doc), maxDisclaimerChars),
	}
}

// metaAbout pulls the page description from standard meta tags, preferring
// the plain description over Open Graph.
func metaAbout(doc *goquery.Document) *string {
	selectors := []string{
		`meta[name="description"]`,
		`meta[property="og:description"]`,
	}

	for _, sel := range selectors {
		content := strings.TrimSpace(doc.Find(sel).First().AttrOr("content", ""))
		if content == "" {
			continue
		}
		content = collapseSpaces(content)
		if len(content) < minAboutLen || len(content) > maxAboutLen {
			continue
		}
		if containsAny(strings.ToLower(content), boilerplateHints) {
			continue
		}
		return &content
	}
	return nil
}

// footerDisclaimer scans the small-print regions for a block that reads like
// legal text: keyword match, plausible length, not dominated by links.
func footerDisclaimer(doc *goquery.Document) *string {
	regions := doc.Find(`footer, [class*="footer"], [class*="disclaimer"], [class*="disclosure"], [class*="legal"], small`)

	var best string
	regions.Each(func(_ int, s *goquery.Selection) {
		text := collapseSpaces(s.Text())
		if len(text) < minDisclaimerLen || len(text) > maxDisclaimerLen {
			return
		}
		if !containsAny(strings.ToLower(text), disclaimerKeywords) {
			return
		}
		if linkDensity(s) >= maxLinkDensity {
			return
		}
		// Keep the longest qualifying block: nested regions often match
		// both the container and the paragraph inside it.
		if len(text) > len(best) {
			best = text
		}
	})

	if best == "" {
		return nil
	}
	return &best
}

// linkDensity is the fraction of a selection's visible text that sits inside
// anchors. Footers are link farms; disclaimers are prose.
func linkDensity(s *goquery.Selection) float64 {
	total := len(collapseSpaces(s.Text()))
	if total == 0 {
		return 1
	}
	linked := 0
	s.Find("a").Each(func(_ int, a *goquery.Selection) {
		linked += len(collapseSpaces(a.Text()))
	})
	return float64(linked) / float64(total)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
