package logo

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// findLogoURL scans the rendered markup for the most logo-like image and
// returns its absolute URL. Candidates are ranked by naming hints and
// placement; a candidate needs at least one strong hint to be accepted so a
// random hero image never wins by position alone.
func findLogoURL(rawHTML, sourceURL string) *string {
	base, err := url.Parse(sourceURL)
	if err != nil {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}

	var bestURL string
	bestScore := 0

	doc.Find("img[src]").Each(func(i int, s *goquery.Selection) {
		src, exists := s.Attr("src")
		if !exists || src == "" {
			return
		}
		resolved, err := base.Parse(src)
		if err != nil || (resolved.Scheme != "http" && resolved.Scheme != "https") {
			return
		}

		score := scoreLogoCandidate(s, src, i)
		if score > bestScore {
			bestScore = score
			bestURL = resolved.String()
		}
	})

	if bestScore < 2 || bestURL == "" {
		return nil
	}
	return &bestURL
}

func scoreLogoCandidate(s *goquery.Selection, src string, position int) int {
	score := 0

	hints := strings.ToLower(strings.Join([]string{
		src,
		s.AttrOr("class", ""),
		s.AttrOr("id", ""),
		s.AttrOr("alt", ""),
	}, " "))
	if strings.Contains(hints, "logo") {
		score += 4
	}
	if strings.Contains(hints, "brand") {
		score += 2
	}

	// Logos overwhelmingly live in the header/nav, usually inside the
	// home link.
	if s.Closest("header, nav").Length() > 0 {
		score += 2
	}
	if s.Closest(`a[href="/"], a[href="#"]`).Length() > 0 {
		score++
	}

	// Early document position is a weak signal on its own.
	if position < 3 {
		score++
	}

	return score
}
