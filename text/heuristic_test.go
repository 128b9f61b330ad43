package text

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestHeuristicBlocks_MetaDescription(t *testing.T) {
	html := `<html><head>
		<meta name="description" content="Acme Advisory provides business valuation and exit planning services to owners of privately held companies across North America.">
	</head><body></body></html>`

	blocks := heuristicBlocks(html)
	require.NotNil(t, blocks.About)
	assert.Contains(t, *blocks.About, "business valuation")
	assert.Nil(t, blocks.Disclaimer)
}

func TestHeuristicBlocks_OGDescriptionFallback(t *testing.T) {
	html := `<html><head>
		<meta property="og:description" content="Acme Advisory provides business valuation and exit planning services to owners of privately held companies.">
	</head><body></body></html>`

	blocks := heuristicBlocks(html)
	require.NotNil(t, blocks.About)
	assert.Contains(t, *blocks.About, "exit planning")
}

func TestMetaAbout_Rejections(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{
			name: "too short",
			html: `<meta name="description" content="Welcome to Acme.">`,
		},
		{
			name: "too long",
			html: `<meta name="description" content="` + strings.Repeat("valuation services ", 30) + `">`,
		},
		{
			name: "cookie boilerplate",
			html: `<meta name="description" content="This website uses cookie technology to improve your browsing experience and remember your preferences over time.">`,
		},
		{
			name: "missing",
			html: `<meta name="keywords" content="valuation, exit planning">`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := heuristicBlocks(`<html><head>` + tt.html + `</head><body></body></html>`)
			assert.Nil(t, blocks.About)
		})
	}
}

func TestHeuristicBlocks_FooterDisclaimer(t *testing.T) {
	html := `<html><body>
		<footer>
			<p>Valuations shown are estimates for informational purposes only and do not
			constitute an offer to buy or sell any business or security. Past performance
			is no guarantee of future results.</p>
		</footer>
	</body></html>`

	blocks := heuristicBlocks(html)
	require.NotNil(t, blocks.Disclaimer)
	assert.Contains(t, *blocks.Disclaimer, "informational purposes only")
}

func TestFooterDisclaimer_Rejections(t *testing.T) {
	linkFarm := `<footer>
		<a href="/a">disclaimer and legal information page with details</a>
		<a href="/b">more links to policies and other resources here</a>
		<span>ok</span>
	</footer>`

	noKeywords := `<footer>
		<p>Copyright 2026 Acme Advisory. All rights reserved. Built with care in
		Austin, Texas. Follow us on social media for updates.</p>
	</footer>`

	tooShort := `<footer><p>Disclaimer: see terms.</p></footer>`

	for name, html := range map[string]string{
		"mostly links":         linkFarm,
		"no legal keywords":    noKeywords,
		"too short to be real": tooShort,
	} {
		t.Run(name, func(t *testing.T) {
			blocks := heuristicBlocks(`<html><body>` + html + `</body></html>`)
			assert.Nil(t, blocks.Disclaimer)
		})
	}
}

func TestHeuristicBlocks_DisclaimerTruncated(t *testing.T) {
	long := "This material is for informational purposes only. " + strings.Repeat("It does not constitute advice. ", 40)
	html := `<html><body><div class="disclaimer"><p>` + long + `</p></div></body></html>`

	blocks := heuristicBlocks(html)
	require.NotNil(t, blocks.Disclaimer)
	assert.LessOrEqual(t, len(*blocks.Disclaimer), maxDisclaimerChars)
}

func TestLinkDensity(t *testing.T) {
	html := `<div><a href="/x">half of this</a> and half of that rest</div>`
	doc := mustDoc(t, html)
	sel := doc.Find("div")
	d := linkDensity(sel)
	assert.Greater(t, d, 0.0)
	assert.Less(t, d, 1.0)
}
