package colors

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// hexToken matches word-bounded #RGB and #RRGGBB literals. The 6-digit
// alternative is first so a full token is never truncated to its 3-digit
// prefix; the trailing boundary rejects 4- and 5-digit fragments.
var hexToken = regexp.MustCompile(`#(?:[0-9a-fA-F]{6}|[0-9a-fA-F]{3})\b`)

// scanMarkup walks the rendered markup and collects literal hex colors from
// <style> blocks and inline style attributes, tagged markup-literal, in
// document order. These act as a secondary signal when the screenshot
// carries little usable color.
func scanMarkup(markup string) []Candidate {
	tokenizer := html.NewTokenizer(strings.NewReader(markup))

	var candidates []Candidate
	styleDepth := 0

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return candidates

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := tokenizer.TagName()
			if string(name) == "style" {
				styleDepth++
			}
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = tokenizer.TagAttr()
				if string(key) == "style" {
					candidates = appendHexTokens(candidates, string(val))
				}
			}

		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == "style" && styleDepth > 0 {
				styleDepth--
			}

		case html.TextToken:
			if styleDepth > 0 {
				candidates = appendHexTokens(candidates, string(tokenizer.Text()))
			}
		}
	}
}

func appendHexTokens(candidates []Candidate, text string) []Candidate {
	for _, tok := range hexToken.FindAllString(text, -1) {
		candidates = append(candidates, Candidate{
			Hex:    normalizeHex(tok),
			Source: SourceMarkup,
		})
	}
	return candidates
}

// normalizeHex expands 3-digit shorthand by doubling each nibble
// (#0AF → #00AAFF) and uppercases the result.
func normalizeHex(tok string) string {
	body := tok[1:]
	if len(body) == 3 {
		var b strings.Builder
		b.WriteByte('#')
		for i := 0; i < 3; i++ {
			b.WriteByte(body[i])
			b.WriteByte(body[i])
		}
		return strings.ToUpper(b.String())
	}
	return strings.ToUpper(tok)
}
