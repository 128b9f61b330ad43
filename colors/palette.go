package colors

import (
	"math"
	"sort"
)

const (
	// minColorDistance is the RGB distance below which two candidates are
	// considered the same color.
	minColorDistance = 20.0

	// Brightness and saturation bounds for a usable brand color:
	// near-white, near-black and near-gray candidates are discarded.
	maxBrightness = 240.0
	minBrightness = 20.0
	minSaturation = 0.1

	// maxPalette bounds the palette length.
	maxPalette = 8
)

// merge deduplicates candidates by perceptual distance. Iteration order is
// significant: a candidate is kept only if it is at least minColorDistance
// away from every already-kept candidate, so earlier entries (screenshot
// clusters) win collisions against later ones (markup literals).
func merge(candidates []Candidate) []Candidate {
	kept := make([]Candidate, 0, len(candidates))
	keptPixels := make([]Pixel, 0, len(candidates))

	for _, c := range candidates {
		p, ok := parseHex(c.Hex)
		if !ok {
			continue
		}
		dup := false
		for _, k := range keptPixels {
			if distance(p, k) < minColorDistance {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, c)
			keptPixels = append(keptPixels, p)
		}
	}
	return kept
}

// filterUsable removes candidates too bright, too dark or too gray to be a
// brand color. Merge order is preserved.
func filterUsable(candidates []Candidate) []Candidate {
	kept := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		p, ok := parseHex(c.Hex)
		if !ok {
			continue
		}
		if brightness(p) > maxBrightness || brightness(p) < minBrightness {
			continue
		}
		if saturation(p) < minSaturation {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// selectColors scores the filtered candidates and assembles the result.
//
// Primary/secondary follow a brand-relevance ranking that rewards strong,
// mid-brightness hues; the palette keeps the filtered (detection) order.
// The asymmetry is deliberate: the palette reflects what is on the page,
// primary/secondary reflect the best brand color.
func selectColors(filtered []Candidate) Result {
	if len(filtered) < 2 {
		return FallbackResult()
	}

	type scored struct {
		hex   string
		score float64
	}
	ranked := make([]scored, 0, len(filtered))
	for _, c := range filtered {
		p, ok := parseHex(c.Hex)
		if !ok {
			continue
		}
		score := saturation(p) * (1 - math.Abs(brightness(p)-128)/128)
		ranked = append(ranked, scored{hex: c.Hex, score: score})
	}
	// Stable sort keeps detection order on score ties, for determinism.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	primary := ranked[0].hex
	secondary := primary
	if len(ranked) > 1 {
		secondary = ranked[1].hex
	}

	n := len(filtered)
	if n > maxPalette {
		n = maxPalette
	}
	palette := make([]string, 0, n)
	for _, c := range filtered[:n] {
		palette = append(palette, c.Hex)
	}

	return Result{Primary: primary, Secondary: secondary, Palette: palette}
}
