package colors

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Pixel is one RGB sample with channels in [0,255]. Channels are float64
// because cluster centroids are channel means.
type Pixel [3]float64

// Source tags where a color candidate came from. Screenshot clusters are
// listed before markup literals so they win ties during dedup.
type Source string

const (
	SourceScreenshot Source = "screenshot-cluster"
	SourceMarkup     Source = "markup-literal"
)

// Candidate is a hex color with provenance.
type Candidate struct {
	Hex    string
	Source Source
}

// parseHex converts "#RRGGBB" to a Pixel. Only 6-digit forms are accepted;
// 3-digit tokens are expanded by the markup scanner before reaching here.
func parseHex(hex string) (Pixel, bool) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) != 6 {
		return Pixel{}, false
	}
	var p Pixel
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return Pixel{}, false
		}
		p[i] = float64(v)
	}
	return p, true
}

// formatHex renders a Pixel as an uppercase "#RRGGBB" string, rounding each
// channel to the nearest integer.
func formatHex(p Pixel) string {
	return fmt.Sprintf("#%02X%02X%02X",
		clampChannel(p[0]), clampChannel(p[1]), clampChannel(p[2]))
}

func clampChannel(v float64) uint8 {
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return uint8(r)
}

// distance is the Euclidean RGB distance, the perceptual-similarity proxy
// used for dedup.
func distance(a, b Pixel) float64 {
	return math.Sqrt(distanceSq(a, b))
}

func distanceSq(a, b Pixel) float64 {
	dr := a[0] - b[0]
	dg := a[1] - b[1]
	db := a[2] - b[2]
	return dr*dr + dg*dg + db*db
}

// brightness is the channel mean, in [0,255].
func brightness(p Pixel) float64 {
	return (p[0] + p[1] + p[2]) / 3
}

// saturation is (max−min)/max over the channels, 0 for pure black.
func saturation(p Pixel) float64 {
	maxC := math.Max(p[0], math.Max(p[1], p[2]))
	minC := math.Min(p[0], math.Min(p[1], p[2]))
	if maxC == 0 {
		return 0
	}
	return (maxC - minC) / maxC
}
