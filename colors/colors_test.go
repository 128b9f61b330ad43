package colors

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"reflect"
	"testing"

	"github.com/brandlens/brandlens/config"
)

func testColorConfig() config.ColorConfig {
	return config.ColorConfig{Clusters: 8, Restarts: 10, MaxIterations: 100, Seed: 42}
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestExtract_NearWhiteScreenshotNoMarkupColors(t *testing.T) {
	e := NewExtractor(testColorConfig())
	shot := encodePNG(t, solidImage(300, 300, color.RGBA{254, 254, 254, 255}))

	got := e.Extract(shot, `<html><body><p>no styles here</p></body></html>`)

	if !reflect.DeepEqual(got, FallbackResult()) {
		t.Errorf("Extract = %+v, want black/white fallback", got)
	}
}

func TestExtract_MarkupOnlyPath(t *testing.T) {
	e := NewExtractor(testColorConfig())
	// Screenshot carries no signal; markup provides two distinct colors.
	shot := encodePNG(t, solidImage(300, 300, color.RGBA{255, 255, 255, 255}))
	markup := `<style>.a{color:#2255EE}.b{color:#CC6633}</style>`

	got := e.Extract(shot, markup)

	wantPalette := []string{"#2255EE", "#CC6633"}
	if !reflect.DeepEqual(got.Palette, wantPalette) {
		t.Errorf("palette = %v, want %v", got.Palette, wantPalette)
	}
	if got.Primary == got.Secondary {
		t.Errorf("primary == secondary (%s) with two candidates", got.Primary)
	}
}

func TestExtract_ScreenshotDominantColor(t *testing.T) {
	e := NewExtractor(testColorConfig())

	// Page mockup: white background, a large saturated banner and a
	// smaller accent footer.
	img := solidImage(400, 400, color.RGBA{255, 255, 255, 255})
	for y := 0; y < 120; y++ {
		for x := 0; x < 400; x++ {
			img.SetRGBA(x, y, color.RGBA{34, 85, 238, 255})
		}
	}
	for y := 360; y < 400; y++ {
		for x := 0; x < 400; x++ {
			img.SetRGBA(x, y, color.RGBA{204, 102, 51, 255})
		}
	}
	shot := encodePNG(t, img)

	got := e.Extract(shot, "")

	banner, _ := parseHex("#2255EE")
	primary, ok := parseHex(got.Primary)
	if !ok {
		t.Fatalf("primary %q is not valid hex", got.Primary)
	}
	if d := distance(primary, banner); d > minColorDistance {
		t.Errorf("primary %s is %.1f away from the banner color", got.Primary, d)
	}
}

func TestExtract_UndecodableScreenshotDegradesToMarkup(t *testing.T) {
	e := NewExtractor(testColorConfig())

	got := e.Extract([]byte("not an image"), `<style>.a{color:#2255EE}.b{color:#CC6633}</style>`)

	if got.Primary == "#000000" && got.Secondary == "#FFFFFF" {
		t.Errorf("markup colors should survive an undecodable screenshot, got %+v", got)
	}
	if len(got.Palette) != 2 {
		t.Errorf("palette = %v, want the two markup colors", got.Palette)
	}
}

func TestExtract_ResultAlwaysComplete(t *testing.T) {
	e := NewExtractor(testColorConfig())

	tests := []struct {
		name   string
		shot   []byte
		markup string
	}{
		{"empty inputs", nil, ""},
		{"markup only", nil, `<style>.x{color:#AA2277}</style>`},
		{"garbage screenshot", []byte{0x01, 0x02}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.shot, tt.markup)
			if got.Primary == "" || got.Secondary == "" || len(got.Palette) == 0 {
				t.Errorf("structurally incomplete result: %+v", got)
			}
		})
	}
}
