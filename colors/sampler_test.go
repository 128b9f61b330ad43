package colors

import (
	"image"
	"image/color"
	"testing"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestSamplePixels_DropsNearWhiteAndNearBlack(t *testing.T) {
	tests := []struct {
		name string
		fill color.RGBA
	}{
		{"pure white", color.RGBA{255, 255, 255, 255}},
		{"near white", color.RGBA{252, 252, 252, 255}},
		{"pure black", color.RGBA{0, 0, 0, 255}},
		{"near black", color.RGBA{9, 9, 9, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := samplePixels(solidImage(200, 200, tt.fill)); got != nil {
				t.Errorf("expected nil for %s image, got %d samples", tt.name, len(got))
			}
		})
	}
}

func TestSamplePixels_KeepsBrandColors(t *testing.T) {
	img := solidImage(200, 200, color.RGBA{30, 90, 200, 255})

	samples := samplePixels(img)
	if len(samples) < minSamples {
		t.Fatalf("expected at least %d samples, got %d", minSamples, len(samples))
	}
	for i, s := range samples[:10] {
		if distance(s, Pixel{30, 90, 200}) > 2 {
			t.Errorf("sample %d = %v, want ≈ {30 90 200}", i, s)
		}
	}
}

func TestSamplePixels_TooFewUsablePixels(t *testing.T) {
	// A 9x9 colored block inside a white page: 81 usable pixels < 100.
	img := solidImage(120, 120, color.RGBA{255, 255, 255, 255})
	for y := 0; y < 9; y++ {
		for x := 0; x < 9; x++ {
			img.SetRGBA(x, y, color.RGBA{200, 40, 40, 255})
		}
	}

	if got := samplePixels(img); got != nil {
		t.Errorf("expected nil below the %d-sample floor, got %d samples", minSamples, len(got))
	}
}

func TestThumbnail_BoundsLongerEdge(t *testing.T) {
	tests := []struct {
		name          string
		w, h          int
		wantW, wantH  int
	}{
		{"wide image scaled", 1600, 800, 400, 200},
		{"tall image scaled", 300, 1200, 100, 400},
		{"small image untouched", 320, 200, 320, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			thumb := thumbnail(solidImage(tt.w, tt.h, color.RGBA{10, 120, 70, 255}))
			b := thumb.Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("thumbnail size = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}
