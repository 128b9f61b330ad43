package colors

import (
	"image"

	"golang.org/x/image/draw"
)

const (
	// maxThumbEdge bounds the longer screenshot edge before sampling,
	// keeping the clustering cost independent of viewport size.
	maxThumbEdge = 400

	// nearWhiteSum and nearBlackSum drop background/noise pixels by
	// channel sum: page chrome is mostly near-white, shadows near-black,
	// and neither is brand signal.
	nearWhiteSum = 750
	nearBlackSum = 30

	// minSamples is the floor below which the screenshot is considered
	// to carry no usable color signal.
	minSamples = 100
)

// samplePixels reduces a screenshot to a bounded, noise-filtered set of RGB
// samples. It returns nil when fewer than minSamples survive, signalling the
// caller to rely on markup colors only.
func samplePixels(img image.Image) []Pixel {
	thumb := thumbnail(img)
	bounds := thumb.Bounds()

	samples := make([]Pixel, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := thumb.Pix[(y-bounds.Min.Y)*thumb.Stride:]
		for x := 0; x < bounds.Dx(); x++ {
			r := float64(row[x*4])
			g := float64(row[x*4+1])
			b := float64(row[x*4+2])

			sum := r + g + b
			if sum > nearWhiteSum || sum < nearBlackSum {
				continue
			}
			samples = append(samples, Pixel{r, g, b})
		}
	}

	if len(samples) < minSamples {
		return nil
	}
	return samples
}

// thumbnail scales the image so its longer edge is at most maxThumbEdge,
// preserving aspect ratio. Images already small enough are only converted
// to RGBA for uniform pixel access.
func thumbnail(img image.Image) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	longer := w
	if h > longer {
		longer = h
	}
	if longer > maxThumbEdge {
		scale := float64(maxThumbEdge) / float64(longer)
		w = int(float64(w) * scale)
		h = int(float64(h) * scale)
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
