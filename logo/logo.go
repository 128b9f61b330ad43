// Package logo locates and crops the brand logo from a page snapshot using
// an external object-detection collaborator, enforcing the acceptance
// contract (confidence, box size) on the caller side.
package logo

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"net/http"

	_ "golang.org/x/image/webp"

	"github.com/brandlens/brandlens/config"
	"github.com/brandlens/brandlens/models"
	"github.com/brandlens/brandlens/renderer"
)

// BoundingBox is a pixel-space detection box.
type BoundingBox struct {
	X1, Y1, X2, Y2 int
}

func (b BoundingBox) Width() int  { return b.X2 - b.X1 }
func (b BoundingBox) Height() int { return b.Y2 - b.Y1 }
func (b BoundingBox) Area() int   { return b.Width() * b.Height() }

// Detection is one detector hit. A nil Box means nothing was found.
type Detection struct {
	Box        *BoundingBox
	Confidence float64
}

// Detector finds a logo bounding box in a screenshot. The interface lives on
// the consumer side; adapters (Cloud Vision) implement it.
type Detector interface {
	DetectLogo(ctx context.Context, screenshot []byte) (Detection, error)
}

// Result is the logo task output. Both fields are nullable: a page without a
// detectable logo is a normal outcome, not an error.
type Result struct {
	// Logo is a data URL of the cropped logo region.
	Logo *string

	// LogoRaw is the original logo image URL from the page markup.
	LogoRaw *string
}

// Extractor runs logo detection against a snapshot and assembles the result.
type Extractor struct {
	detector Detector
	fetcher  *imageFetcher
	cfg      config.LogoConfig
}

// NewExtractor creates a logo Extractor. detector may be nil, in which case
// every extraction reports the detector as unavailable.
func NewExtractor(detector Detector, cfg config.LogoConfig) *Extractor {
	return &Extractor{
		detector: detector,
		fetcher:  newImageFetcher(),
		cfg:      cfg,
	}
}

// Ready reports whether a detector is wired in.
func (e *Extractor) Ready() bool {
	return e.detector != nil
}

// Extract detects, validates and crops the logo region, and looks up the
// original logo URL in the rendered markup. Detection failures are returned
// as errors for the orchestrator to absorb; a clean "no logo" is a zero
// Result with a nil error.
func (e *Extractor) Extract(ctx context.Context, snap *renderer.Snapshot) (Result, error) {
	if e.detector == nil {
		return Result{}, models.NewExtractError(
			models.ErrCodeDetection, "logo detector not configured", nil)
	}

	img, _, err := image.Decode(bytes.NewReader(snap.Screenshot))
	if err != nil {
		return Result{}, models.NewExtractError(
			models.ErrCodeValidation, "screenshot is not a decodable image", err)
	}

	det, err := e.detector.DetectLogo(ctx, snap.Screenshot)
	if err != nil {
		return Result{}, models.NewExtractError(
			models.ErrCodeDetection, "logo detection failed", err)
	}

	box, ok := e.acceptDetection(det, img.Bounds())
	if !ok {
		return Result{}, nil
	}

	logoRaw := findLogoURL(snap.HTML, snap.FinalURL)

	logoDataURL := cropToDataURL(img, box)
	if logoDataURL == nil && logoRaw != nil {
		// Crop failed but we know the source image: fetch it directly.
		logoDataURL = e.fetchAsDataURL(ctx, *logoRaw)
	}

	return Result{Logo: logoDataURL, LogoRaw: logoRaw}, nil
}

// acceptDetection applies the detector acceptance contract: confidence above
// the floor, box no larger than half the screenshot, edges of a plausible
// logo size. Returns the box clamped to the image bounds.
func (e *Extractor) acceptDetection(det Detection, bounds image.Rectangle) (BoundingBox, bool) {
	if det.Box == nil || det.Confidence <= e.cfg.MinConfidence {
		return BoundingBox{}, false
	}

	box := clampBox(*det.Box, bounds)

	imgArea := bounds.Dx() * bounds.Dy()
	if imgArea <= 0 {
		return BoundingBox{}, false
	}
	if float64(box.Area()) > float64(imgArea)*e.cfg.MaxAreaFraction {
		slog.Debug("logo: rejecting oversized box",
			"boxArea", box.Area(), "imageArea", imgArea)
		return BoundingBox{}, false
	}
	if box.Width() < e.cfg.MinEdgePx || box.Height() < e.cfg.MinEdgePx {
		slog.Debug("logo: rejecting undersized box",
			"width", box.Width(), "height", box.Height())
		return BoundingBox{}, false
	}

	return box, true
}

func clampBox(b BoundingBox, bounds image.Rectangle) BoundingBox {
	if b.X1 < bounds.Min.X {
		b.X1 = bounds.Min.X
	}
	if b.Y1 < bounds.Min.Y {
		b.Y1 = bounds.Min.Y
	}
	if b.X2 > bounds.Max.X {
		b.X2 = bounds.Max.X
	}
	if b.Y2 > bounds.Max.Y {
		b.Y2 = bounds.Max.Y
	}
	return b
}

// subImager is satisfied by every stdlib raster image type.
type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// cropToDataURL crops the box out of the screenshot and encodes it as a
// data:image/png;base64 URL. Returns nil when the crop cannot be produced.
func cropToDataURL(img image.Image, box BoundingBox) *string {
	si, ok := img.(subImager)
	if !ok {
		return nil
	}

	rect := image.Rect(box.X1, box.Y1, box.X2, box.Y2)
	if rect.Empty() {
		return nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, si.SubImage(rect)); err != nil {
		slog.Warn("logo: crop encode failed", "error", err)
		return nil
	}

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
	return &dataURL
}

// fetchAsDataURL downloads the raw logo image and wraps it in a data URL,
// sniffing the content type from the bytes.
func (e *Extractor) fetchAsDataURL(ctx context.Context, rawURL string) *string {
	body, err := e.fetcher.fetch(ctx, rawURL)
	if err != nil {
		slog.Warn("logo: raw image fetch failed", "url", rawURL, "error", err)
		return nil
	}

	contentType := http.DetectContentType(body)
	dataURL := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(body)
	return &dataURL
}
