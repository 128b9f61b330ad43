package logo

import (
	"context"
	"fmt"

	gvision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
)

// VisionDetector detects logos with the Google Cloud Vision API.
type VisionDetector struct {
	client *gvision.ImageAnnotatorClient
}

var _ Detector = (*VisionDetector)(nil)

// NewVisionDetector builds a detector using Application Default Credentials.
func NewVisionDetector(ctx context.Context) (*VisionDetector, error) {
	client, err := gvision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	return &VisionDetector{client: client}, nil
}

// Close releases the Vision API client.
func (v *VisionDetector) Close() error {
	return v.client.Close()
}

// DetectLogo runs LOGO_DETECTION and returns the highest-scored annotation
// as a bounding box + confidence. A response without annotations is a clean
// "nothing found", not an error.
func (v *VisionDetector) DetectLogo(ctx context.Context, screenshot []byte) (Detection, error) {
	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: screenshot},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_LOGO_DETECTION, MaxResults: 5},
				},
			},
		},
	}

	resp, err := v.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return Detection{}, fmt.Errorf("vision API request failed: %w", err)
	}

	if len(resp.Responses) == 0 {
		return Detection{}, nil
	}
	if respErr := resp.Responses[0].Error; respErr != nil {
		return Detection{}, fmt.Errorf("vision API error: %s", respErr.Message)
	}

	var best Detection
	for _, ann := range resp.Responses[0].LogoAnnotations {
		if float64(ann.Score) <= best.Confidence {
			continue
		}
		box, ok := polyToBox(ann.BoundingPoly)
		if !ok {
			continue
		}
		best = Detection{Box: &box, Confidence: float64(ann.Score)}
	}

	return best, nil
}

// polyToBox converts a bounding polygon to its axis-aligned envelope.
func polyToBox(poly *visionpb.BoundingPoly) (BoundingBox, bool) {
	if poly == nil || len(poly.Vertices) == 0 {
		return BoundingBox{}, false
	}

	box := BoundingBox{
		X1: int(poly.Vertices[0].X), Y1: int(poly.Vertices[0].Y),
		X2: int(poly.Vertices[0].X), Y2: int(poly.Vertices[0].Y),
	}
	for _, v := range poly.Vertices[1:] {
		if int(v.X) < box.X1 {
			box.X1 = int(v.X)
		}
		if int(v.Y) < box.Y1 {
			box.Y1 = int(v.Y)
		}
		if int(v.X) > box.X2 {
			box.X2 = int(v.X)
		}
		if int(v.Y) > box.Y2 {
			box.Y2 = int(v.Y)
		}
	}
	return box, true
}
