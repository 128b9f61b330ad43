package models

// BrandColors is the color extraction result. It is always populated:
// when fewer than two usable candidates survive filtering, the fixed
// black/white fallback is returned instead of nulls.
type BrandColors struct {
	Primary   string   `json:"primary"`
	Secondary string   `json:"secondary"`
	Palette   []string `json:"palette"`
}

// ExtractResponse is the response for POST /extract.
//
// Logo, LogoRaw, About and Disclaimer are nullable per their contracts;
// Colors is never null.
type ExtractResponse struct {
	Success bool `json:"success"`

	// Logo is a data:image/png;base64 URL of the cropped logo region.
	Logo *string `json:"logo"`

	// LogoRaw is the original logo image URL found in the page markup.
	LogoRaw *string `json:"logoRaw"`

	Colors BrandColors `json:"colors"`

	// About is a short company description (≤300 chars).
	About *string `json:"about"`

	// Disclaimer is legal/small-print text (≤1000 chars).
	Disclaimer *string `json:"disclaimer"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// RenderMs is the time spent navigating and capturing the snapshot.
	RenderMs int64 `json:"render_ms"`

	// ExtractMs is the time spent in the concurrent extraction fan-out.
	ExtractMs int64 `json:"extract_ms"`
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status          string    `json:"status"` // "healthy" or "degraded"
	BrowserReady    bool      `json:"browser_ready"`
	DetectorReady   bool      `json:"detector_ready"`
	SummarizerReady bool      `json:"summarizer_ready"`
	Uptime          string    `json:"uptime"`
	PoolStats       PoolStats `json:"pool_stats"`
	Version         string    `json:"version"`
}

// PoolStats reports the state of the browser page pool.
type PoolStats struct {
	MaxPages    int `json:"max_pages"`
	ActivePages int `json:"active_pages"`
}
