package models

// ExtractRequest is the request body for POST /extract.
type ExtractRequest struct {
	// URL is the page to render and extract brand signals from.
	URL string `json:"url" binding:"required,url"`

	// Timeout is the rendering timeout in seconds. Zero means the server
	// default; values above the configured maximum are clamped.
	Timeout int `json:"timeout,omitempty"`
}

// Defaults normalizes optional fields.
func (r *ExtractRequest) Defaults() {
	if r.Timeout < 0 {
		r.Timeout = 0
	}
}
