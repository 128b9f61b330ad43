package renderer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brandlens/brandlens/config"
	"github.com/brandlens/brandlens/models"
)

func TestClampTimeout(t *testing.T) {
	r := &Renderer{rendererCfg: config.RendererConfig{
		DefaultTimeout: 30 * time.Second,
		MaxTimeout:     120 * time.Second,
	}}

	tests := []struct {
		name    string
		seconds int
		want    time.Duration
	}{
		{"zero uses default", 0, 30 * time.Second},
		{"negative uses default", -5, 30 * time.Second},
		{"within bounds", 60, 60 * time.Second},
		{"above max is clamped", 600, 120 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.clampTimeout(tt.seconds); got != tt.want {
				t.Errorf("clampTimeout(%d) = %v, want %v", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"deadline exceeded", context.DeadlineExceeded, models.ErrCodeTimeout},
		{"canceled", context.Canceled, models.ErrCodeTimeout},
		{"wrapped deadline", errors.Join(errors.New("navigate"), context.DeadlineExceeded), models.ErrCodeTimeout},
		{"other", errors.New("net::ERR_NAME_NOT_RESOLVED"), models.ErrCodeNavigation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := categorizeError(tt.err, "render failed")
			if got.Code != tt.wantCode {
				t.Errorf("categorizeError(%v).Code = %q, want %q", tt.err, got.Code, tt.wantCode)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("categorizeError(%v) lost the wrapped error", tt.err)
			}
		})
	}
}
