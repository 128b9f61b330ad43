package text

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandlens/brandlens/config"
	"github.com/brandlens/brandlens/models"
)

func TestParseBlocks(t *testing.T) {
	tests := []struct {
		name           string
		raw            string
		wantAbout      string
		wantDisclaimer string
		wantErr        bool
	}{
		{
			name:           "clean JSON",
			raw:            `{"about": "Acme sells widgets.", "disclaimer": "Not investment advice."}`,
			wantAbout:      "Acme sells widgets.",
			wantDisclaimer: "Not investment advice.",
		},
		{
			name:      "null disclaimer",
			raw:       `{"about": "Acme sells widgets.", "disclaimer": null}`,
			wantAbout: "Acme sells widgets.",
		},
		{
			name:      "empty string treated as null",
			raw:       `{"about": "Acme sells widgets.", "disclaimer": "  "}`,
			wantAbout: "Acme sells widgets.",
		},
		{
			name:      "trailing comma repaired",
			raw:       `{"about": "Acme sells widgets.",}`,
			wantAbout: "Acme sells widgets.",
		},
		{
			name:      "fenced output repaired",
			raw:       "```json\n{\"about\": \"Acme sells widgets.\", \"disclaimer\": null}\n```",
			wantAbout: "Acme sells widgets.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks, err := parseBlocks(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			if tt.wantAbout == "" {
				assert.Nil(t, blocks.About)
			} else {
				require.NotNil(t, blocks.About)
				assert.Equal(t, tt.wantAbout, *blocks.About)
			}
			if tt.wantDisclaimer == "" {
				assert.Nil(t, blocks.Disclaimer)
			} else {
				require.NotNil(t, blocks.Disclaimer)
				assert.Equal(t, tt.wantDisclaimer, *blocks.Disclaimer)
			}
		})
	}
}

func TestParseBlocks_TruncatesAbout(t *testing.T) {
	long := strings.Repeat("Acme builds valuation software. ", 20)
	blocks, err := parseBlocks(`{"about": "` + long + `", "disclaimer": null}`)
	require.NoError(t, err)
	require.NotNil(t, blocks.About)
	assert.LessOrEqual(t, len([]rune(*blocks.About)), maxAboutChars)
}

func TestSummarize_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, float64(0), req.Temperature)
		require.NotNil(t, req.ResponseFormat)
		assert.Equal(t, "json_object", req.ResponseFormat.Type)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"about\":\"Acme values businesses.\",\"disclaimer\":null}"}}]}`))
	}))
	defer srv.Close()

	s := newSummarizer(config.SummarizeConfig{
		APIKey:  "test-key",
		Model:   "mistral-small-latest",
		BaseURL: srv.URL,
	})

	blocks, err := s.summarize(context.Background(), "Acme provides valuations.")
	require.NoError(t, err)
	require.NotNil(t, blocks.About)
	assert.Equal(t, "Acme values businesses.", *blocks.About)
	assert.Nil(t, blocks.Disclaimer)
}

func TestSummarize_ErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantCode string
	}{
		{"unauthorized", http.StatusUnauthorized, models.ErrCodeLLMAuthFailure},
		{"forbidden", http.StatusForbidden, models.ErrCodeLLMAuthFailure},
		{"rate limited", http.StatusTooManyRequests, models.ErrCodeLLMRateLimited},
		{"server error", http.StatusInternalServerError, models.ErrCodeLLMFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":{"message":"nope"}}`))
			}))
			defer srv.Close()

			s := newSummarizer(config.SummarizeConfig{APIKey: "k", Model: "m", BaseURL: srv.URL})

			_, err := s.summarize(context.Background(), "content")
			require.Error(t, err)

			var extractErr *models.ExtractError
			require.ErrorAs(t, err, &extractErr)
			assert.Equal(t, tt.wantCode, extractErr.Code)
		})
	}
}

func TestSummarize_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	s := newSummarizer(config.SummarizeConfig{APIKey: "k", Model: "m", BaseURL: srv.URL})

	_, err := s.summarize(context.Background(), "content")
	require.Error(t, err)
}
