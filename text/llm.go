package text

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kaptinlin/jsonrepair"

	"github.com/brandlens/brandlens/config"
	"github.com/brandlens/brandlens/models"
)

// summarizePrompt instructs the model to return exactly the two text blocks
// as a JSON object. response_format json_object makes fenced or prose output
// unlikely; jsonrepair covers the rest.
const summarizePrompt = `You are a brand analyst. From the provided website content, extract:

1. "about": a 1-3 sentence plain-language description of what this company or organization does. Write it in third person. Do not copy navigation text or slogans verbatim unless they describe the business.
2. "disclaimer": the legal, regulatory or compliance disclaimer text if one is present in the content (e.g. securities disclosures, "not investment advice" notices). Copy it faithfully. If there is none, use null.

Rules:
- Return ONLY a valid JSON object: {"about": string or null, "disclaimer": string or null}.
- No markdown fences, no explanation.
- Use null for anything you cannot find in the content.`

// summarizer is a lightweight OpenAI-compatible chat client. It uses net/http
// directly, the same way any provider with a /chat/completions endpoint is
// driven.
type summarizer struct {
	httpClient *http.Client
	cfg        config.SummarizeConfig
}

func newSummarizer(cfg config.SummarizeConfig) *summarizer {
	return &summarizer{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cfg:        cfg,
	}
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// summarize sends the cleaned content to the model and returns the parsed
// text blocks. Any failure — transport, auth, malformed output — comes back
// as an error so the caller can fall through to heuristics.
func (s *summarizer) summarize(ctx context.Context, content string) (Blocks, error) {
	reqBody := chatRequest{
		Model: s.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: summarizePrompt},
			{Role: "user", Content: content},
		},
		Temperature:    0,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return Blocks{}, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := strings.TrimRight(s.cfg.BaseURL, "/") + "/chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return Blocks{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Blocks{}, models.NewExtractError(models.ErrCodeLLMFailure, "LLM request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Blocks{}, models.NewExtractError(models.ErrCodeLLMFailure, "failed to read LLM response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Blocks{}, classifyLLMError(resp.StatusCode, respBody)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return Blocks{}, models.NewExtractError(models.ErrCodeLLMFailure, "failed to parse LLM response", err)
	}
	if len(chatResp.Choices) == 0 {
		return Blocks{}, models.NewExtractError(models.ErrCodeLLMFailure, "LLM returned no choices", nil)
	}

	return parseBlocks(chatResp.Choices[0].Message.Content)
}

// parseBlocks decodes the model output into Blocks, repairing almost-JSON
// (fences, trailing commas, unquoted keys) before giving up.
func parseBlocks(raw string) (Blocks, error) {
	raw = trimFences(raw)

	var out struct {
		About      *string `json:"about"`
		Disclaimer *string `json:"disclaimer"`
	}

	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(raw)
		if repairErr != nil {
			return Blocks{}, models.NewExtractError(
				models.ErrCodeLLMFailure, "LLM returned unrepairable JSON", repairErr)
		}
		if err := json.Unmarshal([]byte(repaired), &out); err != nil {
			return Blocks{}, models.NewExtractError(
				models.ErrCodeLLMFailure, "LLM output does not match expected shape", err)
		}
	}

	return Blocks{
		About:      clampBlock(out.About, maxAboutChars),
		Disclaimer: clampBlock(out.Disclaimer, maxDisclaimerChars),
	}, nil
}

// trimFences removes a surrounding markdown code fence, with or without a
// language tag. Some providers emit one despite response_format.
func trimFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.ContainsAny(s[:i], "{[") {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// classifyLLMError maps HTTP status codes to error codes so auth problems and
// rate limits are distinguishable in the logs from generic provider failures.
func classifyLLMError(statusCode int, body []byte) *models.ExtractError {
	var errResp chatErrorResponse
	msg := "LLM API error"
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		msg = errResp.Error.Message
	}

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return models.NewExtractError(models.ErrCodeLLMAuthFailure, msg, nil)
	case statusCode == http.StatusTooManyRequests:
		return models.NewExtractError(models.ErrCodeLLMRateLimited, msg, nil)
	default:
		return models.NewExtractError(models.ErrCodeLLMFailure,
			fmt.Sprintf("LLM API returned %d: %s", statusCode, msg), nil)
	}
}
