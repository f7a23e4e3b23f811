package simplify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client calls an OpenRouter-compatible chat completions API to
// simplify legal text.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	maxRetries  int
	retryDelay  time.Duration
}

// Config holds simplifier client configuration.
type Config struct {
	APIKey      string
	Model       string // e.g. "openai/gpt-4"
	BaseURL     string // Default: https://openrouter.ai/api/v1
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	MaxRetries  int
	RetryDelay  time.Duration
}

// NewClient creates a new simplifier client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}

	if cfg.Model == "" {
		cfg.Model = "openai/gpt-4"
	}

	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4000
	}

	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.3
	}

	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	} else if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}

	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		maxRetries:  cfg.MaxRetries,
		retryDelay:  cfg.RetryDelay,
	}, nil
}

// chatRequest represents the API request structure.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

// chatMessage represents a chat message.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse represents the API response structure.
type chatResponse struct {
	ID      string       `json:"id"`
	Choices []chatChoice `json:"choices"`
	Error   *apiError    `json:"error,omitempty"`
}

// chatChoice represents a single completion choice.
type chatChoice struct {
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// apiError represents an API error payload.
type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// summaryPayload is the JSON object the model is asked to return.
// ConfidenceScore is a pointer so an omitted score can be detected
// and defaulted rather than read as zero.
type summaryPayload struct {
	SimplifiedText  string      `json:"simplified_text"`
	KeyPoints       []string    `json:"key_points"`
	WhatItMeans     string      `json:"what_it_means"`
	RedFlags        []string    `json:"red_flags"`
	ConfidenceScore *float64    `json:"confidence_score"`
	LegalTermsUsed  []TermUsage `json:"legal_terms_used"`
}

// defaultConfidence is assumed when the model returns a summary
// without a confidence score.
const defaultConfidence = 0.7

// Simplify sends the text to the model and parses the structured summary.
func (c *Client) Simplify(ctx context.Context, req Request) (*Summary, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("text is required")
	}

	level := req.ComplexityLevel
	if level == "" {
		level = LevelHighSchool
	}

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: buildSystemPrompt(level, req.DocumentType)},
			{Role: "user", Content: buildUserPrompt(req.Text, req.Context)},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.sendWithRetry(ctx, jsonBody)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp chatResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != nil {
			return nil, fmt.Errorf("API error: %s (type: %s)", errResp.Error.Message, errResp.Error.Type)
		}
		return nil, fmt.Errorf("API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if chatResp.Error != nil {
		return nil, fmt.Errorf("API error: %s (type: %s)", chatResp.Error.Message, chatResp.Error.Type)
	}

	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	payload, err := parseSummaryJSON(chatResp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("parse summary: %w", err)
	}

	confidence := defaultConfidence
	if payload.ConfidenceScore != nil {
		confidence = *payload.ConfidenceScore
	}

	return &Summary{
		SimplifiedText:  payload.SimplifiedText,
		KeyPoints:       payload.KeyPoints,
		WhatItMeans:     payload.WhatItMeans,
		RedFlags:        payload.RedFlags,
		ConfidenceScore: confidence,
		LegalTermsUsed:  payload.LegalTermsUsed,
		ModelUsed:       c.model,
		GeneratedAt:     time.Now().UTC(),
	}, nil
}

// sendWithRetry posts the body, retrying transient failures (network
// errors, 429, 5xx) with exponential backoff. Context cancellation
// aborts the wait between attempts.
func (c *Client) sendWithRetry(ctx context.Context, body []byte) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay << uint(attempt-1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("HTTP-Referer", "https://github.com/clauselens/clauselens")
		req.Header.Set("X-Title", "ClauseLens")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("API returned status %d", resp.StatusCode)
			continue
		}

		return resp, nil
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

// parseSummaryJSON extracts and parses the JSON object from the model
// response, tolerating code fences and surrounding prose.
func parseSummaryJSON(content string) (*summaryPayload, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	var payload summaryPayload
	if err := json.Unmarshal([]byte(content[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("invalid summary JSON: %w", err)
	}

	return &payload, nil
}

// Model returns the model being used.
func (c *Client) Model() string {
	return c.model
}

// Mock provides a scripted simplifier for testing.
type Mock struct {
	Response *Summary
	Err      error
}

// Simplify returns the scripted response or error. With neither set it
// returns a deterministic canned summary.
func (m *Mock) Simplify(ctx context.Context, req Request) (*Summary, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Response != nil {
		out := *m.Response
		return &out, nil
	}
	return &Summary{
		SimplifiedText:  "This document sets out terms in plain language.",
		KeyPoints:       []string{"Scripted summary"},
		WhatItMeans:     "No external model was consulted.",
		RedFlags:        []string{},
		ConfidenceScore: 0.9,
		ModelUsed:       "mock",
		GeneratedAt:     time.Now().UTC(),
	}, nil
}

// Ensure implementations satisfy interface.
var (
	_ Simplifier = (*Client)(nil)
	_ Simplifier = (*Mock)(nil)
)
