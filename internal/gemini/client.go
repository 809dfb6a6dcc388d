// Package gemini wraps the Gemini generateContent REST API. The client owns
// the retry and backoff policy and never returns an error to callers:
// failures are encoded as sentinel reply strings so the chat experience
// degrades gracefully instead of breaking the request.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// Sentinel replies returned instead of errors. Each failure class gets its
// own message so the user-facing degradation matches the likely recovery
// time.
const (
	SentinelNoKey       = "[Gemini API key not configured. Set GOOGLE_API_KEY in .env]"
	SentinelRateLimited = "[Rate limit exceeded. Please wait a moment and try again.]"
	SentinelNoResponse  = "[No response from Gemini. Please try again.]"
	SentinelNoContent   = "[No text content from Gemini. Please try again.]"
	SentinelTimeout     = "[Request timeout. Please try again with a shorter document.]"
	SentinelNetwork     = "[Network error. Please wait a moment and try again.]"
	SentinelExhausted   = "[Failed after multiple attempts. Please wait a few minutes and try again.]"
)

// IsSentinel reports whether a generation result is a failure placeholder
// rather than model output.
func IsSentinel(s string) bool {
	return strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]")
}

// Config configures the client. Zero values fall back to defaults.
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string        // defaults to the public generativelanguage endpoint
	Timeout    time.Duration // per-attempt request timeout, default 90s
	MaxRetries int           // attempts per Generate call, default 3

	// BackoffUnit scales the exponential backoff between attempts.
	// Default one second; tests shrink it.
	BackoffUnit time.Duration
}

func (c *Config) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 90 * time.Second
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.BackoffUnit <= 0 {
		c.BackoffUnit = time.Second
	}
}

// Client calls the Gemini API. Safe for concurrent use; retry state is local
// to each Generate call.
type Client struct {
	cfg   Config
	httpc *http.Client
}

// New creates a Client from cfg.
func New(cfg Config) *Client {
	cfg.defaults()
	return &Client{
		cfg:   cfg,
		httpc: &http.Client{},
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string { return c.cfg.Model }

// wire format for generateContent

type generateRequest struct {
	Contents         []reqContent     `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
	SafetySettings   []safetySetting  `json:"safetySettings"`
}

type reqContent struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func newGenerateRequest(prompt string, temperature float64) generateRequest {
	return generateRequest{
		Contents: []reqContent{{
			Role:  "user",
			Parts: []part{{Text: prompt}},
		}},
		GenerationConfig: generationConfig{
			Temperature:     temperature,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 8192,
		},
		SafetySettings: []safetySetting{
			{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_NONE"},
			{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_NONE"},
			{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_NONE"},
			{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_NONE"},
		},
	}
}

// Generate produces text for prompt. It blocks through up to MaxRetries
// sequential attempts and always returns a usable string; callers can check
// IsSentinel to distinguish model output from a failure placeholder.
func (c *Client) Generate(ctx context.Context, prompt string, temperature float64) string {
	if c.cfg.APIKey == "" {
		return SentinelNoKey
	}

	body, err := json.Marshal(newGenerateRequest(prompt, temperature))
	if err != nil {
		return fmt.Sprintf("[Error: %v. Please try again.]", err)
	}
	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.cfg.BaseURL, c.cfg.Model, c.cfg.APIKey)

	for attempt := 0; attempt < c.cfg.MaxRetries; attempt++ {
		text, sentinel, factor := c.doAttempt(ctx, url, body)
		if sentinel == "" {
			return text
		}
		if attempt == c.cfg.MaxRetries-1 {
			return sentinel
		}
		if !c.backoff(ctx, attempt, factor) {
			// caller gave up mid-backoff
			return sentinel
		}
	}

	return SentinelExhausted
}

// doAttempt makes a single request. On success sentinel is empty and text
// holds the trimmed first part of the first candidate. On failure it returns
// the sentinel for the failure class plus the backoff multiplier to apply
// before the next attempt (rate limits and network failures wait twice as
// long as the rest).
func (c *Client) doAttempt(ctx context.Context, url string, body []byte) (text, sentinel string, factor int) {
	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Sprintf("[Error: %v. Please try again.]", err), 1
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", SentinelTimeout, 1
		}
		// the transport error may embed the key-bearing URL, so it is
		// never included in the reply
		return "", SentinelNetwork, 2
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", SentinelRateLimited, 2
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", SentinelNetwork, 2
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", fmt.Sprintf("[Error: %v. Please try again.]", err), 1
	}
	if len(gr.Candidates) == 0 {
		return "", SentinelNoResponse, 1
	}
	parts := gr.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", SentinelNoContent, 1
	}

	return strings.TrimSpace(parts[0].Text), "", 0
}

// backoff sleeps 2^attempt * factor backoff units. It returns false when ctx
// is cancelled before the wait completes.
func (c *Client) backoff(ctx context.Context, attempt, factor int) bool {
	delay := time.Duration(1<<uint(attempt)) * time.Duration(factor) * c.cfg.BackoffUnit
	select {
	case <-time.After(delay):
		return true
	case <-ctx.Done():
		return false
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// ValidateKey performs one cheap live call so /health can report whether the
// configured credential works.
func (c *Client) ValidateKey(ctx context.Context) bool {
	result := c.Generate(ctx, "Respond with just the word 'OK' if you can read this.", 0.1)
	return result != "" && !IsSentinel(result)
}
