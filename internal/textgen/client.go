package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"moviemind/internal/config"
)

var (
	// ErrNotConfigured is returned when no inference token is set.
	ErrNotConfigured = errors.New("text generation not configured")
	// ErrEmptyResponse is returned when the model produced no text.
	ErrEmptyResponse = errors.New("text generation returned no text")
)

// Client calls a hosted text generation model.
type Client struct {
	token   string
	model   string
	baseURL string
	http    *http.Client
}

// NewClient creates a client. A nil httpClient gets a 60 second timeout,
// generation is slower than metadata lookups.
func NewClient(cfg config.TextGenConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{
		token:   cfg.Token,
		model:   cfg.Model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
	}
}

func (c *Client) Configured() bool {
	return c.token != ""
}

type generateRequest struct {
	Inputs string `json:"inputs"`
}

type generation struct {
	GeneratedText string `json:"generated_text"`
}

// Generate sends the prompt and returns the first generated text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(generateRequest{Inputs: prompt})
	if err != nil {
		return "", fmt.Errorf("encode prompt: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("text generation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		slog.Warn("text generation returned non-success status", "model", c.model, "status", resp.StatusCode)
		return "", fmt.Errorf("text generation returned %d: %s", resp.StatusCode, string(snippet))
	}

	var out []generation
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode generation: %w", err)
	}
	if len(out) == 0 || out[0].GeneratedText == "" {
		return "", ErrEmptyResponse
	}
	return out[0].GeneratedText, nil
}
