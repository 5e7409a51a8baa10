// Package ollama provides a poster reader backed by a local Ollama vision model.
// It sends the instruction and the image in a single chat turn and returns the
// model's raw reply.
package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/ewilliams-labs/lineup/internal/core/ports"
)

const (
	defaultBaseURL = "http://localhost:11434"
	defaultModel   = "llava:13b"
)

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

var _ ports.PosterReader = (*Client)(nil)

type chatMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   string        `json:"format,omitempty"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Error   string      `json:"error,omitempty"`
}

type options struct {
	retryMax int
	timeout  time.Duration
}

// Option customises the HTTP behaviour of a Client.
type Option func(*options)

// WithRetryMax sets how many times a failed call is retried.
func WithRetryMax(n int) Option {
	return func(o *options) { o.retryMax = n }
}

// WithTimeout bounds a single attempt.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

func NewClient(baseURL, model string, opts ...Option) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}

	o := options{retryMax: 3, timeout: 120 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = o.retryMax
	retryClient.Logger = nil
	retryClient.HTTPClient.Timeout = o.timeout

	return &Client{
		baseURL:    baseURL,
		model:      model,
		httpClient: retryClient.StandardClient(),
	}
}

// ReadPoster sends the instruction with the base64 image attached. mimeType is
// not part of the Ollama chat API; the model sniffs the image bytes.
func (c *Client) ReadPoster(ctx context.Context, instruction string, image []byte, mimeType string) (string, error) {
	payload := chatRequest{
		Model:  c.model,
		Stream: false,
		Format: "json",
		Messages: []chatMessage{
			{
				Role:    "user",
				Content: instruction,
				Images:  []string{base64.StdEncoding.EncodeToString(image)},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("ollama: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ollama: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("ollama: unexpected status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("ollama: decode response: %w", err)
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("ollama: %s", parsed.Error)
	}

	if strings.TrimSpace(parsed.Message.Content) == "" {
		return "", fmt.Errorf("ollama: empty response")
	}

	return parsed.Message.Content, nil
}
