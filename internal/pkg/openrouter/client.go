package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrEmptyReply is returned when the upstream answers without any choice
var ErrEmptyReply = errors.New("chat completion returned no choices")

// Message is one role-tagged entry sent to the completions endpoint
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Config holds the OpenRouter connection settings
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// Referer and Title populate the HTTP-Referer and X-Title attribution
	// headers OpenRouter expects.
	Referer string
	Title   string
}

// Client is a minimal chat-completions client
type Client struct {
	config Config
	http   *http.Client
}

// NewClient creates a new Client
func NewClient(config Config) *Client {
	return &Client{
		config: config,
		http:   &http.Client{Timeout: 60 * time.Second},
	}
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the ordered conversation and returns the single reply string
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:    c.config.Model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	if c.config.Referer != "" {
		req.Header.Set("HTTP-Referer", c.config.Referer)
	}
	if c.config.Title != "" {
		req.Header.Set("X-Title", c.config.Title)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("completion request returned status %d: %s", resp.StatusCode, snippet)
	}

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}

	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", ErrEmptyReply
	}

	return out.Choices[0].Message.Content, nil
}
