package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"minidxo/internal/consultation"
)

const (
	DefaultGatewayURL  = "https://ai.gateway.lovable.dev"
	DefaultModel       = "openai/gpt-5"
	DefaultTemperature = 0.7
)

// GatewayClient forwards a transcript to the hosted chat-completion gateway.
type GatewayClient interface {
	Complete(ctx context.Context, transcript []consultation.Turn) (string, error)
}

type client struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	httpClient  *http.Client
}

type Option func(*client)

func WithBaseURL(u string) Option {
	return func(c *client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithModel(model string) Option {
	return func(c *client) { c.model = model }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) { c.httpClient = hc }
}

func NewGatewayClient(apiKey string, opts ...Option) GatewayClient {
	c := &client{
		apiKey:      apiKey,
		baseURL:     DefaultGatewayURL,
		model:       DefaultModel,
		temperature: DefaultTemperature,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type completionRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

type completionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete returns the assistant text of the first choice unmodified.
func (c *client) Complete(ctx context.Context, transcript []consultation.Turn) (string, error) {
	if c.apiKey == "" {
		return "", consultation.ErrNotConfigured
	}

	messages := make([]chatMessage, 0, len(transcript)+1)
	messages = append(messages, chatMessage{Role: "system", Content: SystemPrompt})
	for _, t := range transcript {
		messages = append(messages, chatMessage{Role: string(t.Role), Content: t.Content})
	}

	jsonBody, err := json.Marshal(completionRequest{
		Model:          c.model,
		Messages:       messages,
		Temperature:    c.temperature,
		ResponseFormat: responseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return "", consultation.ErrRateLimited
	case http.StatusPaymentRequired:
		return "", consultation.ErrQuotaExceeded
	default:
		body, _ := io.ReadAll(resp.Body)
		return "", &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode gateway response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("gateway returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}

// StatusError is a gateway failure other than rate limiting or quota.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("AI Gateway error: %d", e.Code)
}
