package ai

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

const (
	defaultBaseURL      = "https://api.openai.com/v1"
	completionsEndpoint = "/chat/completions"

	// Default timeout for completion requests.
	defaultTimeout = 60 * time.Second

	// HTTP status code threshold for server errors.
	serverErrorThreshold = 500
)

// Message is one role/content pair sent to the completion provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request describes one completion call.
type Request struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64 // 0 means provider default
	JSONMode    bool    // request a json_object response
}

// Client is a hand-rolled client for an OpenAI-compatible chat
// completions API. It covers exactly what the application needs:
// one-shot text, one-shot JSON and SSE streaming.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing or proxies).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithModel sets the default model used when a request names none.
func WithModel(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

// New creates a completion client.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   "gpt-3.5-turbo",
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// chatRequest is the wire format of a completion request.
type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    float64         `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	Stream         bool            `json:"stream,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// chatResponse is the wire format of a non-streamed completion response.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *providerErrorBody `json:"error,omitempty"`
}

type providerErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// Complete sends a one-shot completion request and returns the message text.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	body, err := c.do(ctx, req, false)
	if err != nil {
		return "", err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var response chatResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if response.Error != nil {
		return "", &ProviderError{StatusCode: http.StatusOK, Code: response.Error.Code, Message: response.Error.Message}
	}

	if len(response.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	content := strings.TrimSpace(response.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyCompletion
	}

	return content, nil
}

// CompleteJSON sends a JSON-mode completion request and decodes the returned
// object into out. A response that is not valid JSON is an error; callers
// choose whether to fall back or fail (see service.ParseFailurePolicy).
func (c *Client) CompleteJSON(ctx context.Context, req Request, out any) error {
	req.JSONMode = true

	content, err := c.Complete(ctx, req)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("failed to parse structured response: %w", err)
	}
	return nil
}

// do validates and executes a completion request, returning the raw body of
// a 2xx response. Non-2xx responses are converted to *ProviderError.
func (c *Client) do(ctx context.Context, req Request, stream bool) (io.ReadCloser, error) {
	if len(req.Messages) == 0 {
		return nil, ErrNoMessages
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	wire := chatRequest{
		Model:       model,
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Stream:      stream,
	}
	if req.JSONMode {
		wire.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return nil, c.handleError(resp.StatusCode, body)
	}

	return resp.Body, nil
}

// handleError converts an error response body into a *ProviderError.
func (c *Client) handleError(statusCode int, body []byte) error {
	var errResp struct {
		Error providerErrorBody `json:"error"`
	}

	perr := &ProviderError{
		StatusCode: statusCode,
		Retryable:  statusCode == http.StatusTooManyRequests || statusCode >= serverErrorThreshold,
	}

	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error.Message == "" {
		perr.Message = strings.TrimSpace(string(body))
		return perr
	}

	perr.Code = errResp.Error.Code
	perr.Message = errResp.Error.Message
	return perr
}
