package openrouter

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"resume_optimizer/internal/feature/resumeanalysis/usecase"
)

// maxErrorBody limits how much of an error response is kept in StatusError.
const maxErrorBody = 256

// ErrEmptyResponse is returned when the completion carries no message content.
var ErrEmptyResponse = errors.New("openrouter returned an empty response")

// StatusError is returned for HTTP responses with status >= 400.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("openrouter http %d: %s", e.StatusCode, e.Body)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// ClientFactory creates OpenRouter clients bound to a per-request API key.
type ClientFactory struct {
	cfg        Config
	httpClient *http.Client
}

// Compile-time check to ensure ClientFactory implements usecase.ClientFactory.
var _ usecase.ClientFactory = (*ClientFactory)(nil)

// NewClientFactory creates a new ClientFactory.
func NewClientFactory(cfg Config, httpClient *http.Client) *ClientFactory {
	return &ClientFactory{cfg: cfg, httpClient: httpClient}
}

// NewClient returns a client that authenticates with apiKey.
func (f *ClientFactory) NewClient(ctx context.Context, apiKey string) (usecase.ModelClient, error) {
	rc := resty.NewWithClient(f.httpClient).
		SetBaseURL(f.cfg.BaseURL).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")
	return &Client{rc: rc}, nil
}

// Client sends prompts to the OpenRouter chat completions endpoint.
type Client struct {
	rc *resty.Client
}

// Compile-time check to ensure Client implements usecase.ModelClient.
var _ usecase.ModelClient = (*Client)(nil)

// Generate runs prompt as a single user message and returns the first choice's content.
func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	resp, err := c.rc.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model:    model,
			Messages: []chatMessage{{Role: "user", Content: prompt}},
		}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("openrouter request failed: %w", err)
	}

	if resp.StatusCode() >= 400 {
		body := resp.String()
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		statusErr := &StatusError{StatusCode: resp.StatusCode(), Body: body}
		if resp.StatusCode() == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %w", usecase.ErrRateLimited, statusErr)
		}
		return "", statusErr
	}

	text := gjson.GetBytes(resp.Body(), "choices.0.message.content").String()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
