// Package gemini はGoogle Gemini APIを使用した分析用モデルクライアントを提供します。
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"resume_optimizer/internal/feature/resumeanalysis/usecase"
)

// ErrEmptyResponse はモデルが空のテキストを返した場合のエラーです。
var ErrEmptyResponse = errors.New("gemini returned an empty response")

// ClientFactory はAPIキーごとにGemini APIクライアントを生成します。
type ClientFactory struct {
	httpClient *http.Client
	baseURL    string
}

// ClientFactoryがClientFactoryインターフェースを実装していることをコンパイル時に検証します。
var _ usecase.ClientFactory = (*ClientFactory)(nil)

// NewClientFactory はClientFactoryの新しいインスタンスを生成します。
// baseURLが空の場合はGemini APIの既定エンドポイントを使用します。
func NewClientFactory(httpClient *http.Client, baseURL string) *ClientFactory {
	return &ClientFactory{httpClient: httpClient, baseURL: baseURL}
}

// NewClient は指定されたAPIキーでGeminiクライアントを生成します。
func (f *ClientFactory) NewClient(ctx context.Context, apiKey string) (usecase.ModelClient, error) {
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: f.httpClient,
	}
	if f.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: f.baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

// GeminiClient はGemini APIでプロンプトを実行します。
type GeminiClient struct {
	client *genai.Client
}

// GeminiClientがModelClientを実装していることをコンパイル時に検証します。
var _ usecase.ModelClient = (*GeminiClient)(nil)

// Generate は指定モデルでプロンプトを実行し、応答テキストを返します。
// 429応答はusecase.ErrRateLimitedでラップされます。
func (g *GeminiClient) Generate(ctx context.Context, model, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", classifyError(err)
	}

	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// classifyError はレート制限を示すAPIエラーにErrRateLimitedを付与します。
func classifyError(err error) error {
	if isRateLimitAPIError(err) {
		return fmt.Errorf("%w: %w", usecase.ErrRateLimited, err)
	}
	return err
}

func isRateLimitAPIError(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code == http.StatusTooManyRequests
	}
	return false
}
