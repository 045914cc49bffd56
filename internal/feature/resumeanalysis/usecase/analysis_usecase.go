// Package usecase はresumeanalysisフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"resume_optimizer/internal/feature/resumeanalysis/domain/entity"
)

const (
	// MaxRetries はモデルごとの最大試行回数です。
	MaxRetries = 3
	// BaseRetryDelay はレート制限時の初回待機時間です。以降は試行ごとに倍になります。
	BaseRetryDelay = 2 * time.Second
)

// ModelPriority は試行するモデルの優先順リストです。
var ModelPriority = []string{"gemini-2.0-flash", "gemini-flash-latest"}

// ModelClient は生成AIのモデルにプロンプトを送るクライアントインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type ModelClient interface {
	// Generate は指定モデルでプロンプトを実行し、生のテキストを返します。
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// ClientFactory はAPIキーごとにModelClientを生成します。
type ClientFactory interface {
	NewClient(ctx context.Context, apiKey string) (ModelClient, error)
}

// Waiter は外部呼び出しの前に待機させるスロットルです。
type Waiter interface {
	Wait(ctx context.Context) error
}

// SleepFunc はバックオフ中の待機処理です。ctxがキャンセルされた場合はエラーを返します。
type SleepFunc func(ctx context.Context, d time.Duration) error

// Option はanalyzerの設定を変更します。
type Option func(*analyzer)

// WithModels は試行するモデルの優先順リストを差し替えます。
func WithModels(models ...string) Option {
	return func(a *analyzer) {
		if len(models) > 0 {
			a.models = append([]string(nil), models...)
		}
	}
}

// WithMaxRetries はモデルごとの最大試行回数を差し替えます。1未満は無視されます。
func WithMaxRetries(n int) Option {
	return func(a *analyzer) {
		if n >= 1 {
			a.maxRetries = n
		}
	}
}

// WithBaseDelay はバックオフの初回待機時間を差し替えます。
func WithBaseDelay(d time.Duration) Option {
	return func(a *analyzer) {
		if d >= 0 {
			a.baseDelay = d
		}
	}
}

// WithSleeper は待機処理を差し替えます（テスト用）。
func WithSleeper(sleep SleepFunc) Option {
	return func(a *analyzer) {
		if sleep != nil {
			a.sleep = sleep
		}
	}
}

// WithWaiter はモデル呼び出し前のスロットルを設定します。
func WithWaiter(w Waiter) Option {
	return func(a *analyzer) {
		a.waiter = w
	}
}

// analyzer は複数モデルへのフォールバックとリトライを行う履歴書分析器です。
type analyzer struct {
	factory    ClientFactory
	models     []string
	maxRetries int
	baseDelay  time.Duration
	sleep      SleepFunc
	waiter     Waiter
}

// NewAnalyzer はanalyzerの新しいインスタンスを生成します。
func NewAnalyzer(factory ClientFactory, opts ...Option) *analyzer {
	a := &analyzer{
		factory:    factory,
		models:     append([]string(nil), ModelPriority...),
		maxRetries: MaxRetries,
		baseDelay:  BaseRetryDelay,
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze は履歴書とJDを比較した結果を返します。
// APIキーが空の場合のみErrMissingAPIKeyを返し、それ以外の失敗はセンチネル結果に変換されます。
func (a *analyzer) Analyze(ctx context.Context, req entity.AnalysisRequest) (*entity.AnalysisResult, error) {
	if req.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := a.factory.NewClient(ctx, req.APIKey)
	if err != nil {
		slog.Error("モデルクライアントの生成に失敗", "error", err)
		return entity.NewFailedResult(err), nil
	}

	prompt := BuildPrompt(req.ResumeText, req.JobDescription)

	var lastErr error
	for _, model := range a.models {
		result, err := a.tryModel(ctx, client, model, prompt)
		if result != nil {
			return result, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		slog.Warn("次のモデルにフォールバック", "model", model, "error", err)
	}

	slog.Error("全モデルで分析に失敗", "models", a.models, "error", lastErr)
	return entity.NewFailedResult(lastErr), nil
}

// tryModel は1つのモデルに対して最大maxRetries回の呼び出しと解析を行います。
// 成功時は結果を、諦めた場合は最後のエラーを返します。
func (a *analyzer) tryModel(ctx context.Context, client ModelClient, model, prompt string) (*entity.AnalysisResult, error) {
	delay := a.baseDelay
	var lastErr error

	for attempt := 1; attempt <= a.maxRetries; attempt++ {
		if err := a.wait(ctx); err != nil {
			return nil, err
		}

		text, err := client.Generate(ctx, model, prompt)
		if err != nil {
			lastErr = err
			if !IsRateLimited(err) {
				return nil, err
			}
			if attempt == a.maxRetries {
				return nil, err
			}
			slog.Warn("レート制限のため待機してリトライ", "model", model, "attempt", attempt, "delay", delay, "error", err)
			if err := a.sleep(ctx, delay); err != nil {
				return nil, err
			}
			delay *= 2
			continue
		}

		obj := ExtractJSON(text)
		if obj == nil {
			lastErr = fmt.Errorf("%w from %s", ErrUnparsableResponse, model)
			slog.Warn("モデル応答の解析に失敗", "model", model, "attempt", attempt)
			continue
		}

		result := DecodeResult(obj)
		return &result, nil
	}
	return nil, lastErr
}

func (a *analyzer) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if a.waiter == nil {
		return nil
	}
	return a.waiter.Wait(ctx)
}

// IsRateLimited はエラーがレート制限・クォータ超過を示すかどうかを判定します。
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(strings.ToLower(msg), "quota")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
