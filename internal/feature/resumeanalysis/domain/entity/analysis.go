// Package entity はresumeanalysisフィーチャーのドメインモデルを定義します。
package entity

import (
	"fmt"
	"time"
)

const (
	// FailedMatchPercentage は全モデルで分析に失敗した場合のマッチ率です。
	FailedMatchPercentage = "Error"
	// FailedSummary は全モデルで分析に失敗した場合の要約です。
	FailedSummary = "Error generating summary."
	// UnknownError は最後のエラーが存在しない場合に使われるメッセージです。
	UnknownError = "Unknown error"
)

// AnalysisRequest は1回の分析に必要な入力を表します。永続化はされません。
type AnalysisRequest struct {
	ResumeText     string // 履歴書のプレーンテキスト
	JobDescription string // 求人票（JD）の本文
	APIKey         string // 生成AI APIの認証キー
}

// AnalysisResult は履歴書とJDの比較結果を表します。
type AnalysisResult struct {
	MatchPercentage  string   `json:"match_percentage"`
	GapAnalysis      []string `json:"gap_analysis"`
	MissingKeywords  []string `json:"missing_keywords"`
	RewrittenSummary string   `json:"rewritten_summary"`

	// failed はNewFailedResultで生成された結果にのみ立ちます。シリアライズされません。
	failed bool
}

// NewFailedResult は全モデル・全リトライを使い切った際のセンチネル結果を生成します。
func NewFailedResult(lastErr error) *AnalysisResult {
	msg := UnknownError
	if lastErr != nil {
		msg = lastErr.Error()
	}
	return &AnalysisResult{
		MatchPercentage:  FailedMatchPercentage,
		GapAnalysis:      []string{fmt.Sprintf("Analysis failed after trying multiple models. Last error: %s", msg)},
		MissingKeywords:  []string{},
		RewrittenSummary: FailedSummary,
		failed:           true,
	}
}

// IsFailed は結果がNewFailedResultで生成されたセンチネル結果かどうかを返します。
// モデルが "Error" というマッチ率を返しただけの結果は失敗扱いになりません。
func (r *AnalysisResult) IsFailed() bool {
	return r != nil && r.failed
}

// AnalysisRecord は保存された分析結果の履歴を表します。
type AnalysisRecord struct {
	ID         string
	CreatedAt  time.Time
	ResumeName string // アップロードされたファイル名
	Model      string // プロバイダ名（gemini / openrouter）
	Result     AnalysisResult
}

// ResumeFile はアップロードされた履歴書ファイルを表します。
type ResumeFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
