package dto

// ErrorResponse はエラー時のレスポンスDTOです。
type ErrorResponse struct {
	Error string `json:"error"`
}

// AnalysisResultResponse は分析結果のレスポンスDTOです。
type AnalysisResultResponse struct {
	MatchPercentage  string   `json:"match_percentage"`  // マッチ率（例: "82%"）
	GapAnalysis      []string `json:"gap_analysis"`      // 不足している経験・スキル
	MissingKeywords  []string `json:"missing_keywords"`  // 履歴書に無いJDのキーワード
	RewrittenSummary string   `json:"rewritten_summary"` // JD向けに書き直した要約
}

// AnalysisResponse は分析1件のレスポンスDTOです。履歴が無効な場合、IDは省略されます。
type AnalysisResponse struct {
	ID         string                 `json:"id,omitempty"`
	CreatedAt  string                 `json:"created_at"` // RFC3339（UTC）
	ResumeName string                 `json:"resume_name"`
	Model      string                 `json:"model"`
	Result     AnalysisResultResponse `json:"result"`
}
