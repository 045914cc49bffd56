package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume_optimizer/internal/feature/resumeanalysis/domain/entity"
)

const (
	// DefaultHistoryLimit は履歴一覧の既定件数です。
	DefaultHistoryLimit = 20
	// MaxHistoryLimit は履歴一覧の最大件数です。
	MaxHistoryLimit = 100
)

// TextExtractor はアップロードされたファイルからプレーンテキストを取り出します。
type TextExtractor interface {
	Extract(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

// Analyzer は履歴書とJDを分析します。キャッシュ付きの実装とも差し替え可能です。
type Analyzer interface {
	Analyze(ctx context.Context, req entity.AnalysisRequest) (*entity.AnalysisResult, error)
}

// HistoryRepository は分析結果の履歴を永続化するリポジトリインターフェースです。
type HistoryRepository interface {
	Save(ctx context.Context, record *entity.AnalysisRecord) error
	FindByID(ctx context.Context, id string) (*entity.AnalysisRecord, error)
	ListRecent(ctx context.Context, limit int) ([]entity.AnalysisRecord, error)
}

// analysisService はファイル抽出・分析・履歴保存をまとめたユースケースです。
type analysisService struct {
	extractor     TextExtractor
	analyzer      Analyzer
	history       HistoryRepository
	defaultAPIKey string
	provider      string
}

// NewAnalysisService はanalysisServiceの新しいインスタンスを生成します。
// historyがnilの場合、履歴の保存と参照は無効になります。
func NewAnalysisService(extractor TextExtractor, analyzer Analyzer, history HistoryRepository, defaultAPIKey, provider string) *analysisService {
	return &analysisService{
		extractor:     extractor,
		analyzer:      analyzer,
		history:       history,
		defaultAPIKey: defaultAPIKey,
		provider:      provider,
	}
}

// AnalyzeResume はアップロードされた履歴書とJDを分析します。
// apiKeyが空の場合はサーバー側のキーを使います。
// 成功した結果は履歴が有効な場合に保存され、IDが付与されます。
func (s *analysisService) AnalyzeResume(ctx context.Context, file entity.ResumeFile, jobDescription, apiKey string) (*entity.AnalysisRecord, error) {
	if len(file.Data) == 0 || strings.TrimSpace(jobDescription) == "" {
		return nil, ErrMissingInput
	}

	text, err := s.extractor.Extract(ctx, file.Filename, file.ContentType, file.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to extract resume text from %q: %w", file.Filename, err)
	}

	key := apiKey
	if key == "" {
		key = s.defaultAPIKey
	}

	result, err := s.analyzer.Analyze(ctx, entity.AnalysisRequest{
		ResumeText:     text,
		JobDescription: jobDescription,
		APIKey:         key,
	})
	if err != nil {
		return nil, err
	}

	record := &entity.AnalysisRecord{
		CreatedAt:  time.Now(),
		ResumeName: file.Filename,
		Model:      s.provider,
		Result:     *result,
	}

	if s.history == nil || result.IsFailed() {
		return record, nil
	}

	record.ID = uuid.NewString()
	if err := s.history.Save(ctx, record); err != nil {
		// 保存失敗は分析結果の返却を妨げない
		slog.Warn("分析履歴の保存に失敗", "error", err, "id", record.ID)
		record.ID = ""
	}
	return record, nil
}

// GetAnalysis はIDで分析履歴を取得します。
func (s *analysisService) GetAnalysis(ctx context.Context, id string) (*entity.AnalysisRecord, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	return s.history.FindByID(ctx, id)
}

// ListAnalyses は新しい順に分析履歴を返します。limitは1〜MaxHistoryLimitに丸められます。
func (s *analysisService) ListAnalyses(ctx context.Context, limit int) ([]entity.AnalysisRecord, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	return s.history.ListRecent(ctx, limit)
}
