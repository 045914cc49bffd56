// Package handler はresumeanalysisフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	docusecase "resume_optimizer/internal/feature/document/usecase"
	"resume_optimizer/internal/feature/resumeanalysis/domain/entity"
	"resume_optimizer/internal/feature/resumeanalysis/transport/http/dto"
	"resume_optimizer/internal/feature/resumeanalysis/usecase"
)

// AnalysisUsecase は履歴書分析のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type AnalysisUsecase interface {
	AnalyzeResume(ctx context.Context, file entity.ResumeFile, jobDescription, apiKey string) (*entity.AnalysisRecord, error)
	GetAnalysis(ctx context.Context, id string) (*entity.AnalysisRecord, error)
	ListAnalyses(ctx context.Context, limit int) ([]entity.AnalysisRecord, error)
}

// AnalysisHandler は履歴書分析のHTTPリクエストを処理します。
type AnalysisHandler struct {
	uc AnalysisUsecase
}

// NewAnalysisHandler はAnalysisHandlerの新しいインスタンスを生成します。
func NewAnalysisHandler(uc AnalysisUsecase) *AnalysisHandler {
	return &AnalysisHandler{uc: uc}
}

// AnalyzeResume は履歴書ファイルとJDを受け取り、分析結果を返します。
//
// エンドポイント: POST /v1/analyses
// Content-Type: multipart/form-data
// フィールド: resume（ファイル）, job_description（テキスト）, api_key（任意）
func (h *AnalysisHandler) AnalyzeResume(c *gin.Context) {
	file, err := readResume(c)
	if err != nil {
		slog.Warn("履歴書ファイルの取得に失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "履歴書ファイルが必要です"})
		return
	}

	record, err := h.uc.AnalyzeResume(c.Request.Context(), file, c.PostForm("job_description"), c.PostForm("api_key"))
	if err != nil {
		status, msg := errorStatus(err)
		if status >= http.StatusInternalServerError {
			slog.Error("履歴書の分析に失敗", "error", err, "resume", file.Filename)
		} else {
			slog.Warn("履歴書の分析リクエストが不正", "error", err, "resume", file.Filename)
		}
		c.JSON(status, dto.ErrorResponse{Error: msg})
		return
	}

	c.JSON(http.StatusOK, toResponse(record))
}

// ListAnalyses は分析履歴を新しい順に返します。
//
// エンドポイント: GET /v1/analyses?limit=20
func (h *AnalysisHandler) ListAnalyses(c *gin.Context) {
	// 不正な値は既定件数として扱う
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	records, err := h.uc.ListAnalyses(c.Request.Context(), limit)
	if err != nil {
		status, msg := errorStatus(err)
		if status >= http.StatusInternalServerError {
			slog.Error("分析履歴の取得に失敗", "error", err)
		}
		c.JSON(status, dto.ErrorResponse{Error: msg})
		return
	}

	out := make([]dto.AnalysisResponse, 0, len(records))
	for i := range records {
		out = append(out, toResponse(&records[i]))
	}
	c.JSON(http.StatusOK, out)
}

// GetAnalysis はIDで分析履歴を1件返します。
//
// エンドポイント: GET /v1/analyses/:id
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	id := c.Param("id")

	record, err := h.uc.GetAnalysis(c.Request.Context(), id)
	if err != nil {
		status, msg := errorStatus(err)
		if status >= http.StatusInternalServerError {
			slog.Error("分析履歴の取得に失敗", "error", err, "id", id)
		}
		c.JSON(status, dto.ErrorResponse{Error: msg})
		return
	}

	c.JSON(http.StatusOK, toResponse(record))
}

// readResume はマルチパートのresumeフィールドを読み込みます。
func readResume(c *gin.Context) (entity.ResumeFile, error) {
	header, err := c.FormFile("resume")
	if err != nil {
		return entity.ResumeFile{}, err
	}
	return readFileHeader(header)
}

func readFileHeader(header *multipart.FileHeader) (entity.ResumeFile, error) {
	f, err := header.Open()
	if err != nil {
		return entity.ResumeFile{}, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("履歴書ファイルのクローズに失敗", "error", err)
		}
	}()

	// 上限超過を検出できるよう1バイト多く読む
	data, err := io.ReadAll(io.LimitReader(f, docusecase.MaxDocumentSize+1))
	if err != nil {
		return entity.ResumeFile{}, err
	}
	return entity.ResumeFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// errorStatus はユースケースのエラーをHTTPステータスと利用者向けメッセージに変換します。
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrMissingInput),
		errors.Is(err, usecase.ErrMissingAPIKey),
		errors.Is(err, docusecase.ErrEmptyDocument):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, docusecase.ErrDocumentTooLarge):
		return http.StatusRequestEntityTooLarge, docusecase.ErrDocumentTooLarge.Error()
	case errors.Is(err, docusecase.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType, docusecase.ErrUnsupportedFormat.Error()
	case errors.Is(err, usecase.ErrRecordNotFound),
		errors.Is(err, usecase.ErrHistoryDisabled):
		return http.StatusNotFound, err.Error()
	default:
		return http.StatusInternalServerError, "分析に失敗しました"
	}
}

func toResponse(r *entity.AnalysisRecord) dto.AnalysisResponse {
	return dto.AnalysisResponse{
		ID:         r.ID,
		CreatedAt:  r.CreatedAt.UTC().Format(time.RFC3339),
		ResumeName: r.ResumeName,
		Model:      r.Model,
		Result: dto.AnalysisResultResponse{
			MatchPercentage:  r.Result.MatchPercentage,
			GapAnalysis:      nonNil(r.Result.GapAnalysis),
			MissingKeywords:  nonNil(r.Result.MissingKeywords),
			RewrittenSummary: r.Result.RewrittenSummary,
		},
	}
}

// nonNil はJSONでnullではなく[]を返すためにnilスライスを空スライスに置き換えます。
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
