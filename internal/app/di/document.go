package di

import (
	"context"
	"log/slog"

	"resume_optimizer/internal/app/config"
	"resume_optimizer/internal/feature/document/adapters/docx"
	"resume_optimizer/internal/feature/document/adapters/pdf"
	"resume_optimizer/internal/feature/document/adapters/vision"
	docusecase "resume_optimizer/internal/feature/document/usecase"
	"resume_optimizer/internal/feature/resumeanalysis/usecase"
)

// NewTextExtractor creates the document text extractor.
// When VISION_OCR_ENABLED is set it also creates a Vision client for image resumes;
// the returned close function releases it and is always safe to call.
func NewTextExtractor(ctx context.Context, cfg config.Config) (usecase.TextExtractor, func() error, error) {
	noop := func() error { return nil }

	if !cfg.VisionOCR {
		return docusecase.NewExtractUsecase(docx.NewReader(), pdf.NewReader(), nil), noop, nil
	}

	ocr, err := vision.NewOCRReader(ctx)
	if err != nil {
		return nil, noop, err
	}
	slog.Info("画像の履歴書に対するOCRを有効化しました")
	return docusecase.NewExtractUsecase(docx.NewReader(), pdf.NewReader(), ocr), ocr.Close, nil
}
