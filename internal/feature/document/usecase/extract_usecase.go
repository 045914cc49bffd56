// Package usecase はdocumentフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resume_optimizer/internal/feature/document/domain/entity"
)

// MaxDocumentSize はアップロード文書の最大サイズ（10MB）です。
const MaxDocumentSize = 10 * 1024 * 1024

var (
	// ErrEmptyDocument は文書データが空の場合のエラーです。
	ErrEmptyDocument = errors.New("document is empty")
	// ErrDocumentTooLarge は文書がMaxDocumentSizeを超えた場合のエラーです。
	ErrDocumentTooLarge = errors.New("document exceeds maximum size")
	// ErrUnsupportedFormat は対応していない、または無効化された形式の場合のエラーです。
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

// TextReader は文書のバイト列からプレーンテキストを読み取ります。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type TextReader interface {
	ReadText(ctx context.Context, data []byte) (string, error)
}

// extractUsecase は形式ごとのTextReaderに処理を振り分けます。
type extractUsecase struct {
	readers map[entity.Format]TextReader
}

// NewExtractUsecase はextractUsecaseの新しいインスタンスを生成します。
// 画像のOCRはocrがnilの場合は無効になります。
func NewExtractUsecase(docx, pdf, ocr TextReader) *extractUsecase {
	readers := map[entity.Format]TextReader{
		entity.FormatDOCX: docx,
		entity.FormatPDF:  pdf,
	}
	if ocr != nil {
		readers[entity.FormatImage] = ocr
	}
	return &extractUsecase{readers: readers}
}

// Extract はファイル名とContent-Typeから形式を判定し、テキストを抽出します。
func (u *extractUsecase) Extract(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyDocument
	}
	if len(data) > MaxDocumentSize {
		return "", fmt.Errorf("%w: %d bytes", ErrDocumentTooLarge, len(data))
	}

	format := entity.DetectFormat(filename, contentType)
	if format == entity.FormatText {
		return strings.ToValidUTF8(string(data), "�"), nil
	}

	reader, ok := u.readers[format]
	if !ok || reader == nil {
		return "", fmt.Errorf("%w: %q (%s)", ErrUnsupportedFormat, filename, contentType)
	}

	text, err := reader.ReadText(ctx, data)
	if err != nil {
		return "", fmt.Errorf("failed to read %s document: %w", format, err)
	}
	return text, nil
}
