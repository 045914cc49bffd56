// Package pdf はPDF文書からテキストを抽出するリーダーを提供します。
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"resume_optimizer/internal/feature/document/usecase"
)

// Reader はPDFの各ページのプレーンテキストを改行区切りで返します。
type Reader struct{}

// ReaderがTextReaderを実装していることをコンパイル時に検証します。
var _ usecase.TextReader = (*Reader)(nil)

// NewReader はReaderの新しいインスタンスを生成します。
func NewReader() *Reader {
	return &Reader{}
}

// ReadText はPDFのバイト列から全ページのテキストを抽出します。
// ページ間はctxのキャンセルを確認します。
func (r *Reader) ReadText(ctx context.Context, data []byte) (string, error) {
	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	pages := make([]string, 0, doc.NumPage())
	for i := 1; i <= doc.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := doc.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to extract text from page %d: %w", i, err)
		}
		pages = append(pages, strings.TrimRight(text, "\n"))
	}
	return strings.Join(pages, "\n"), nil
}
