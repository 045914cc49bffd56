// Package docx はWord（.docx）文書からテキストを抽出するリーダーを提供します。
package docx

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"

	"resume_optimizer/internal/feature/document/usecase"
)

// wordNamespace はWordprocessingMLの名前空間です。
const wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// Reader はdocx文書の段落テキストを改行区切りで返します。
type Reader struct{}

// ReaderがTextReaderを実装していることをコンパイル時に検証します。
var _ usecase.TextReader = (*Reader)(nil)

// NewReader はReaderの新しいインスタンスを生成します。
func NewReader() *Reader {
	return &Reader{}
}

// ReadText はdocxのバイト列から段落ごとのテキストを取り出し、"\n"で連結して返します。
func (r *Reader) ReadText(ctx context.Context, data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer func() {
		_ = doc.Close()
	}()

	return ParagraphText(doc.Editable().GetContent())
}

// ParagraphText はword/document.xmlの内容から段落テキストを抽出します。
// タブは"\t"、改行（w:br, w:cr）は"\n"として段落内に残します。
// テキストボックス（w:txbxContent）の中身は本文の段落に含めません。
func ParagraphText(documentXML string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(documentXML))

	var (
		paragraphs []string
		current    strings.Builder
		paraDepth  int // ネストしたw:pは最も外側の段落に含める
		skipDepth  int // w:txbxContent配下の要素の深さ
		inText     bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to decode document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if skipDepth > 0 || (t.Name.Space == wordNamespace && t.Name.Local == "txbxContent") {
				skipDepth++
				continue
			}
			if t.Name.Space != wordNamespace {
				continue
			}
			switch t.Name.Local {
			case "p":
				if paraDepth == 0 {
					current.Reset()
				}
				paraDepth++
			case "t":
				inText = true
			case "tab":
				if paraDepth > 0 {
					current.WriteString("\t")
				}
			case "br", "cr":
				if paraDepth > 0 {
					current.WriteString("\n")
				}
			}
		case xml.EndElement:
			if skipDepth > 0 {
				skipDepth--
				continue
			}
			if t.Name.Space != wordNamespace {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if paraDepth == 0 {
					continue
				}
				paraDepth--
				if paraDepth == 0 {
					paragraphs = append(paragraphs, current.String())
				}
			}
		case xml.CharData:
			if inText && skipDepth == 0 {
				current.Write(t)
			}
		}
	}

	return strings.Join(paragraphs, "\n"), nil
}
