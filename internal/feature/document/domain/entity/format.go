// Package entity はdocumentフィーチャーのドメインモデルを定義します。
package entity

import (
	"mime"
	"path/filepath"
	"strings"
)

// Format はテキスト抽出の対象となる文書形式です。
type Format string

const (
	FormatUnknown Format = ""
	FormatDOCX    Format = "docx"
	FormatPDF     Format = "pdf"
	FormatText    Format = "text"
	FormatImage   Format = "image"
)

var extensionFormats = map[string]Format{
	".docx": FormatDOCX,
	".pdf":  FormatPDF,
	".txt":  FormatText,
	".png":  FormatImage,
	".jpg":  FormatImage,
	".jpeg": FormatImage,
}

var mediaTypeFormats = map[string]Format{
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": FormatDOCX,
	"application/pdf": FormatPDF,
	"text/plain":      FormatText,
	"image/png":       FormatImage,
	"image/jpeg":      FormatImage,
}

// DetectFormat はファイル名の拡張子、次にContent-Typeから文書形式を判定します。
func DetectFormat(filename, contentType string) Format {
	if f, ok := extensionFormats[strings.ToLower(filepath.Ext(filename))]; ok {
		return f
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return FormatUnknown
	}
	return mediaTypeFormats[strings.ToLower(mediaType)]
}
