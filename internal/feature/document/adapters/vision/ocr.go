// Package vision はGoogle Cloud Vision APIを使用した画像のテキスト認識（OCR）を提供します。
package vision

import (
	"context"
	"fmt"

	gvision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"resume_optimizer/internal/feature/document/usecase"
)

// OCRReader はVision APIのDOCUMENT_TEXT_DETECTIONで画像から文書テキストを読み取ります。
type OCRReader struct {
	client *gvision.ImageAnnotatorClient
}

// OCRReaderがTextReaderを実装していることをコンパイル時に検証します。
var _ usecase.TextReader = (*OCRReader)(nil)

// NewOCRReader はADCを使用してOCRReaderの新しいインスタンスを生成します。
func NewOCRReader(ctx context.Context) (*OCRReader, error) {
	client, err := gvision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	return &OCRReader{client: client}, nil
}

// Close はVision APIクライアントを解放します。
func (o *OCRReader) Close() error {
	return o.client.Close()
}

// ReadText は画像バイト列に含まれる文書テキストを返します。
func (o *OCRReader) ReadText(ctx context.Context, data []byte) (string, error) {
	resp, err := o.client.BatchAnnotateImages(ctx, newRequest(data))
	if err != nil {
		return "", fmt.Errorf("vision API request failed: %w", err)
	}
	return documentText(resp)
}

func newRequest(data []byte) *visionpb.BatchAnnotateImagesRequest {
	return &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: data},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
			},
		},
	}
}

// documentText はレスポンスから全文テキストを取り出します。テキストが無い画像は空文字を返します。
func documentText(resp *visionpb.BatchAnnotateImagesResponse) (string, error) {
	if resp == nil || len(resp.Responses) == 0 {
		return "", nil
	}
	first := resp.Responses[0]
	if first.Error != nil {
		return "", fmt.Errorf("vision API error: %s", first.Error.Message)
	}
	if first.FullTextAnnotation == nil {
		return "", nil
	}
	return first.FullTextAnnotation.Text, nil
}
