// Package ocr produces input text for the analysis pipeline from scanned
// exam papers, using the Google Cloud Vision API.
//
// This is the OCR-producer collaborator: the core treats its output as an
// opaque UTF-8 string and assumes nothing beyond approximate Japanese
// content. Vertical Japanese text is handled by the Vision document model's
// reading-order aggregation; the "ja" language hint is always supplied.
//
// Required Environment Variables:
//   - GOOGLE_APPLICATION_CREDENTIALS: Path to service account JSON file, OR
//   - GOOGLE_CREDENTIALS: Inline JSON credentials string
//
// Cloud Vision API Limitations:
//   - Maximum file size: 20MB for synchronous processing
//   - Maximum pages: 5 pages for synchronous processing
package ocr

import (
	"context"
	"io"
	"time"
)

// Service defines the interface for producing exam text from scanned PDFs.
type Service interface {
	// ScanPDF extracts text from a scanned exam PDF.
	// Returns the concatenated text of all pages in reading order.
	ScanPDF(ctx context.Context, pdf io.Reader) (string, error)

	// ScanPDFWithMetadata extracts text with confidence and page metadata.
	ScanPDFWithMetadata(ctx context.Context, pdf io.Reader) (*ScanResult, error)

	// Close releases the underlying API client.
	Close() error
}

// ScanResult contains OCR output with metadata.
type ScanResult struct {
	// Text is the extracted text of all pages, concatenated in reading
	// order, with === ページ N === banners between pages. The preprocessor
	// strips the banners again; they exist for humans inspecting raw dumps.
	Text string `json:"text"`

	// PageCount is the number of pages processed.
	PageCount int `json:"page_count"`

	// Confidence is the average confidence across detected text (0.0-1.0).
	Confidence float32 `json:"confidence"`

	// ProcessedAt is when OCR processing completed.
	ProcessedAt time.Time `json:"processed_at"`

	// ProcessingDuration is how long the OCR call took.
	ProcessingDuration time.Duration `json:"processing_duration"`
}
