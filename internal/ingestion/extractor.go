// Package ingestion extracts plain text from uploaded documents. Extraction
// dispatches on the declared file extension: PDF (vector text layer with a
// per-page OCR fallback), images (OCR), DOCX (paragraph text) and a UTF-8
// plain-text fallback for everything else.
package ingestion

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrEmptyFile is returned for zero-length uploads before any parsing.
var ErrEmptyFile = errors.New("file is empty")

// InsufficientTextError reports that extraction produced less usable text
// than the configured threshold. The threshold is a heuristic guard against
// OCR and parser noise, not a correctness check.
type InsufficientTextError struct {
	Format string
}

func (e *InsufficientTextError) Error() string {
	switch e.Format {
	case "pdf":
		return "could not extract text from PDF: the file may be corrupted or contain only images without recognizable text"
	case "image":
		return "could not extract text from image: ensure the image contains clear, readable text"
	case "docx":
		return "could not extract text from DOCX file: the file may be empty or corrupted"
	default:
		return "file appears to be empty or contains insufficient text"
	}
}

// Extractor pulls text out of files. Per-page and per-strategy failures are
// swallowed; only the total absence of text surfaces, as an
// InsufficientTextError.
type Extractor struct {
	minTextLen int

	// swappable for tests; OCR needs a tesseract install
	ocrImage   func(path string) (string, error)
	ocrPDFPage func(path string, page int) (string, error)
}

// New creates an Extractor. minTextLen is the minimum stripped length of
// extracted text for extraction to count as successful.
func New(minTextLen int) *Extractor {
	e := &Extractor{minTextLen: minTextLen}
	e.ocrImage = ocrImageFile
	e.ocrPDFPage = e.rasterAndOCRPage
	return e
}

// Extract reads the file at path and returns its plain text. ext is the
// declared extension including the leading dot, lower-cased by the caller.
func (e *Extractor) Extract(path, ext string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("file not found: %w", err)
	}
	if info.Size() == 0 {
		return "", ErrEmptyFile
	}

	var text, format string
	switch ext {
	case ".pdf":
		format = "pdf"
		text = e.extractPDF(path)
	case ".jpg", ".jpeg", ".png":
		format = "image"
		if t, err := e.ocrImage(path); err == nil {
			text = t
		}
	case ".docx":
		format = "docx"
		text = extractDocx(path)
	default:
		format = "text"
		text = readPlainText(path)
	}

	if len(strings.TrimSpace(text)) < e.minTextLen {
		return "", &InsufficientTextError{Format: format}
	}
	return text, nil
}

// readPlainText decodes a file as UTF-8, dropping undecodable bytes.
func readPlainText(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.ToValidUTF8(string(b), "")
}
