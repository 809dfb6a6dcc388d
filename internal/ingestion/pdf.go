package ingestion

import (
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

// extractPDF walks the PDF page by page. Pages with a text layer contribute
// their vector text; pages without one are rasterized and OCRed. A page that
// yields nothing either way is skipped, never fatal.
func (e *Extractor) extractPDF(path string) string {
	f, r, err := pdf.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	var parts []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if !p.V.IsNull() {
			if s, err := p.GetPlainText(nil); err == nil && strings.TrimSpace(s) != "" {
				parts = append(parts, s)
				continue
			}
		}
		if s, err := e.ocrPDFPage(path, i); err == nil && strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}

	return strings.TrimSpace(strings.Join(parts, "\n"))
}
