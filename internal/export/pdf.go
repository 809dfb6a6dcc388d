// Package export renders plain text into downloadable PDF bytes.
package export

import (
	"bytes"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	marginMM   = 20 // 2 cm on every side
	fontFamily = "Times"
	fontSize   = 11
	lineHeight = 5.5
)

// Render lays text out on A4 pages with a greedy width-measured word wrap
// and returns the finished PDF.
func Render(text string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginMM, marginMM, marginMM)
	pdf.SetAutoPageBreak(true, marginMM)
	pdf.AddPage()
	pdf.SetFont(fontFamily, "", fontSize)

	pageWidth, _ := pdf.GetPageSize()
	maxWidth := pageWidth - 2*marginMM

	for _, paragraph := range strings.Split(text, "\n") {
		for _, line := range wrap(pdf, paragraph, maxWidth) {
			pdf.CellFormat(0, lineHeight, line, "", 1, "L", false, 0, "")
		}
		pdf.Ln(lineHeight)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// wrap greedily packs words into lines no wider than maxWidth. A single word
// wider than the page is emitted as its own overlong line rather than cut.
func wrap(pdf *gofpdf.Fpdf, paragraph string, maxWidth float64) []string {
	var lines []string
	line := ""
	for _, word := range strings.Split(paragraph, " ") {
		test := strings.TrimSpace(line + " " + word)
		if pdf.GetStringWidth(test) <= maxWidth {
			line = test
			continue
		}
		if line != "" {
			lines = append(lines, line)
		}
		line = word
	}
	return append(lines, line)
}
