package ingestion

import (
	"fmt"
	"strings"
)

// buildPDF constructs a minimal single-font PDF with one page per entry in
// pageTexts. An empty entry produces a page with an empty content stream,
// i.e. a page with no text layer.
func buildPDF(pageTexts ...string) []byte {
	n := len(pageTexts)
	fontObj := 3 + 2*n
	totalObjs := 3 + 2*n

	var b strings.Builder
	offsets := make([]int, totalObjs+1)

	b.WriteString("%PDF-1.4\n")

	offsets[1] = b.Len()
	b.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")

	kids := make([]string, n)
	for k := 0; k < n; k++ {
		kids[k] = fmt.Sprintf("%d 0 R", 3+2*k)
	}
	offsets[2] = b.Len()
	fmt.Fprintf(&b, "2 0 obj\n<< /Type /Pages /Kids [%s] /Count %d >>\nendobj\n", strings.Join(kids, " "), n)

	for k, text := range pageTexts {
		pageObj := 3 + 2*k
		contentObj := 4 + 2*k

		offsets[pageObj] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents %d 0 R /Resources << /Font << /F1 %d 0 R >> >> >>\nendobj\n",
			pageObj, contentObj, fontObj)

		stream := ""
		if text != "" {
			escaped := strings.ReplaceAll(text, `\`, `\\`)
			escaped = strings.ReplaceAll(escaped, "(", `\(`)
			escaped = strings.ReplaceAll(escaped, ")", `\)`)
			stream = "BT\n/F1 12 Tf\n72 720 Td\n(" + escaped + ") Tj\nET"
		}

		offsets[contentObj] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", contentObj, len(stream), stream)
	}

	offsets[fontObj] = b.Len()
	fmt.Fprintf(&b, "%d 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n", fontObj)

	xrefOffset := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", totalObjs+1)
	b.WriteString("0000000000 65535 f \n")
	for i := 1; i <= totalObjs; i++ {
		fmt.Fprintf(&b, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", totalObjs+1, xrefOffset)

	return []byte(b.String())
}
