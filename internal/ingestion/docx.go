package ingestion

import (
	"encoding/xml"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// extractDocx concatenates paragraph text in document order. Parser failures
// collapse to empty output and surface through the quality gate.
func extractDocx(path string) string {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return ""
	}
	defer r.Close()

	return docxParagraphs(r.Editable().GetContent())
}

// docxParagraphs walks word/document.xml, collecting text runs (<w:t>) per
// paragraph (<w:p>).
func docxParagraphs(content string) string {
	dec := xml.NewDecoder(strings.NewReader(content))
	dec.Strict = false

	var paras []string
	var cur strings.Builder
	inPara := false
	inText := false

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inPara = true
				cur.Reset()
			case "t":
				inText = inPara
			}
		case xml.CharData:
			if inText {
				cur.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if inPara {
					inPara = false
					paras = append(paras, cur.String())
				}
			}
		}
	}

	return strings.TrimSpace(strings.Join(paras, "\n"))
}
