// Package language maps extracted text to one of the human-language labels
// the prompt templates understand. Detection is best effort: anything short,
// unreliable or unmapped comes back as "English".
package language

import (
	"strings"
	"unicode/utf8"

	"github.com/abadojack/whatlanggo"
)

const (
	// DefaultLabel is returned whenever detection cannot be trusted.
	DefaultLabel = "English"

	// detection only looks at a prefix of the input
	sampleLen  = 500
	minTextLen = 10
)

var langLabels = map[whatlanggo.Lang]string{
	whatlanggo.Eng: "English",
	whatlanggo.Hin: "Hindi",
	whatlanggo.Mar: "Marathi",
	whatlanggo.Tam: "Tamil",
	whatlanggo.Tel: "Telugu",
	whatlanggo.Ben: "Bengali",
	whatlanggo.Guj: "Gujarati",
	whatlanggo.Kan: "Kannada",
	whatlanggo.Mal: "Malayalam",
	whatlanggo.Pan: "Punjabi",
}

// Detect returns the label for the language of text. It never fails.
func Detect(text string) string {
	if len(strings.TrimSpace(text)) < minTextLen {
		return DefaultLabel
	}

	sample := text
	if len(sample) > sampleLen {
		sample = sample[:sampleLen]
		// avoid cutting a multi-byte rune in half
		for len(sample) > 0 && !utf8.ValidString(sample) {
			sample = sample[:len(sample)-1]
		}
	}

	info := whatlanggo.Detect(sample)
	if !info.IsReliable() {
		return DefaultLabel
	}

	if label, ok := langLabels[info.Lang]; ok {
		return label
	}
	return DefaultLabel
}
