// Package gate is a local, rule-based pre-classifier that decides whether a
// message should be routed to the remote generator at all. Keeping obviously
// off-topic requests out of the API saves quota and latency.
package gate

import "strings"

// Verdict is the gate's classification of an input message.
type Verdict string

const (
	Legal    Verdict = "LEGAL"
	NotLegal Verdict = "NOT_LEGAL"
)

// Greetings and conversational pleasantries are always allowed through,
// even when they mention an off-topic phrase.
var greetings = []string{
	"hi", "hello", "hey", "namaste", "good morning", "good evening",
	"good afternoon", "how are you", "thanks", "thank you", "bye",
}

var offTopic = []string{
	"resume", "cv", "curriculum vitae", "job application",
	"ceo of", "founder of", "who is the ceo",
	"recipe", "cooking", "food preparation",
	"movie", "film", "entertainment",
	"sports", "cricket", "football", "match",
	"weather", "temperature", "climate today",
}

// Classify decides whether text belongs to the legal domain. It is pure and
// default-permissive: ambiguous input is forwarded to the remote generator
// rather than rejected locally.
func Classify(text string) Verdict {
	lower := strings.ToLower(strings.TrimSpace(text))

	for _, g := range greetings {
		if strings.Contains(lower, g) {
			return Legal
		}
	}

	for _, topic := range offTopic {
		if strings.Contains(lower, topic) {
			return NotLegal
		}
	}

	return Legal
}
