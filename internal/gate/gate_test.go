package gate

import "testing"

func TestClassify(t *testing.T) {
	testCases := []struct {
		text     string
		expected Verdict
	}{
		{"hello", Legal},
		{"Hi, I need help", Legal},
		{"namaste", Legal},
		{"How do I file an RTI application?", Legal},
		{"What are my rights as a tenant?", Legal},
		{"What's today's cricket score?", NotLegal},
		{"Please review my resume", NotLegal},
		{"who is the ceo of that company", NotLegal},
		{"best recipe for biryani", NotLegal},
		{"recommend a movie", NotLegal},
		{"what is the weather like", NotLegal},
		{"", Legal},
		{"something totally ambiguous", Legal},
	}

	for _, tc := range testCases {
		if got := Classify(tc.text); got != tc.expected {
			t.Errorf("Classify(%q) = %s, want %s", tc.text, got, tc.expected)
		}
	}
}

func TestClassifyGreetingWinsOverOffTopic(t *testing.T) {
	// A greeting anywhere in the message takes precedence over an off-topic
	// phrase, so polite messages that ramble are still allowed through.
	got := Classify("hi, what's the weather, I need a lawyer")
	if got != Legal {
		t.Errorf("greeting should take precedence over off-topic match, got %s", got)
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	if got := Classify("CRICKET match tonight"); got != NotLegal {
		t.Errorf("Classify should match case-insensitively, got %s", got)
	}
	if got := Classify("HELLO THERE"); got != Legal {
		t.Errorf("Classify should match greetings case-insensitively, got %s", got)
	}
}
