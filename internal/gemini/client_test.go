package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func testConfig(baseURL string) Config {
	return Config{
		APIKey:      "test-key",
		Model:       "gemini-test",
		BaseURL:     baseURL,
		Timeout:     2 * time.Second,
		MaxRetries:  3,
		BackoffUnit: time.Millisecond,
	}
}

func candidateJSON(text string) string {
	resp := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]string{{"text": text}},
			}},
		},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestGenerateNoKey(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.APIKey = ""
	c := New(cfg)

	got := c.Generate(context.Background(), "hello", 0.3)
	if got != SentinelNoKey {
		t.Errorf("Generate = %q, want config sentinel", got)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Error("missing key must not trigger a network call")
	}
}

func TestGenerateSuccess(t *testing.T) {
	var gotBody generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(candidateJSON("  Your rights as a tenant are...  ")))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))
	got := c.Generate(context.Background(), "tenant rights", 0.3)

	if got != "Your rights as a tenant are..." {
		t.Errorf("Generate = %q, want trimmed candidate text", got)
	}
	if len(gotBody.Contents) != 1 || gotBody.Contents[0].Role != "user" {
		t.Errorf("request contents = %+v", gotBody.Contents)
	}
	if gotBody.Contents[0].Parts[0].Text != "tenant rights" {
		t.Errorf("prompt = %q", gotBody.Contents[0].Parts[0].Text)
	}
	if gotBody.GenerationConfig.Temperature != 0.3 {
		t.Errorf("temperature = %v", gotBody.GenerationConfig.Temperature)
	}
	if gotBody.GenerationConfig.TopK != 40 || gotBody.GenerationConfig.MaxOutputTokens != 8192 {
		t.Errorf("generation config = %+v", gotBody.GenerationConfig)
	}
}

func TestGenerateRateLimited(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))
	got := c.Generate(context.Background(), "hello", 0.3)

	if got != SentinelRateLimited {
		t.Errorf("Generate = %q, want rate-limit sentinel", got)
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("attempts = %d, want 3", n)
	}
}

func TestGenerateEmptyThenValid(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Write([]byte(`{"candidates":[]}`))
			return
		}
		w.Write([]byte(candidateJSON("a valid reply")))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))
	got := c.Generate(context.Background(), "hello", 0.3)

	if got != "a valid reply" {
		t.Errorf("Generate = %q, want the valid reply with no sentinel contamination", got)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("attempts = %d, want 2", n)
	}
}

func TestGenerateNoParts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[]}}]}`))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))
	if got := c.Generate(context.Background(), "hello", 0.3); got != SentinelNoContent {
		t.Errorf("Generate = %q, want no-content sentinel", got)
	}
}

func TestGenerateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))
	got := c.Generate(context.Background(), "hello", 0.3)

	if got != SentinelNetwork {
		t.Errorf("Generate = %q, want network sentinel", got)
	}
	if strings.Contains(got, "test-key") {
		t.Error("sentinel must never leak the credential")
	}
}

func TestGenerateTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(candidateJSON("too late")))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Timeout = 30 * time.Millisecond
	c := New(cfg)

	if got := c.Generate(context.Background(), "hello", 0.3); got != SentinelTimeout {
		t.Errorf("Generate = %q, want timeout sentinel", got)
	}
}

func TestGenerateConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	c := New(testConfig(srv.URL))
	got := c.Generate(context.Background(), "hello", 0.3)

	if got != SentinelNetwork {
		t.Errorf("Generate = %q, want network sentinel", got)
	}
}

func TestGenerateCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.BackoffUnit = time.Hour // backoff would block forever without cancellation
	c := New(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan string, 1)
	go func() { done <- c.Generate(ctx, "hello", 0.3) }()

	select {
	case got := <-done:
		if !IsSentinel(got) {
			t.Errorf("cancelled Generate = %q, want a sentinel", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Generate did not honor context cancellation during backoff")
	}
}

func TestValidateKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(candidateJSON("OK")))
	}))
	defer srv.Close()

	if !New(testConfig(srv.URL)).ValidateKey(context.Background()) {
		t.Error("ValidateKey = false for a working endpoint")
	}

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	if New(testConfig(bad.URL)).ValidateKey(context.Background()) {
		t.Error("ValidateKey = true for a failing endpoint")
	}

	cfg := testConfig(srv.URL)
	cfg.APIKey = ""
	if New(cfg).ValidateKey(context.Background()) {
		t.Error("ValidateKey = true without a key")
	}
}

func TestIsSentinel(t *testing.T) {
	sentinels := []string{
		SentinelNoKey, SentinelRateLimited, SentinelNoResponse,
		SentinelNoContent, SentinelTimeout, SentinelNetwork, SentinelExhausted,
	}
	for _, s := range sentinels {
		if !IsSentinel(s) {
			t.Errorf("IsSentinel(%q) = false", s)
		}
	}
	for _, s := range []string{"", "Hello there", "Your draft [attached] here"} {
		if IsSentinel(s) {
			t.Errorf("IsSentinel(%q) = true", s)
		}
	}
}
