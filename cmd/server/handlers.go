package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vanshbadjate07/Nyay-AI/internal/cache"
	"github.com/vanshbadjate07/Nyay-AI/internal/config"
	"github.com/vanshbadjate07/Nyay-AI/internal/export"
	"github.com/vanshbadjate07/Nyay-AI/internal/gate"
	"github.com/vanshbadjate07/Nyay-AI/internal/gemini"
	"github.com/vanshbadjate07/Nyay-AI/internal/ingestion"
	"github.com/vanshbadjate07/Nyay-AI/internal/language"
)

var allowedExts = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".docx": true,
}

const systemPreamble = `You are NyayAI, a friendly and helpful Indian legal assistant. Your purpose is to help citizens understand Indian law, legal procedures, and their rights in a simple and conversational way.
You greet users warmly, answer questions about Indian law in plain language, explain legal processes and obligations clearly, help with legal documents (RTI, FIR, complaints, notices), and suggest next steps when needed.
You do not answer questions about resumes, job applications, company executives, recipes, movies, or sports; politely redirect such questions to legal topics.
Be conversational, use examples for complex concepts, and always include this disclaimer when giving legal guidance: 'Note: This is AI-generated guidance. For specific legal matters, please consult a qualified lawyer.'`

const offTopicReply = `I appreciate your question, but I'm specifically designed to help with legal matters related to Indian law.

I can help you with:
- Understanding your legal rights and obligations
- Court procedures and legal processes
- Filing FIR, RTI applications, and complaints
- Legal documents and contracts
- Consumer protection and disputes
- Property, family, and employment law

For example, you can ask:
- "How do I file an RTI application?"
- "What are my rights as a tenant?"
- "How to file a consumer complaint?"

Feel free to ask me anything related to Indian law!`

// server bundles the request handlers with their dependencies. Everything
// here is read-only after construction, so handlers are safe to run
// concurrently.
type server struct {
	cfg       config.Config
	extractor *ingestion.Extractor
	gemini    *gemini.Client
	cache     *cache.Cache
}

func newServer(cfg config.Config, gen *gemini.Client, replies *cache.Cache) *server {
	return &server{
		cfg:       cfg,
		extractor: ingestion.New(cfg.MinTextLen),
		gemini:    gen,
		cache:     replies,
	}
}

type chatRequest struct {
	Messages []gemini.Message `json:"messages"`
	Language string           `json:"language,omitempty"`
}

type textRequest struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

type exportRequest struct {
	Content  string `json:"content"`
	Filename string `json:"filename,omitempty"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, 15*time.Second)
	defer cancel()

	apiStatus := "error"
	if s.gemini.ValidateKey(ctx) {
		apiStatus = "connected"
	}

	writeJSONResponse(w, map[string]string{
		"status":     "ok",
		"gemini_api": apiStatus,
		"model":      s.gemini.Model(),
	})
}

func (s *server) handleChat(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		requestDuration.WithLabelValues("POST", "/api/chat").Observe(time.Since(start).Seconds())
	}()

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		requestsTotal.WithLabelValues("POST", "/api/chat", "error").Inc()
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var lastUserMsg string
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			lastUserMsg = req.Messages[i].Content
			break
		}
	}
	if lastUserMsg == "" {
		requestsTotal.WithLabelValues("POST", "/api/chat", "error").Inc()
		writeJSONError(w, "No user message found", http.StatusBadRequest)
		return
	}

	if gate.Classify(lastUserMsg) != gate.Legal {
		requestsTotal.WithLabelValues("POST", "/api/chat", "redirected").Inc()
		writeJSONResponse(w, map[string]string{"reply": offTopicReply})
		return
	}

	prompt := gemini.BuildChatPrompt(systemPreamble, gemini.LanguageNote(req.Language), req.Messages)
	reply := s.gemini.Generate(r.Context(), prompt, 0.3)
	geminiCallsTotal.WithLabelValues(generationStatus(gemini.IsSentinel(reply))).Inc()

	requestsTotal.WithLabelValues("POST", "/api/chat", "success").Inc()
	writeJSONResponse(w, map[string]string{"reply": reply})
}

func (s *server) handleUpload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		requestDuration.WithLabelValues("POST", "/api/upload").Observe(time.Since(start).Seconds())
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		requestsTotal.WithLabelValues("POST", "/api/upload", "error").Inc()
		writeJSONError(w, "Could not read uploaded file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Filename == "" {
		requestsTotal.WithLabelValues("POST", "/api/upload", "error").Inc()
		writeJSONError(w, "No filename provided.", http.StatusBadRequest)
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExts[ext] {
		requestsTotal.WithLabelValues("POST", "/api/upload", "error").Inc()
		writeJSONError(w, fmt.Sprintf("Unsupported file type %q. Allowed types: .pdf, .jpg, .jpeg, .png, .docx", ext), http.StatusBadRequest)
		return
	}

	// Size checks happen before any extraction work. The reader is capped
	// one byte past the limit so oversize uploads are detected without
	// buffering the whole body.
	content, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxFileBytes+1))
	if err != nil {
		requestsTotal.WithLabelValues("POST", "/api/upload", "error").Inc()
		writeJSONError(w, "Could not read uploaded file: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(content) == 0 {
		requestsTotal.WithLabelValues("POST", "/api/upload", "error").Inc()
		writeJSONError(w, "File is empty.", http.StatusBadRequest)
		return
	}
	if int64(len(content)) > s.cfg.MaxFileBytes {
		requestsTotal.WithLabelValues("POST", "/api/upload", "error").Inc()
		writeJSONError(w, fmt.Sprintf("File too large. Maximum allowed: %d MB.", s.cfg.MaxFileBytes>>20), http.StatusBadRequest)
		return
	}

	fileID := uuid.NewString()
	savedPath := filepath.Join(s.cfg.UploadDir, fileID+ext)
	if err := os.WriteFile(savedPath, content, 0600); err != nil {
		requestsTotal.WithLabelValues("POST", "/api/upload", "error").Inc()
		writeJSONError(w, "Could not store uploaded file", http.StatusInternalServerError)
		return
	}
	// the temp file goes away on every exit path
	defer func() {
		if err := os.Remove(savedPath); err != nil {
			log.Printf("Warning: failed to remove temp file %s: %v", savedPath, err)
		}
	}()

	text, err := s.extractor.Extract(savedPath, ext)
	if err != nil {
		status := http.StatusInternalServerError
		var insufficientErr *ingestion.InsufficientTextError
		if errors.Is(err, ingestion.ErrEmptyFile) || errors.As(err, &insufficientErr) {
			status = http.StatusBadRequest
		}
		extractionsTotal.WithLabelValues(ext, "error").Inc()
		requestsTotal.WithLabelValues("POST", "/api/upload", "error").Inc()
		writeJSONError(w, "Error processing file: "+err.Error(), status)
		return
	}
	extractionsTotal.WithLabelValues(ext, "success").Inc()

	requestsTotal.WithLabelValues("POST", "/api/upload", "success").Inc()
	writeJSONResponse(w, map[string]interface{}{
		"file_id":           fileID,
		"filename":          header.Filename,
		"text":              text,
		"detected_language": language.Detect(text),
		"text_length":       len(text),
	})
}

func (s *server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	writeJSONResponse(w, map[string]string{"label": string(gate.Classify(req.Text))})
}

func (s *server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	s.handleGeneration(w, r, "/api/summarize", "summary", 0.4, gemini.SummarizePrompt)
}

func (s *server) handleDraft(w http.ResponseWriter, r *http.Request) {
	s.handleGeneration(w, r, "/api/draft", "draft", 0.5, gemini.DraftPrompt)
}

// handleGeneration is the shared summarize/draft path: cache lookup, prompt
// build, remote call, cache fill. Sentinel replies are returned to the user
// but never cached.
func (s *server) handleGeneration(w http.ResponseWriter, r *http.Request, endpoint, kind string, temperature float64, buildPrompt func(text, language string) string) {
	start := time.Now()
	defer func() {
		requestDuration.WithLabelValues("POST", endpoint).Observe(time.Since(start).Seconds())
	}()

	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		requestsTotal.WithLabelValues("POST", endpoint, "error").Inc()
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if reply, ok := s.cache.Get(r.Context(), kind, req.Text, req.Language); ok {
		cacheHitsTotal.Inc()
		requestsTotal.WithLabelValues("POST", endpoint, "success").Inc()
		writeJSONResponse(w, map[string]string{kind: reply})
		return
	}
	cacheMissesTotal.Inc()

	reply := s.gemini.Generate(r.Context(), buildPrompt(req.Text, req.Language), temperature)
	sentinel := gemini.IsSentinel(reply)
	geminiCallsTotal.WithLabelValues(generationStatus(sentinel)).Inc()
	if !sentinel {
		s.cache.Set(r.Context(), kind, req.Text, req.Language, reply)
	}

	requestsTotal.WithLabelValues("POST", endpoint, "success").Inc()
	writeJSONResponse(w, map[string]string{kind: reply})
}

func (s *server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	data, err := export.Render(req.Content)
	if err != nil {
		writeJSONError(w, "Could not render PDF: "+err.Error(), http.StatusInternalServerError)
		return
	}

	filename := sanitizeFilename(req.Filename)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(data)
}

// sanitizeFilename strips path separators so a client-supplied name cannot
// escape into the filesystem of whoever saves the download.
func sanitizeFilename(name string) string {
	if name == "" {
		name = "nyayai_output"
	}
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	return name + ".pdf"
}

// contextWithTimeout derives a handler context that also respects client
// disconnects.
func contextWithTimeout(r *http.Request, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), d)
}

func writeJSONResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
