package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vanshbadjate07/Nyay-AI/internal/cache"
	"github.com/vanshbadjate07/Nyay-AI/internal/config"
	"github.com/vanshbadjate07/Nyay-AI/internal/gemini"
)

func main() {
	cfg := config.Load()

	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		log.Fatalf("Failed to create upload dir %s: %v", cfg.UploadDir, err)
	}

	gen := gemini.New(gemini.Config{
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		Timeout:    cfg.GeminiTimeout,
		MaxRetries: cfg.GeminiMaxRetries,
	})

	replies := cache.New(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	defer replies.Close()

	srv := newServer(cfg, gen, replies)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.routes(),
	}

	// Graceful shutdown
	go func() {
		log.Printf("NyayAI backend starting on port %s (model %s)", cfg.Port, cfg.Model)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Println("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}

// routes wires every endpoint onto the router.
func (s *server) routes() *mux.Router {
	router := mux.NewRouter()
	router.Use(corsMiddleware(s.cfg.CORSOrigins))

	router.HandleFunc("/health", s.handleHealth).Methods("GET")
	router.HandleFunc("/api/chat", s.handleChat).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/upload", s.handleUpload).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/verify", s.handleVerify).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/summarize", s.handleSummarize).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/draft", s.handleDraft).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/export/pdf", s.handleExportPDF).Methods("POST", "OPTIONS")

	// Metrics endpoint
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return router
}
