package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/polyglot-console/backend/internal/api"
	"github.com/polyglot-console/backend/internal/auth"
	"github.com/polyglot-console/backend/internal/config"
	"github.com/polyglot-console/backend/internal/db"
	"github.com/polyglot-console/backend/internal/languages"
	"github.com/polyglot-console/backend/internal/speech"
	"github.com/polyglot-console/backend/internal/translate"
)

func main() {
	cfg := config.Load()

	// Ensure data directory exists
	os.MkdirAll(cfg.DataPath, 0755)

	// Initialize database
	database, err := db.NewSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Ensure admin user exists
	if err := database.EnsureAdmin(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}
	log.Printf("Admin user ensured: %s", cfg.AdminUsername)

	// Initialize JWT service
	jwtService := auth.NewJWTService(cfg.JWTSecret)

	// Model clients resolve their key and model from settings on every call,
	// so API key changes take effect without a restart
	apiKey := func() string { return database.GetSetting("gemini_api_key", "") }
	translator := translate.NewGeminiTranslator(apiKey, func() string {
		return database.GetSetting("gemini_model", "")
	})
	transcriber := speech.NewTranscriber(apiKey)
	synthesizer := speech.NewSynthesizer(apiKey, func() string {
		return database.GetSetting("tts_model", "")
	})

	targets := languages.Resolve(cfg.TargetLangs)
	if len(targets) == 0 {
		log.Fatalf("No valid target languages in TARGET_LANGS: %v", cfg.TargetLangs)
	}
	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = t.Code
	}
	log.Printf("Target languages: [%s], debounce window: %s", strings.Join(names, ", "), cfg.DebounceWindow)

	// Create router
	router := api.NewRouter(database, jwtService, cfg, translator, transcriber, synthesizer)

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Starting server on %s", addr)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		os.Exit(0)
	}()

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
