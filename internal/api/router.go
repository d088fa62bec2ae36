package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/polyglot-console/backend/internal/api/handlers"
	"github.com/polyglot-console/backend/internal/api/middleware"
	"github.com/polyglot-console/backend/internal/auth"
	"github.com/polyglot-console/backend/internal/config"
	"github.com/polyglot-console/backend/internal/db"
	"github.com/polyglot-console/backend/internal/languages"
	"github.com/polyglot-console/backend/internal/speech"
	"github.com/polyglot-console/backend/internal/translate"
)

func NewRouter(database *db.Database, jwtService *auth.JWTService, cfg *config.Config, translator translate.StreamTranslator, transcriber *speech.Transcriber, synthesizer *speech.Synthesizer) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(middleware.CORSHandler(cfg.CORSOrigins)))

	targets := languages.Resolve(cfg.TargetLangs)

	// Handlers
	authHandler := handlers.NewAuthHandler(database, jwtService)
	sessionHandler := handlers.NewSessionHandler(database, translator, targets, cfg.DebounceWindow)
	speechHandler := handlers.NewSpeechHandler(transcriber, synthesizer)
	languagesHandler := handlers.NewLanguagesHandler(targets)
	settingsHandler := handlers.NewSettingsHandler(database)
	modelsHandler := handlers.NewModelsHandler(database)
	historyHandler := handlers.NewHistoryHandler(database)

	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	speechLimiter := middleware.NewRateLimiter(30, time.Minute)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})

		// Auth (public)
		r.With(loginLimiter.Handler, middleware.MaxBodySize(4*1024)).Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(jwtService))

			// Auth
			r.Get("/auth/me", authHandler.Me)

			// Live console
			r.Get("/session", sessionHandler.Serve)

			// Speech
			r.Group(func(r chi.Router) {
				r.Use(speechLimiter.Handler)
				r.Post("/speech/transcribe", speechHandler.Transcribe)
				r.With(middleware.MaxBodySize(64 * 1024)).Post("/speech/synthesize", speechHandler.Synthesize)
			})

			// Static data
			r.Get("/languages", languagesHandler.List)
			r.Get("/models", modelsHandler.ListModels)

			// History
			r.Get("/history", historyHandler.List)
			r.Delete("/history", historyHandler.Clear)

			// Settings (admin only)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole("admin"))
				r.Get("/settings", settingsHandler.GetSettings)
				r.With(middleware.MaxBodySize(16 * 1024)).Put("/settings", settingsHandler.UpdateSettings)
			})
		})
	})

	return r
}
