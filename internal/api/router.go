// Package api exposes the tutoring engine as a JSON HTTP API.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/auth"
)

// Options configure the router.
type Options struct {
	CORSOrigins []string
	Timeout     time.Duration
	Logger      *slog.Logger

	// Chat mounts the tutor chat routes when set.
	Chat Chat

	// RequestLog enables chi's per-request access log.
	RequestLog bool
}

// NewRouter mounts every route on a chi router.
func NewRouter(t Tutor, a *auth.Service, opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "api")
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP)
	if opts.RequestLog {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Sockets outlive any request timeout.
	if opts.Chat != nil {
		r.Get("/ws/chat", chatSocketHandler(opts.Chat, a, opts.CORSOrigins, log))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(opts.Timeout))

		r.Get("/healthz", healthHandler())
		r.Post("/auth/register", registerHandler(a, log))
		r.Post("/auth/login", loginHandler(a, log))

		r.Route("/api", func(pr chi.Router) {
			pr.Use(a.Middleware(func(w http.ResponseWriter, r *http.Request, err error) {
				writeError(w, r, log, err)
			}))

			pr.Get("/stories", listStoriesHandler(t, log))
			pr.Get("/stories/{storyID}", getStoryHandler(t, log))

			pr.Route("/sessions", func(sr chi.Router) {
				sr.Post("/", startSessionHandler(t, log))
				sr.Get("/", listSessionsHandler(t, log))
				sr.Route("/{sessionID}", func(sr chi.Router) {
					sr.Get("/", getSessionHandler(t, log))
					sr.Post("/scenes", completeSceneHandler(t, log))
					sr.Post("/quiz", submitQuizHandler(t, log))
					sr.Get("/quiz", quizResultsHandler(t, log))
				})
			})

			pr.Get("/progress", progressHandler(t, log))

			if c := opts.Chat; c != nil {
				pr.Route("/chat", func(cr chi.Router) {
					cr.Post("/", chatHandler(c, log))
					cr.Post("/clear", clearChatHandler(c))
					cr.Get("/suggestions", chatSuggestionsHandler(c))
					cr.Get("/context/{storyID}", chatContextHandler(c, log))
					cr.Get("/status", chatStatusHandler(c))
				})
			}
		})
	})
	return r
}
