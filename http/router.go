package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// RouterConfig holds everything the HTTP layer needs.
type RouterConfig struct {
	Log                       zerolog.Logger
	LoanHandler               *LoanHandler
	TermRecommendationHandler *TermRecommendationHandler
	RateLimiter               *RateLimiter
	AllowedOrigins            []string
	TrustProxy                bool // take the client address from X-Real-IP / X-Forwarded-For
	RequestTimeout            time.Duration
}

// NewRouter builds the chi router with the middleware stack and all routes.
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Log.With().Str("component", "server").Logger()

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	if cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(loggingMiddleware(log))
	r.Use(middleware.Timeout(timeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", handleHealth)

	r.Route("/loan", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if cfg.RateLimiter != nil {
				r.Use(RateLimitMiddleware(cfg.RateLimiter))
			}
			r.Get("/cost", cfg.LoanHandler.CalculateCost)
			r.Post("/cost", cfg.LoanHandler.CalculateCost)
			r.Post("/recommend-term", cfg.TermRecommendationHandler.RecommendTerm)
		})

		r.Get("/history", cfg.LoanHandler.History)
		r.Get("/history/{id}", cfg.LoanHandler.GetCalculation)
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
}

func loggingMiddleware(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration_ms", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("HTTP request")
		})
	}
}
