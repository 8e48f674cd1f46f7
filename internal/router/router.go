package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"kisansathi-backend/internal/handlers"
	"kisansathi-backend/internal/middleware"
)

func New(
	chatHandler *handlers.ChatHandler,
	diagnoseHandler *handlers.DiagnoseHandler,
	weatherHandler *handlers.WeatherHandler,
	marketHandler *handlers.MarketHandler,
	schemeHandler *handlers.SchemeHandler,
	chatLimiter *middleware.RateLimiter,
	diagnoseLimiter *middleware.RateLimiter,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(frontendURL))

	// Health check
	r.Get("/health", handlers.Health)

	r.Route("/api", func(r chi.Router) {

		// ──── Assistant Routes (rate limited per IP) ────
		r.With(chatLimiter.Middleware).Post("/chat", chatHandler.Chat)
		r.With(diagnoseLimiter.Middleware).Post("/diagnose", diagnoseHandler.Diagnose)

		// ──── Weather ────
		r.Get("/weather", weatherHandler.Current)

		// ──── Market Routes ────
		r.Route("/market", func(r chi.Router) {
			r.Get("/", marketHandler.Rates)
			r.Post("/profit", marketHandler.Profit)
		})

		// ──── Schemes ────
		r.Get("/schemes", schemeHandler.List)
	})

	return r
}
