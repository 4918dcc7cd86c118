package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/plastinin/doctext/internal/adapter/http/handler"
	httpmiddleware "github.com/plastinin/doctext/internal/adapter/http/middleware"
	"go.uber.org/zap"
)

// NewRouter создаёт и настраивает HTTP роутер.
// jobHandler может быть nil, если журнал выключен.
func NewRouter(
	webhookHandler *handler.WebhookHandler,
	healthHandler *handler.HealthHandler,
	jobHandler *handler.JobHandler,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpmiddleware.NewLoggingMiddleware(logger, "/health"))
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler.Check)

	r.Post("/telegram/webhook", webhookHandler.Handle)

	if jobHandler != nil {
		r.Route("/api/v1", func(r chi.Router) {
			r.Use(middleware.Compress(5))
			r.Route("/jobs", func(r chi.Router) {
				r.Get("/", jobHandler.List)
				r.Get("/{id}", jobHandler.GetByID)
			})
		})
	}

	return r
}
