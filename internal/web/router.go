// Package web is the HTTP surface of the service: the Bot API webhook, the
// chat update dispatcher behind it, and the operator endpoints.
package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/notevault/internal/logging"
	"github.com/dmitrijs2005/notevault/internal/services"
)

// NewRouter mounts the webhook and the operator endpoints. The operator
// group is gated by a bearer token; /metrics sits behind the same gate
// because the counters reveal usage patterns.
func NewRouter(
	bot *Bot,
	lifecycle *services.LifecycleService,
	m *Metrics,
	webhookSecret string,
	secretKey []byte,
	logger logging.Logger,
) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(m.Middleware)

	r.Method(http.MethodPost, "/telegram/webhook", NewWebhookHandler(bot, webhookSecret, logger))

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(secretKey, logger))
		r.Get("/status", statusHandler(lifecycle, logger))
		r.Method(http.MethodGet, "/metrics", m.Handler())
	})

	return r
}

func statusHandler(lifecycle *services.LifecycleService, logger logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		stats, err := lifecycle.Stats(ctx)
		if err != nil {
			logger.Error(ctx, "stats query failed", "error", err)
			writeJSON(ctx, w, logger, http.StatusInternalServerError, errorBody("internal error"))
			return
		}

		writeJSON(ctx, w, logger, http.StatusOK, stats)
	}
}
