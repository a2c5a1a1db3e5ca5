package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wyg1997/ActionsBot/config"
	"github.com/wyg1997/ActionsBot/internal/interfaces/http/handler"
)

// NewRouter wires the webhook and the admin endpoints. Admin endpoints live
// under the secret path; without one only /setup is reachable.
func NewRouter(cfg *config.ServerConfig, telegram *handler.TelegramHandler, admin *handler.AdminHandler, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	r.Post("/", telegram.Webhook)

	if cfg.SecretPath == "" {
		r.Get("/setup", admin.Setup)
		return r
	}

	r.Route("/"+cfg.SecretPath, func(r chi.Router) {
		r.Get("/", admin.Index)
		r.Get("/health", admin.Health)
		r.Get("/setup", admin.Setup)
		r.Get("/webhook-info", admin.WebhookInfo)
		r.Get("/delete-webhook", admin.DeleteWebhook)
		r.Get("/test", admin.Test)
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	})

	return r
}

func notFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
}
