package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHealthRouter builds the liveness-only HTTP surface meant to listen on
// Config.Server.HealthAddr.
func NewHealthRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(5 * time.Second))
	r.Get("/healthz", h.HealthLive)
	return r
}

// NewMetricsRouter builds the Prometheus exposition surface meant to
// listen on Config.Metrics.ListenAddr, kept on its own address so an
// operator can firewall metrics away from the public liveness check.
func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Handle("/metrics", promhttp.Handler())
	return r
}
