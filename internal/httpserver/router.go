package httpserver

import (
	"encoding/json"
	"net/http"

	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"opsalert/internal/auth"
	"opsalert/internal/incidents"
)

type RouterConfig struct {
	Processor     *incidents.Processor
	Reader        incidents.Reader // nil disables the read API
	Auth          *auth.Service    // nil disables the read API
	IngestKeyHash string
	Gatherer      prometheus.Gatherer
}

func NewRouter(logger *slog.Logger, rc RouterConfig) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	if rc.Gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(rc.Gatherer, promhttp.HandlerOpts{}))
	}

	mux.Handle("/api/v1/events", &incidents.IngestHandler{
		Processor:     rc.Processor,
		Logger:        logger,
		IngestKeyHash: rc.IngestKeyHash,
	})

	if rc.Reader != nil && rc.Auth != nil {
		secured := auth.JWTMiddleware(rc.Auth)
		mux.Handle("/api/v1/incidents", secured(&incidents.ListHandler{Store: rc.Reader, Logger: logger}))
		mux.Handle("/api/v1/incidents/", secured(&incidents.DetailHandler{Store: rc.Reader, Logger: logger}))
	} else {
		logger.Info("read api disabled", "reason", "OPSALERT_JWT_SECRET not set")
	}

	return mux
}
