// cmd/worker-manager/server.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const probeTimeout = 2 * time.Second

// probe checks one backing dependency.
type probe func(ctx context.Context) error

func newServer(addr string, probes map[string]probe, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": "healthy"})
	})
	mux.HandleFunc("/ready", readyHandler(probes, log))
	mux.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// readyHandler reports 503 until every probe passes.
func readyHandler(probes map[string]probe, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
		defer cancel()

		checks := make(map[string]string, len(probes))
		status := http.StatusOK
		for name, check := range probes {
			if err := check(ctx); err != nil {
				log.Warn("readiness probe failed", zap.String("dependency", name), zap.Error(err))
				checks[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}

		state := "ready"
		if status != http.StatusOK {
			state = "not_ready"
		}
		writeJSON(w, status, map[string]interface{}{"status": state, "checks": checks})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
