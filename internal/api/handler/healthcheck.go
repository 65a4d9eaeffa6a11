package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/media-pacing-api/infrastructure/warehouse"
)

const readinessTimeout = 5 * time.Second

// WarehouseProber é a parte do pool usada pela verificação de prontidão
type WarehouseProber interface {
	Probe(ctx context.Context, query string, args ...any) warehouse.Outcome
	Stats() warehouse.Stats
}

func HealthcheckHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := w.Write([]byte(time.Now().String()))
		if err != nil {
			logrus.WithError(err).Warn("error responding to healthcheck")
		}
	})
}

// ReadinessHandler executa uma consulta trivial no warehouse pelo pool
func ReadinessHandler(prober WarehouseProber) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		outcome := prober.Probe(ctx, "SELECT 1")
		stats := prober.Stats()

		response := map[string]any{
			"status":    outcome.Status,
			"pool_open": stats.Open,
			"pool_idle": stats.Idle,
			"pool_max":  stats.Max,
		}

		if !outcome.OK() {
			logrus.WithError(outcome.Err).Warn("readiness: warehouse indisponível")
			response["error"] = outcome.Err.Error()
			writeJSON(w, http.StatusServiceUnavailable, response)
			return
		}

		writeJSON(w, http.StatusOK, response)
	})
}
