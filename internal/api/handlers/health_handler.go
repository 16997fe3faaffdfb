package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/CoderHarshaVardhan/playX/internal/api/types"
	"github.com/CoderHarshaVardhan/playX/pkg/logger"
	appErr "github.com/CoderHarshaVardhan/playX/pkg/errors"
)

// Pinger reports whether a dependency is reachable.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Pinger
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ready"}
	ready := true
	for name, ping := range h.checks {
		if err := ping(ctx); err != nil {
			logger.Ctx(ctx).Warn("readiness check failed", zap.String("check", name), zap.Error(err))
			status[name] = "down"
			ready = false
			continue
		}
		status[name] = "up"
	}
	if !ready {
		status["status"] = "not_ready"
		types.WriteJSON(w, http.StatusServiceUnavailable, types.APIResponse{
			Success: false,
			Data:    status,
			Error:   &types.APIError{Code: string(appErr.CodeUnavailable), Message: "Service not ready."},
		})
		return
	}
	writeJSON(w, http.StatusOK, status)
}
