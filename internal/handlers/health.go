package handlers

import (
	"context"
	"net/http"
	"time"
)

// StoreChecker reports whether the backing product store is reachable.
type StoreChecker func(ctx context.Context) error

// HealthHandlers serves the /api/health endpoint.
type HealthHandlers struct {
	check   StoreChecker
	timeout time.Duration
}

// NewHealthHandlers constructs health handlers. A nil checker reports the
// store as unconfigured rather than failing.
func NewHealthHandlers(check StoreChecker) *HealthHandlers {
	return &HealthHandlers{check: check, timeout: 1500 * time.Millisecond}
}

// Health reports API liveness and store connectivity.
func (h *HealthHandlers) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	store := map[string]any{"status": "unconfigured", "connected": false}

	if h.check != nil {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()
		if err := h.check(ctx); err != nil {
			status = "warning"
			store["status"] = "disconnected"
		} else {
			store["status"] = "connected"
			store["connected"] = true
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   status,
		"message":  "Warli API is running",
		"database": store,
	})
}
