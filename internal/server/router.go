package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// WebhookPath receives Telegram updates when the bot runs in webhook mode.
const WebhookPath = "/bot/webhook"

const pingTimeout = 2 * time.Second

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type status struct {
	Status   string `json:"status"`
	Mode     string `json:"mode"`
	Uptime   string `json:"uptime"`
	Started  string `json:"started"`
	Database string `json:"database,omitempty"`
}

// NewRouter sets up the status endpoints and, when webhook is not nil, the update receiver.
// GET / reports liveness only; GET /health also pings db and answers 503 when it is down.
func NewRouter(webhook http.Handler, db Pinger, started time.Time) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	mode := "polling"
	if webhook != nil {
		mode = "webhook"
		r.Method(http.MethodPost, WebhookPath, webhook)
	}

	current := func() status {
		return status{
			Status:  "ok",
			Mode:    mode,
			Uptime:  time.Since(started).Truncate(time.Second).String(),
			Started: started.UTC().Format(time.RFC3339),
		}
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, current())
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		st := current()
		if db == nil {
			writeJSON(w, http.StatusOK, st)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			slog.Warn("health check: database unreachable", "error", err)
			st.Status = "degraded"
			st.Database = "down"
			writeJSON(w, http.StatusServiceUnavailable, st)
			return
		}
		st.Database = "up"
		writeJSON(w, http.StatusOK, st)
	})

	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write response failed", "error", err)
	}
}
