package handlers

import (
	"context"
	"net/http"

	"github.com/MrSnakeDoc/linkpost/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkpost/internal/logger"
)

// Sync runs one invocation and answers with its plain text summary. Any
// failure is returned as a 500 carrying the error message.
func Sync(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if d.SyncTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d.SyncTimeout)
			defer cancel()
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")

		res, err := d.Syncer.Run(ctx)
		if res.RunID != "" {
			w.Header().Set("X-Run-ID", res.RunID)
		}
		if err != nil {
			d.Logger.Debug("sync request failed",
				logger.String("run_id", res.RunID),
				logger.Error(err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(res.Message()))
	}
}
