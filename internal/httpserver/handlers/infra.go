package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/linkpost/internal/domain"
	"github.com/MrSnakeDoc/linkpost/internal/httpserver/deps"
)

const timeLayout = "2006-01-02 15:04:05"

type componentStatus struct {
	OK          bool              `json:"ok"`
	Mode        string            `json:"mode,omitempty"`
	RecordsKept *int              `json:"records_kept,omitempty"`
	LastWarmUp  string            `json:"last_warm_up,omitempty"`
	Impact      string            `json:"impact,omitempty"`
	Error       string            `json:"error,omitempty"`
	Expr        string            `json:"expr,omitempty"`
	NextRun     string            `json:"next_run,omitempty"`
	LastRun     *domain.RunStatus `json:"last_run,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"history":  historyStatus(d),
			"redis":    pingStatus(r.Context(), d.Redis, "history-memory-only"),
			"ghost":    pingStatus(r.Context(), d.Ghost, "sync-unavailable"),
			"schedule": scheduleStatus(d),
		}
		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

// determineMode reports "critical" when Ghost is unreachable and "degraded"
// when history is not persisted.
func determineMode(components map[string]componentStatus) string {
	if ghost, ok := components["ghost"]; ok && !ghost.OK {
		return "critical"
	}
	if redis, ok := components["redis"]; ok && !redis.OK {
		return "degraded"
	}
	return "optimal"
}

func historyStatus(d deps.Deps) componentStatus {
	if d.History == nil {
		return componentStatus{OK: false, Error: "history not initialized"}
	}

	count := d.History.Count()
	st := componentStatus{OK: true, Mode: "memory", RecordsKept: &count}
	if d.Redis != nil {
		st.Mode = "redis"
	}
	if warm := d.History.GetLastWarmUp(); !warm.IsZero() {
		st.LastWarmUp = warm.Format(timeLayout)
	}
	if last, ok := d.History.LastRun(); ok {
		st.LastRun = &last
	}
	return st
}

func pingStatus(parent context.Context, p deps.Pinger, impact string) componentStatus {
	if p == nil {
		return componentStatus{OK: false, Mode: "disabled", Impact: impact}
	}

	ctx, cancel := context.WithTimeout(parent, pingTimeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return componentStatus{OK: false, Mode: "degraded", Impact: impact, Error: err.Error()}
	}
	return componentStatus{OK: true, Mode: "optimal"}
}

func scheduleStatus(d deps.Deps) componentStatus {
	if d.Schedule == nil {
		return componentStatus{OK: true, Mode: "on-demand"}
	}
	st := componentStatus{OK: true, Mode: "cron", Expr: d.Schedule.Expr()}
	if next := d.Schedule.Next(); !next.IsZero() {
		st.NextRun = next.Format(time.RFC3339)
	}
	return st
}
