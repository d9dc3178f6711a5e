package handlers

import (
	"net/http"
	"strconv"

	"github.com/MrSnakeDoc/linkpost/internal/domain"
	"github.com/MrSnakeDoc/linkpost/internal/httpserver/deps"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

type historyResponse struct {
	Total   int                  `json:"total"`
	Records []*domain.SyncRecord `json:"records"`
}

// History lists sync records newest first. ?limit caps the list.
func History(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultHistoryLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			limit = min(n, maxHistoryLimit)
		}

		records := []*domain.SyncRecord{}
		total := 0
		if d.History != nil {
			all := d.History.GetAllRecords()
			total = len(all)
			if len(all) > limit {
				all = all[:limit]
			}
			records = append(records, all...)
		}

		writeJSON(w, http.StatusOK, historyResponse{Total: total, Records: records})
	}
}
