package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/draft-advisor/internal/aggregate"
	"github.com/ramonehamilton/draft-advisor/internal/api/response"
	"github.com/ramonehamilton/draft-advisor/internal/export"
)

// RankingsHandler serves leaderboards and the statistics export.
type RankingsHandler struct {
	snapshots SnapshotProvider
}

// NewRankingsHandler creates a new RankingsHandler.
func NewRankingsHandler(snapshots SnapshotProvider) *RankingsHandler {
	return &RankingsHandler{snapshots: snapshots}
}

// GetRankings returns heroes or skills by win rate. With format=csv the
// leaderboard is returned as a CSV attachment.
func (h *RankingsHandler) GetRankings(w http.ResponseWriter, r *http.Request) {
	kind, err := aggregate.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		response.FromError(w, err)
		return
	}

	tables := h.snapshots.Current().Tables
	switch r.URL.Query().Get("format") {
	case "", string(export.FormatJSON):
		response.Success(w, tables.TopEntities(kind, limit))
	case string(export.FormatCSV):
		rows := export.Rankings(tables, kind, limit)
		if len(rows) == 0 {
			response.NotFound(w, fmt.Errorf("no %s data", kind))
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s_rankings.csv", kind))
		if err := export.ExportToWriter(w, export.FormatCSV, rows, false); err != nil {
			response.InternalError(w, err)
		}
	default:
		response.FromError(w, fmt.Errorf("%w: format must be json or csv", response.ErrBadRequest))
	}
}

// GetStatistics returns every frequency table with Wilson scores.
func (h *RankingsHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, export.BuildStatistics(h.snapshots.Current().Tables))
}
