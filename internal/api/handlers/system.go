package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/ramonehamilton/draft-advisor/internal/advisor"
	"github.com/ramonehamilton/draft-advisor/internal/api/response"
	"github.com/ramonehamilton/draft-advisor/internal/version"
)

// Reloader rebuilds the snapshot from its source.
type Reloader interface {
	SnapshotProvider
	Reload(ctx context.Context) (*advisor.Snapshot, error)
}

// SystemHandler serves snapshot status and manual reloads.
type SystemHandler struct {
	advisor Reloader
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(advisor Reloader) *SystemHandler {
	return &SystemHandler{advisor: advisor}
}

// StatusResponse describes the snapshot being served.
type StatusResponse struct {
	Version         string    `json:"version"`
	SnapshotVersion uint64    `json:"snapshot_version"`
	Source          string    `json:"source"`
	LoadedAt        time.Time `json:"loaded_at"`
	Records         int       `json:"records"`
	Battles         int       `json:"total_battles"`
	Skipped         int       `json:"skipped"`
}

func newStatus(snap *advisor.Snapshot) StatusResponse {
	summary := snap.Tables.Summary()
	return StatusResponse{
		Version:         version.GetVersion(),
		SnapshotVersion: snap.Version,
		Source:          snap.Source,
		LoadedAt:        snap.LoadedAt,
		Records:         snap.Records,
		Battles:         summary.Battles,
		Skipped:         summary.Skipped,
	}
}

// GetStatus returns the current snapshot's metadata.
func (h *SystemHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	response.Success(w, newStatus(h.advisor.Current()))
}

// Reload rebuilds the snapshot. The previous snapshot keeps serving if the
// reload fails.
func (h *SystemHandler) Reload(w http.ResponseWriter, r *http.Request) {
	snap, err := h.advisor.Reload(r.Context())
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.Success(w, newStatus(snap))
}
