package websocket

import (
	"log"
	"time"

	"github.com/ramonehamilton/draft-advisor/internal/advisor"
)

// EventCorpusReloaded is broadcast after every successful snapshot swap.
const EventCorpusReloaded = "corpus.reloaded"

// ReloadPayload describes the snapshot that became current.
type ReloadPayload struct {
	Version  uint64    `json:"version"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`
	Battles  int       `json:"total_battles"`
	Skipped  int       `json:"skipped"`
	Heroes   int       `json:"heroes"`
	Skills   int       `json:"skills"`
}

// NewReloadPayload summarizes snap for clients.
func NewReloadPayload(snap *advisor.Snapshot) ReloadPayload {
	summary := snap.Tables.Summary()
	counts := snap.Tables.Counts()
	return ReloadPayload{
		Version:  snap.Version,
		Source:   snap.Source,
		LoadedAt: snap.LoadedAt,
		Battles:  summary.Battles,
		Skipped:  summary.Skipped,
		Heroes:   counts["hero_stats"],
		Skills:   counts["skill_stats"],
	}
}

// SnapshotEvent wraps snap as a reload event.
func SnapshotEvent(snap *advisor.Snapshot) Event {
	return Event{Type: EventCorpusReloaded, Data: NewReloadPayload(snap)}
}

// ReloadObserver returns a callback for advisor.Service.OnReload that
// forwards each new snapshot to the hub's clients.
func ReloadObserver(hub *Hub) func(*advisor.Snapshot) {
	return func(snap *advisor.Snapshot) {
		if hub == nil {
			return
		}
		if hub.BroadcastEvent(SnapshotEvent(snap)) {
			log.Printf("[WebSocket] Broadcast %s v%d to %d clients", EventCorpusReloaded, snap.Version, hub.ClientCount())
		}
	}
}
