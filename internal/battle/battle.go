// Package battle defines battle records, their JSON wire shape, and the
// loaders that feed the statistics aggregator.
package battle

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrDrawRecord is returned for battles marked as a draw. Draws are
	// discarded matches and never count as an outcome.
	ErrDrawRecord = errors.New("draw battles are excluded from aggregation")

	// ErrMissingTeam is returned when a record lacks one of its two teams.
	ErrMissingTeam = errors.New("battle record is missing team data")

	// ErrInvalidWinner is returned for winner labels outside 1, 2, unknown and draw.
	ErrInvalidWinner = errors.New("invalid winner label")
)

// Winner identifies which team won a battle.
type Winner int

const (
	// WinnerUnknown means the battle was recorded without a result. Both
	// teams are counted as having lost.
	WinnerUnknown Winner = iota
	WinnerTeam1
	WinnerTeam2
	// WinnerDraw marks a discarded battle.
	WinnerDraw
)

// Side is one of the two teams in a battle.
type Side int

const (
	Team1 Side = 1
	Team2 Side = 2
)

// Sides lists both teams in record order.
var Sides = [2]Side{Team1, Team2}

// ParseWinner converts the wire label to a Winner.
// An empty label is treated as unknown, matching files written before
// results were captured.
func ParseWinner(label string) (Winner, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "1":
		return WinnerTeam1, nil
	case "2":
		return WinnerTeam2, nil
	case "", "unknown":
		return WinnerUnknown, nil
	case "draw":
		return WinnerDraw, nil
	default:
		return WinnerUnknown, fmt.Errorf("%w: %q", ErrInvalidWinner, label)
	}
}

// String returns the wire label.
func (w Winner) String() string {
	switch w {
	case WinnerTeam1:
		return "1"
	case WinnerTeam2:
		return "2"
	case WinnerDraw:
		return "draw"
	default:
		return "unknown"
	}
}

// Won reports whether the given side won.
func (w Winner) Won(side Side) bool {
	return (w == WinnerTeam1 && side == Team1) || (w == WinnerTeam2 && side == Team2)
}

// HeroEntry is one hero on a team with the skills it used.
// The first skill is the hero's signature skill.
type HeroEntry struct {
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

// SignatureSkill returns the first skill, or "" when none were recorded.
func (h HeroEntry) SignatureSkill() string {
	if len(h.Skills) == 0 {
		return ""
	}
	return h.Skills[0]
}

// Record is a single battle. Records are immutable once loaded.
type Record struct {
	SourceID   string
	RecordedAt time.Time
	Team1      []HeroEntry
	Team2      []HeroEntry
	Winner     Winner
}

// Team returns the heroes on the given side.
func (r *Record) Team(side Side) []HeroEntry {
	if side == Team1 {
		return r.Team1
	}
	return r.Team2
}

// Validate reports whether the record can be aggregated.
// An empty team is valid; a missing one is not.
func (r *Record) Validate() error {
	switch r.Winner {
	case WinnerTeam1, WinnerTeam2, WinnerUnknown:
	case WinnerDraw:
		return ErrDrawRecord
	default:
		return fmt.Errorf("%w: %d", ErrInvalidWinner, int(r.Winner))
	}
	if r.Team1 == nil || r.Team2 == nil {
		return ErrMissingTeam
	}
	return nil
}

// wireRecord is the on-disk battle shape: teams keyed "1" and "2".
type wireRecord struct {
	Team1  []HeroEntry `json:"1"`
	Team2  []HeroEntry `json:"2"`
	Winner string      `json:"winner"`
}

// UnmarshalJSON decodes the battle file format. Source metadata is left
// for the loader to fill in.
func (r *Record) UnmarshalJSON(data []byte) error {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	winner, err := ParseWinner(w.Winner)
	if err != nil {
		return err
	}
	r.Team1 = w.Team1
	r.Team2 = w.Team2
	r.Winner = winner
	return nil
}

// MarshalJSON encodes the record in the battle file format.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireRecord{
		Team1:  r.Team1,
		Team2:  r.Team2,
		Winner: r.Winner.String(),
	})
}

// ExcludeDraws returns the records without draws and the number removed.
func ExcludeDraws(records []Record) ([]Record, int) {
	kept := make([]Record, 0, len(records))
	dropped := 0
	for _, rec := range records {
		if rec.Winner == WinnerDraw {
			dropped++
			continue
		}
		kept = append(kept, rec)
	}
	return kept, dropped
}
