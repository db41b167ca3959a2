package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/draft-advisor/internal/api/response"
)

const (
	defaultTopK     = 10
	defaultMinGames = 2
)

// SynergyHandler serves pairwise synergy queries.
type SynergyHandler struct {
	snapshots SnapshotProvider
}

// NewSynergyHandler creates a new SynergyHandler.
func NewSynergyHandler(snapshots SnapshotProvider) *SynergyHandler {
	return &SynergyHandler{snapshots: snapshots}
}

func synergyParams(r *http.Request) (int, uint, error) {
	topK, err := intParam(r, "top_k", defaultTopK)
	if err != nil {
		return 0, 0, err
	}
	minGames, err := uintParam(r, "min_games", defaultMinGames)
	if err != nil {
		return 0, 0, err
	}
	return topK, minGames, nil
}

// GetHeroSynergies returns the best partner heroes for a hero.
// A top_k of 0 returns every partner.
func (h *SynergyHandler) GetHeroSynergies(w http.ResponseWriter, r *http.Request) {
	topK, minGames, err := synergyParams(r)
	if err != nil {
		response.FromError(w, err)
		return
	}
	partners := h.snapshots.Current().Synergy.HeroSynergies(chi.URLParam(r, "name"), topK, minGames)
	response.Success(w, partners)
}

// GetSkillSynergies returns the best partner skills for a skill, also
// considering its record with the heroes in current_heroes.
func (h *SynergyHandler) GetSkillSynergies(w http.ResponseWriter, r *http.Request) {
	topK, minGames, err := synergyParams(r)
	if err != nil {
		response.FromError(w, err)
		return
	}
	partners := h.snapshots.Current().Synergy.SkillSynergies(
		chi.URLParam(r, "name"), listParam(r, "current_heroes"), topK, minGames)
	response.Success(w, partners)
}

// CrossSynergyResponse is the score of one hero and skill together.
type CrossSynergyResponse struct {
	Hero     string  `json:"hero"`
	Skill    string  `json:"skill"`
	MinGames uint    `json:"min_games"`
	Score    float64 `json:"score"`
}

// GetCrossSynergy returns the synergy of the hero and skill query parameters.
func (h *SynergyHandler) GetCrossSynergy(w http.ResponseWriter, r *http.Request) {
	hero := r.URL.Query().Get("hero")
	skill := r.URL.Query().Get("skill")
	if hero == "" || skill == "" {
		response.FromError(w, fmt.Errorf("%w: hero and skill are required", response.ErrBadRequest))
		return
	}
	minGames, err := uintParam(r, "min_games", defaultMinGames)
	if err != nil {
		response.FromError(w, err)
		return
	}

	score := h.snapshots.Current().Synergy.SkillHeroSynergy(hero, skill, minGames)
	response.Success(w, CrossSynergyResponse{Hero: hero, Skill: skill, MinGames: minGames, Score: score})
}
