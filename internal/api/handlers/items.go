package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/draft-advisor/internal/aggregate"
	"github.com/ramonehamilton/draft-advisor/internal/api/response"
)

// ItemsHandler serves the hero and skill catalog and per-item statistics.
type ItemsHandler struct {
	snapshots SnapshotProvider
}

// NewItemsHandler creates a new ItemsHandler.
func NewItemsHandler(snapshots SnapshotProvider) *ItemsHandler {
	return &ItemsHandler{snapshots: snapshots}
}

// ItemsResponse lists every selectable hero and skill.
type ItemsResponse struct {
	Heroes []string `json:"heroes"`
	Skills []string `json:"skills"`
}

// GetItems returns the catalog's heroes and skills. Without a catalog the
// names seen in battles are returned instead.
func (h *ItemsHandler) GetItems(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshots.Current()

	heroes := snap.Catalog.Heroes()
	if len(heroes) == 0 {
		heroes = snap.Tables.Names(aggregate.KindHero)
	}
	skills := snap.Catalog.Skills()
	if len(skills) == 0 {
		skills = snap.Tables.Names(aggregate.KindSkill)
	}

	response.Success(w, ItemsResponse{Heroes: heroes, Skills: skills})
}

// GetItem returns the statistics of one hero or skill, with its pair
// records against the heroes and skills given in current_heroes and
// current_skills.
func (h *ItemsHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	kind, err := aggregate.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	name := chi.URLParam(r, "name")
	currentHeroes := listParam(r, "current_heroes")

	engine := h.snapshots.Current().Synergy
	if kind == aggregate.KindHero {
		response.Success(w, engine.HeroStats(name, currentHeroes))
		return
	}
	response.Success(w, engine.SkillStats(name, currentHeroes, listParam(r, "current_skills")))
}

// GetAnalytics returns the corpus dashboard.
func (h *ItemsHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.snapshots.Current().Tables.Analytics())
}
