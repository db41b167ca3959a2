package handlers

import (
	"fmt"
	"net/http"

	"github.com/ramonehamilton/draft-advisor/internal/aggregate"
	"github.com/ramonehamilton/draft-advisor/internal/api/response"
	"github.com/ramonehamilton/draft-advisor/internal/recommendations"
)

// RecommendationHandler serves draft round recommendations.
type RecommendationHandler struct {
	snapshots SnapshotProvider
	hero      recommendations.HeroTunables
	skill     recommendations.SkillTunables
}

// NewRecommendationHandler creates a handler that scores with the given
// default tunables. Requests may override any of them.
func NewRecommendationHandler(snapshots SnapshotProvider, hero recommendations.HeroTunables, skill recommendations.SkillTunables) *RecommendationHandler {
	return &RecommendationHandler{snapshots: snapshots, hero: hero, skill: skill}
}

// RecommendRequest asks for the best of several candidate sets.
type RecommendRequest struct {
	Kind          aggregate.Kind                `json:"kind"`
	Candidates    [][]string                    `json:"candidates"`
	CurrentHeroes []string                      `json:"current_heroes"`
	CurrentSkills []string                      `json:"current_skills"`
	HeroTunables  recommendations.HeroTunables  `json:"hero_tunables"`
	SkillTunables recommendations.SkillTunables `json:"skill_tunables"`
}

// RecommendResponse is the scored round.
type RecommendResponse struct {
	*recommendations.Result
	RecommendedSet  []string `json:"recommended_set"`
	SnapshotVersion uint64   `json:"snapshot_version"`
}

// Recommend scores the candidate sets of one draft round.
func (h *RecommendationHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	req := RecommendRequest{HeroTunables: h.hero, SkillTunables: h.skill}
	if err := decodeJSON(r, &req); err != nil {
		response.FromError(w, err)
		return
	}

	kind, err := aggregate.ParseKind(string(req.Kind))
	if err != nil {
		response.FromError(w, err)
		return
	}

	snap := h.snapshots.Current()
	var result *recommendations.Result
	switch kind {
	case aggregate.KindHero:
		result, err = snap.Scorer.RecommendHeroSet(req.Candidates, req.CurrentHeroes, req.HeroTunables)
	default:
		result, err = snap.Scorer.RecommendSkillSet(req.Candidates, req.CurrentHeroes, req.CurrentSkills, req.SkillTunables)
	}
	if err != nil {
		response.FromError(w, fmt.Errorf("recommend %s set: %w", kind, err))
		return
	}

	response.Success(w, RecommendResponse{
		Result:          result,
		RecommendedSet:  req.Candidates[result.RecommendedIndex],
		SnapshotVersion: snap.Version,
	})
}
