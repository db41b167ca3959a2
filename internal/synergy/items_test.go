package synergy

import (
	"testing"

	"github.com/ramonehamilton/draft-advisor/internal/aggregate"
	"github.com/ramonehamilton/draft-advisor/internal/battle"
)

func TestHeroStats(t *testing.T) {
	records := pairCorpus()
	// A single game with E is below the partner threshold.
	records = append(records, repeat(1, battle.WinnerTeam1,
		[]battle.HeroEntry{entry("A", "a1"), entry("E", "e1")}, []battle.HeroEntry{entry("X", "x")})...)
	e := newEngine(records)

	got := e.HeroStats("A", []string{"B", "C", "A"})

	if !got.Known || got.Kind != aggregate.KindHero {
		t.Fatalf("expected known hero, got %+v", got)
	}
	if got.Wins != 9 || got.Losses != 2 || got.Games != 11 {
		t.Errorf("unexpected record: %d-%d (%d)", got.Wins, got.Losses, got.Games)
	}
	if got.Confidence <= 0 || got.Confidence >= got.WinRate {
		t.Errorf("confidence %f should be in (0, %f)", got.Confidence, got.WinRate)
	}

	if len(got.TopPartners) != 1 || got.TopPartners[0].Name != "B" {
		t.Errorf("expected only B as top partner, got %+v", got.TopPartners)
	}

	if len(got.TeamPairs) != 2 {
		t.Fatalf("expected pairs with B and C, got %+v", got.TeamPairs)
	}
	if p := got.TeamPairs[0]; p.With != "B" || p.Kind != PairHero || p.Wins != 8 || p.Losses != 2 {
		t.Errorf("unexpected pair with B: %+v", p)
	}
	if p := got.TeamPairs[1]; p.With != "C" || p.Games != 0 || p.Score != 0 {
		t.Errorf("expected empty pair with C: %+v", p)
	}
}

func TestSkillStats(t *testing.T) {
	e := newEngine(pairCorpus())

	got := e.SkillStats("a1", []string{"B", "C"}, []string{"b1", "a1"})
	if !got.Known || got.Games != 10 {
		t.Fatalf("unexpected skill stats: %+v", got)
	}
	if len(got.TopPartners) != 1 || got.TopPartners[0].Name != "b1" {
		t.Errorf("unexpected top partners: %+v", got.TopPartners)
	}

	want := []struct {
		with  string
		kind  string
		games uint
	}{
		{"b1", PairSkill, 10},
		{"B", PairCross, 10},
		{"C", PairCross, 0},
	}
	if len(got.TeamPairs) != len(want) {
		t.Fatalf("expected %d team pairs, got %+v", len(want), got.TeamPairs)
	}
	for i, w := range want {
		p := got.TeamPairs[i]
		if p.With != w.with || p.Kind != w.kind || p.Games != w.games {
			t.Errorf("pair %d: expected %s/%s/%d, got %+v", i, w.with, w.kind, w.games, p)
		}
	}
}

func TestItemStats_Unknown(t *testing.T) {
	e := newEngine(pairCorpus())

	for _, got := range []ItemStats{
		e.HeroStats("Nobody", nil),
		e.SkillStats("nothing", nil, nil),
	} {
		if got.Known || got.Games != 0 || got.WinRate != 0 || got.Confidence != 0 {
			t.Errorf("expected zero stats, got %+v", got)
		}
		if got.TopPartners == nil || got.TeamPairs == nil {
			t.Error("expected empty, non-nil lists")
		}
	}
}
