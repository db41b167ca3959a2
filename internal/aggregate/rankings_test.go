package aggregate

import (
	"testing"

	"github.com/ramonehamilton/draft-advisor/internal/battle"
)

func rankingCorpus() []battle.Record {
	win := func(id string, t1, t2 []battle.HeroEntry) battle.Record {
		return record(id, battle.WinnerTeam1, t1, t2)
	}
	return []battle.Record{
		win("1", []battle.HeroEntry{hero("A", "x"), hero("B", "y")}, []battle.HeroEntry{hero("C", "z")}),
		win("2", []battle.HeroEntry{hero("A", "x"), hero("B", "y")}, []battle.HeroEntry{hero("C", "z")}),
		win("3", []battle.HeroEntry{hero("C", "z")}, []battle.HeroEntry{hero("A", "x"), hero("D", "w")}),
		win("4", []battle.HeroEntry{hero("D", "w")}, []battle.HeroEntry{hero("B", "y")}),
	}
}

func TestTopEntities(t *testing.T) {
	tables := Build(rankingCorpus(), nil)

	tests := []struct {
		name  string
		kind  Kind
		limit int
		want  []string
	}{
		// A: 2/3, B: 2/3, C: 1/3, D: 1/2. B ties A on rate and games, name decides.
		{"heroes", KindHero, 0, []string{"A", "B", "D", "C"}},
		{"heroes limited", KindHero, 2, []string{"A", "B"}},
		{"skills", KindSkill, 0, []string{"x", "y", "w", "z"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tables.TopEntities(tt.kind, tt.limit)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d entries, got %d", len(tt.want), len(got))
			}
			for i, name := range tt.want {
				if got[i].Name != name {
					t.Errorf("position %d: expected %s, got %s", i, name, got[i].Name)
				}
			}
		})
	}
}

func TestTopEntities_GamesBreakRateTies(t *testing.T) {
	tables := Build([]battle.Record{
		record("1", battle.WinnerTeam1, []battle.HeroEntry{hero("Few")}, []battle.HeroEntry{hero("X")}),
		record("2", battle.WinnerTeam1, []battle.HeroEntry{hero("Many")}, []battle.HeroEntry{hero("X")}),
		record("3", battle.WinnerTeam1, []battle.HeroEntry{hero("Many")}, []battle.HeroEntry{hero("X")}),
	}, nil)

	got := tables.TopEntities(KindHero, 0)
	if got[0].Name != "Many" || got[1].Name != "Few" {
		t.Errorf("expected Many before Few, got %s, %s", got[0].Name, got[1].Name)
	}
	if got[0].Games != 2 || got[0].Wins != 2 {
		t.Errorf("unexpected Many record: %+v", got[0])
	}
}

func TestUsageAndNames(t *testing.T) {
	tables := Build(rankingCorpus(), nil)

	usage := tables.Usage(KindHero, 1)
	if len(usage) != 1 || usage[0].Games != 3 {
		t.Errorf("unexpected usage: %+v", usage)
	}

	names := tables.Names(KindSkill)
	want := []string{"w", "x", "y", "z"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("expected %v, got %v", want, names)
			break
		}
	}
}

func TestWinRateStats(t *testing.T) {
	tables := Build(rankingCorpus(), nil)

	s := tables.WinRateStats(KindHero)
	if s.Above50 != 2 {
		t.Errorf("expected 2 heroes above 50%%, got %d", s.Above50)
	}
	want := (2.0/3 + 2.0/3 + 1.0/3 + 0.5) / 4
	if diff := s.Average - want; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("expected average %f, got %f", want, s.Average)
	}

	if empty := Build(nil, nil).WinRateStats(KindSkill); empty != (WinRateStats{}) {
		t.Errorf("expected zero stats for empty tables, got %+v", empty)
	}
}

func TestWinningCombinations(t *testing.T) {
	tables := Build(rankingCorpus(), nil)

	combos := tables.WinningCombinations(0)
	if len(combos) != 3 {
		t.Fatalf("expected 3 winning combinations, got %d", len(combos))
	}
	first := combos[0]
	if len(first.Heroes) != 2 || first.Heroes[0] != "A" || first.Heroes[1] != "B" || first.Wins != 2 {
		t.Errorf("unexpected top combination: %+v", first)
	}
	if got := tables.WinningCombinations(1); len(got) != 1 {
		t.Errorf("expected limit to apply, got %d", len(got))
	}
}

func TestAnalytics(t *testing.T) {
	tables := Build(rankingCorpus(), nil)
	a := tables.Analytics()

	if a.Summary != tables.Summary() {
		t.Errorf("expected summary %+v, got %+v", tables.Summary(), a.Summary)
	}
	if a.TotalHeroes != len(tables.Names(KindHero)) || a.TotalSkills != len(tables.Names(KindSkill)) {
		t.Errorf("unexpected totals: %d heroes, %d skills", a.TotalHeroes, a.TotalSkills)
	}
	if len(a.TopHeroes) != a.TotalHeroes {
		t.Errorf("expected every hero in a small corpus, got %d", len(a.TopHeroes))
	}
	if len(a.WinningCombos) != 3 {
		t.Errorf("expected 3 winning combinations, got %d", len(a.WinningCombos))
	}
	if a.HeroWinRates.Above50 != 2 {
		t.Errorf("expected 2 heroes above 50%%, got %d", a.HeroWinRates.Above50)
	}

	empty := Build(nil, nil).Analytics()
	if len(empty.TopHeroes) != 0 || len(empty.WinningCombos) != 0 {
		t.Errorf("expected empty analytics, got %+v", empty)
	}
}
