package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/draft-advisor/internal/aggregate"
	"github.com/ramonehamilton/draft-advisor/internal/battle"
)

type TestStruct struct {
	ID        int       `csv:"id"`
	Name      string    `csv:"name"`
	Value     float64   `csv:"value"`
	Active    bool      `csv:"active"`
	CreatedAt time.Time `csv:"created_at"`
	Pointer   *string   `csv:"pointer"`
	Hidden    string    `csv:"-"`
}

func stringPtr(s string) *string {
	return &s
}

func testData() []TestStruct {
	return []TestStruct{
		{
			ID:        1,
			Name:      "Test1",
			Value:     10.5,
			Active:    true,
			CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
			Pointer:   stringPtr("test"),
			Hidden:    "secret",
		},
		{
			ID:        2,
			Name:      "Test2",
			Value:     20.25,
			CreatedAt: time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC),
		},
	}
}

func TestExportJSON(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "nested", "test.json")

	exporter := NewExporter(Options{
		Format:     FormatJSON,
		FilePath:   filePath,
		PrettyJSON: true,
	})
	require.NoError(t, exporter.Export(testData()))

	content, err := os.ReadFile(filePath)
	require.NoError(t, err)

	var result []TestStruct
	require.NoError(t, json.Unmarshal(content, &result))
	require.Len(t, result, 2)
	assert.Equal(t, "Test1", result[0].Name)
	assert.Contains(t, string(content), "\n  ")
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportToWriter(&buf, FormatCSV, testData(), false))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,name,value,active,created_at,pointer", lines[0])
	assert.Equal(t, "1,Test1,10.5,true,2024-01-01T12:00:00Z,test", lines[1])
	assert.Equal(t, "2,Test2,20.25,false,2024-01-02T12:00:00Z,", lines[2])
}

func TestExportCSV_Errors(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, ExportToWriter(&buf, FormatCSV, TestStruct{}, false), "non-slice")
	assert.Error(t, ExportToWriter(&buf, FormatCSV, []TestStruct{}, false), "empty slice")
	assert.Error(t, ExportToWriter(&buf, FormatCSV, []int{1}, false), "slice of non-structs")
	assert.Error(t, ExportToWriter(&buf, Format("xml"), testData(), false))
}

func TestExport_NoOverwrite(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "test.json")
	require.NoError(t, os.WriteFile(filePath, []byte("{}"), 0o644))

	err := NewExporter(Options{Format: FormatJSON, FilePath: filePath}).Export(testData())
	assert.ErrorContains(t, err, "already exists")

	err = NewExporter(Options{Format: FormatJSON, FilePath: filePath, Overwrite: true}).Export(testData())
	assert.NoError(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("csv")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = ParseFormat("yaml")
	assert.Error(t, err)
}

func TestGenerateFilename(t *testing.T) {
	name := GenerateFilename("battle_stats", FormatJSON)
	assert.True(t, strings.HasPrefix(name, "battle_stats_"))
	assert.True(t, strings.HasSuffix(name, ".json"))
}

func statsCorpus() []battle.Record {
	team := func(entries ...battle.HeroEntry) []battle.HeroEntry { return entries }
	h := func(name string, skills ...string) battle.HeroEntry {
		return battle.HeroEntry{Name: name, Skills: skills}
	}
	return []battle.Record{
		{SourceID: "1", Winner: battle.WinnerTeam1, Team1: team(h("A", "sa"), h("B", "sb")), Team2: team(h("C", "sc"))},
		{SourceID: "2", Winner: battle.WinnerTeam1, Team1: team(h("B", "sb"), h("A", "sa")), Team2: team(h("C", "sc"))},
		{SourceID: "3", Winner: battle.WinnerUnknown, Team1: team(h("A", "sa")), Team2: team(h("C", "sc"))},
	}
}

func TestBuildStatistics(t *testing.T) {
	doc := BuildStatistics(aggregate.Build(statsCorpus(), nil))

	assert.Equal(t, 3, doc.TotalBattles)
	assert.Equal(t, 2, doc.Team1Wins)
	assert.Equal(t, 0, doc.Team2Wins)
	assert.Equal(t, 1, doc.UnknownWins)

	a := doc.HeroStats["A"]
	assert.Equal(t, uint(2), a.Wins)
	assert.Equal(t, uint(1), a.Losses)
	assert.Equal(t, uint(3), a.Total)

	pair, ok := doc.HeroPairStats["A,B"]
	require.True(t, ok)
	assert.Equal(t, uint(2), pair.Wins)
	assert.InDelta(t, 0.342372, pair.Wilson, 1e-6)
	_, reversed := doc.HeroPairStats["B,A"]
	assert.False(t, reversed)

	assert.Equal(t, uint(2), doc.HeroCombinations["A,B"].Wins)
	assert.Equal(t, uint(1), doc.HeroCombinations["A"].Losses)
	assert.Equal(t, uint(2), doc.SkillPairStats["sa,sb"].Wins)
	assert.Equal(t, uint(2), doc.SkillHeroPairStats["A,sb"].Wins)
	assert.Equal(t, uint(3), doc.SkillStats["sc"].Losses)

	var buf bytes.Buffer
	require.NoError(t, ExportToWriter(&buf, FormatJSON, doc, false))
	for _, key := range []string{"hero_stats", "skill_stats", "hero_combinations", "hero_pair_stats", "skill_pair_stats", "skill_hero_pair_stats", "total_battles"} {
		assert.Contains(t, buf.String(), `"`+key+`"`)
	}
}

func TestRankings(t *testing.T) {
	rows := Rankings(aggregate.Build(statsCorpus(), nil), aggregate.KindHero, 2)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, "B", rows[0].Name)
	assert.Equal(t, 1.0, rows[0].WinRate)
	assert.InDelta(t, 0.342372, rows[0].Wilson, 1e-6)
	assert.Equal(t, "A", rows[1].Name)

	var buf bytes.Buffer
	require.NoError(t, ExportToWriter(&buf, FormatCSV, rows, false))
	assert.True(t, strings.HasPrefix(buf.String(), "rank,name,games,wins,losses,win_rate,wilson\n"))
}
