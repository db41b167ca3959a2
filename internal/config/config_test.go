package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, SourceDir, cfg.Data.Source)
	assert.Equal(t, 20.0, cfg.Hero.WeightCurrentPair)
	assert.Equal(t, 8.0, cfg.Skill.WeightSkillHeroPair)
	assert.Equal(t, 90, cfg.Evaluation.Grid.Size())

	d, err := cfg.GetDebounce()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, d)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[server]
port = 8088

[hero]
weight_current_pair = 30.0

[hero.pairs]
unknown_pair_penalty = 3.5
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, 30.0, cfg.Hero.WeightCurrentPair)
	assert.Equal(t, 3.5, cfg.Hero.Pairs.UnknownPairPenalty)
	assert.Equal(t, 15.0, cfg.Hero.WeightIntraPair)
	assert.Equal(t, 0.5, cfg.Hero.Pairs.MinWilson)
	assert.Equal(t, "battles", cfg.Data.BattlesDir)
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nport = "), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "parse config file")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := DefaultConfig()
	cfg.Data.Source = SourceSQLite
	cfg.Skill.Pairs.Normalize = false
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("DRAFT_ADVISOR_BATTLES_DIR", "/data/battles")
	t.Setenv("DRAFT_ADVISOR_CATALOG", "/data/catalog.json")
	t.Setenv("DRAFT_ADVISOR_DB", "/data/advisor.db")
	t.Setenv("DRAFT_ADVISOR_SOURCE", SourceSQLite)

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, 9001, cfg.Server.Port)
	assert.Equal(t, "/data/battles", cfg.Data.BattlesDir)
	assert.Equal(t, "/data/catalog.json", cfg.Data.CatalogPath)
	assert.Equal(t, "/data/advisor.db", cfg.Data.DatabasePath)
	assert.Equal(t, SourceSQLite, cfg.Data.Source)

	t.Setenv("PORT", "not-a-port")
	assert.Error(t, cfg.ApplyEnv())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown source", func(c *Config) { c.Data.Source = "s3" }},
		{"missing battles dir", func(c *Config) { c.Data.BattlesDir = "" }},
		{"missing database", func(c *Config) { c.Data.Source = SourceSQLite; c.Data.DatabasePath = "" }},
		{"bad debounce", func(c *Config) { c.Data.Debounce = "soon" }},
		{"port", func(c *Config) { c.Server.Port = 0 }},
		{"negative rate", func(c *Config) { c.Server.RateLimit = -1 }},
		{"zero burst", func(c *Config) { c.Server.RateBurst = 0 }},
		{"hero weights", func(c *Config) { c.Hero.WeightIntraPair = -1 }},
		{"skill min wilson", func(c *Config) { c.Skill.Pairs.MinWilson = 1.5 }},
		{"zero unknown penalty", func(c *Config) { c.Hero.Pairs.UnknownPairPenalty = 0 }},
		{"zero low count penalty", func(c *Config) { c.Skill.Pairs.LowCountPenalty = 0 }},
		{"train ratio", func(c *Config) { c.Evaluation.TrainRatio = 1 }},
		{"empty grid", func(c *Config) { c.Evaluation.Grid.TopK = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
