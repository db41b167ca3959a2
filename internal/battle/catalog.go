package battle

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
)

// Catalog maps valid skill names to the hero that owns them.
// Hero names in battle records are assumed to be validated against it
// before they reach the aggregator.
type Catalog struct {
	SkillList []string          `json:"skill"`
	SkillHero map[string]string `json:"skill_hero_map"`
}

// LoadCatalog reads a catalog file. A missing file yields an empty catalog.
func LoadCatalog(path string, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warn("skill catalog not found, continuing with an empty catalog", "path", path)
		return &Catalog{SkillHero: map[string]string{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if c.SkillHero == nil {
		c.SkillHero = map[string]string{}
	}
	return &c, nil
}

// Heroes returns every hero that owns at least one skill, sorted.
func (c *Catalog) Heroes() []string {
	seen := make(map[string]struct{}, len(c.SkillHero))
	for _, hero := range c.SkillHero {
		seen[hero] = struct{}{}
	}
	heroes := make([]string, 0, len(seen))
	for hero := range seen {
		heroes = append(heroes, hero)
	}
	sort.Strings(heroes)
	return heroes
}

// Skills returns the catalog's skill list in file order.
func (c *Catalog) Skills() []string {
	return append([]string(nil), c.SkillList...)
}

// HeroForSkill returns the owning hero of a skill.
func (c *Catalog) HeroForSkill(skill string) (string, bool) {
	hero, ok := c.SkillHero[skill]
	return hero, ok
}

// SignatureSkills returns the skills owned by a hero, sorted.
func (c *Catalog) SignatureSkills(hero string) []string {
	var skills []string
	for skill, owner := range c.SkillHero {
		if owner == hero {
			skills = append(skills, skill)
		}
	}
	sort.Strings(skills)
	return skills
}

// HasHero reports whether the hero owns any skill in the catalog.
func (c *Catalog) HasHero(hero string) bool {
	for _, owner := range c.SkillHero {
		if owner == hero {
			return true
		}
	}
	return false
}

// HasSkill reports whether the skill is listed or mapped.
func (c *Catalog) HasSkill(skill string) bool {
	if _, ok := c.SkillHero[skill]; ok {
		return true
	}
	for _, s := range c.SkillList {
		if s == skill {
			return true
		}
	}
	return false
}
