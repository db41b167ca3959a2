package aggregate

import (
	"sort"
	"strings"
)

// PairKey is an unordered pair of two distinct names, stored with A < B so
// that (x, y) and (y, x) produce the same key.
type PairKey struct {
	A string
	B string
}

// NewPairKey canonicalizes two names into a key. It returns false when the
// names are equal, since an entity never pairs with itself.
func NewPairKey(x, y string) (PairKey, bool) {
	if x == y {
		return PairKey{}, false
	}
	if x > y {
		x, y = y, x
	}
	return PairKey{A: x, B: y}, true
}

// Contains reports whether name is one of the pair's members.
func (k PairKey) Contains(name string) bool {
	return k.A == name || k.B == name
}

// Other returns the member that is not name.
func (k PairKey) Other(name string) string {
	if k.A == name {
		return k.B
	}
	return k.A
}

// String joins the pair with a comma, the export key format.
func (k PairKey) String() string {
	return k.A + "," + k.B
}

// CrossKey relates a hero to a skill its team used. Unlike PairKey it is
// ordered: the hero "has" the skill.
type CrossKey struct {
	Hero  string
	Skill string
}

// String joins the key with a comma, the export key format.
func (k CrossKey) String() string {
	return k.Hero + "," + k.Skill
}

// teamSep cannot appear in display names, so joined keys split back cleanly.
const teamSep = "\x1f"

// TeamKey returns the canonical key for a whole team composition.
func TeamKey(heroes []string) string {
	sorted := append([]string(nil), heroes...)
	sort.Strings(sorted)
	return strings.Join(sorted, teamSep)
}

// TeamHeroes splits a TeamKey back into its sorted hero names.
func TeamHeroes(key string) []string {
	if key == "" {
		return nil
	}
	return strings.Split(key, teamSep)
}
