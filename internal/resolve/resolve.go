// Package resolve maps a user-typed identifier onto one stored item.
package resolve

import (
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jaekwang-park/todo-bot/internal/model"
)

// Tier names the strategy that produced a match.
type Tier int

const (
	TierNone Tier = iota
	TierID
	TierExact
	TierExactFold
	TierPrefix
	TierSuffix
	TierContains
	TierDistance
)

func (t Tier) String() string {
	switch t {
	case TierID:
		return "id"
	case TierExact:
		return "exact"
	case TierExactFold:
		return "exact-fold"
	case TierPrefix:
		return "prefix"
	case TierSuffix:
		return "suffix"
	case TierContains:
		return "contains"
	case TierDistance:
		return "distance"
	default:
		return "none"
	}
}

type titleMatcher func(title, identifier string) bool

// tiers run in order after the ID tier; each scans the whole collection.
var tiers = []struct {
	tier  Tier
	match titleMatcher
}{
	{TierExact, func(title, id string) bool { return title == id }},
	{TierExactFold, strings.EqualFold},
	{TierPrefix, func(title, id string) bool {
		return strings.HasPrefix(strings.ToLower(title), strings.ToLower(id))
	}},
	{TierSuffix, func(title, id string) bool {
		return strings.HasSuffix(strings.ToLower(title), strings.ToLower(id))
	}},
	{TierContains, func(title, id string) bool {
		return strings.Contains(strings.ToLower(title), strings.ToLower(id))
	}},
}

// Item returns the best match for identifier. See Match.
func Item(items []model.Item, identifier string) (model.Item, bool) {
	it, tier := Match(items, identifier)
	return it, tier != TierNone
}

// Match resolves identifier against items: a numeric identifier selects by ID,
// then titles are tried for exact, case-insensitive exact, prefix, suffix and
// substring matches, and finally the title with the smallest edit distance
// wins. Within a tier the first item in collection order wins.
func Match(items []model.Item, identifier string) (model.Item, Tier) {
	if id, err := strconv.ParseInt(identifier, 10, 64); err == nil {
		for _, it := range items {
			if it.ID == id {
				return it, TierID
			}
		}
	}

	for _, t := range tiers {
		for _, it := range items {
			if t.match(it.Title, identifier) {
				return it, t.tier
			}
		}
	}

	if len(items) == 0 {
		return model.Item{}, TierNone
	}

	best, bestDist := 0, -1
	for i, it := range items {
		d := levenshtein.ComputeDistance(identifier, it.Title)
		if d == 0 {
			return it, TierDistance
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return items[best], TierDistance
}
