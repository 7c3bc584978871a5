package matching

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Snapshot is a compiled, immutable corpus. All matching reads from a
// Snapshot, so concurrent suggestion calls need no coordination.
type Snapshot struct {
	Version  uint64
	LoadedAt time.Time

	normalizer Normalizer
	recipes    []Recipe
	byID       map[uint]int
	byName     map[string]uint
	names      map[uint]string
	resolver   *Resolver
}

// Compile validates a corpus and builds the lookup tables used for matching.
// Ingredients whose names normalize to the same canonical form are merged
// into the lowest id, and requirement rows are rewritten accordingly.
func Compile(c *Corpus, n Normalizer, policy SubstitutionPolicy) (*Snapshot, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil corpus", ErrInvalidCorpus)
	}

	s := &Snapshot{
		LoadedAt:   time.Now(),
		normalizer: n,
		byID:       make(map[uint]int, len(c.Recipes)),
		byName:     make(map[string]uint),
		names:      make(map[uint]string),
	}

	// Collect every named ingredient; recipes may reference ingredients the
	// ingredient table did not list, and substitutes may appear in no recipe.
	all := make([]Ingredient, 0, len(c.Ingredients))
	all = append(all, c.Ingredients...)
	for _, r := range c.Recipes {
		for _, req := range r.Requirements {
			all = append(all, Ingredient{ID: req.IngredientID, Name: req.Name})
		}
	}

	// Pick one canonical id per normalized name.
	keys := make(map[uint]string, len(all))
	for _, ing := range all {
		key := n.Normalize(ing.Name)
		if key == "" {
			return nil, fmt.Errorf("%w: ingredient %d has an empty name", ErrInvalidCorpus, ing.ID)
		}
		if prev, ok := keys[ing.ID]; ok && prev != key {
			return nil, fmt.Errorf("%w: ingredient %d has conflicting names %q and %q", ErrInvalidCorpus, ing.ID, prev, key)
		}
		keys[ing.ID] = key
		if cur, ok := s.byName[key]; !ok || ing.ID < cur {
			s.byName[key] = ing.ID
		}
	}
	canonical := make(map[uint]uint, len(keys))
	for id, key := range keys {
		canonical[id] = s.byName[key]
	}
	for _, ing := range all {
		if canonical[ing.ID] == ing.ID {
			if _, ok := s.names[ing.ID]; !ok {
				s.names[ing.ID] = strings.TrimSpace(ing.Name)
			}
		}
	}

	s.recipes = make([]Recipe, 0, len(c.Recipes))
	for _, r := range c.Recipes {
		if _, dup := s.byID[r.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate recipe id %d", ErrInvalidCorpus, r.ID)
		}
		compiled := r
		compiled.Requirements = mergeRequirements(r.Requirements, canonical, s.names)
		s.byID[r.ID] = len(s.recipes)
		s.recipes = append(s.recipes, compiled)
	}

	pairs := make([]SubstitutionPair, 0, len(c.Substitutions))
	for _, p := range c.Substitutions {
		pairs = append(pairs, SubstitutionPair{
			IngredientID: canonicalOf(canonical, p.IngredientID),
			SubstituteID: canonicalOf(canonical, p.SubstituteID),
		})
	}
	s.resolver = NewResolver(pairs, policy)
	return s, nil
}

func canonicalOf(canonical map[uint]uint, id uint) uint {
	if c, ok := canonical[id]; ok {
		return c
	}
	return id
}

// mergeRequirements keeps one row per canonical ingredient. A merged row is
// optional only when every row it absorbed was optional.
func mergeRequirements(reqs []Requirement, canonical map[uint]uint, names map[uint]string) []Requirement {
	out := make([]Requirement, 0, len(reqs))
	index := make(map[uint]int, len(reqs))
	for _, req := range reqs {
		id := canonicalOf(canonical, req.IngredientID)
		if i, ok := index[id]; ok {
			out[i].Optional = out[i].Optional && req.Optional
			continue
		}
		req.IngredientID = id
		req.Name = names[id]
		index[id] = len(out)
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// RecipeCount returns the number of recipes in the snapshot.
func (s *Snapshot) RecipeCount() int {
	return len(s.recipes)
}

// IngredientCount returns the number of distinct canonical ingredients.
func (s *Snapshot) IngredientCount() int {
	return len(s.byName)
}

// Policy returns the substitution policy the snapshot was compiled with.
func (s *Snapshot) Policy() SubstitutionPolicy {
	return s.resolver.Policy()
}

// Recipe looks up a compiled recipe by id.
func (s *Snapshot) Recipe(id uint) (Recipe, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Recipe{}, false
	}
	return s.recipes[i], true
}

// Resolve maps raw user strings onto ingredient ids. Strings with no matching
// ingredient are returned as unknown and otherwise ignored.
func (s *Snapshot) Resolve(raws []string) (held map[uint]struct{}, unknown []string) {
	held = make(map[uint]struct{}, len(raws))
	for _, name := range s.normalizer.NormalizeAll(raws) {
		if id, ok := s.byName[name]; ok {
			held[id] = struct{}{}
			continue
		}
		unknown = append(unknown, name)
	}
	return held, unknown
}

// Suggest scores every recipe for req and returns the ranked, truncated list.
// It is a pure function of the snapshot and req.
func (s *Snapshot) Suggest(req Request) []MatchResult {
	if req.MaxResults <= 0 {
		return []MatchResult{}
	}
	held, _ := s.Resolve(req.Ingredients)
	sat := s.resolver.Satisfier(held, req.AllowSubst)

	results := make([]MatchResult, 0, len(s.recipes))
	for _, r := range s.recipes {
		results = append(results, Score(r, sat, s.names))
	}
	return Rank(results, req.MaxResults)
}
