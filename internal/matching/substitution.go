package matching

import (
	"fmt"
	"sort"
	"strings"
)

// SubstitutionPolicy controls how stored substitution pairs are read.
type SubstitutionPolicy string

const (
	// PolicyDirected lets a pair's substitute stand in for its ingredient only.
	PolicyDirected SubstitutionPolicy = "directed"
	// PolicySymmetric lets either side of a pair stand in for the other.
	PolicySymmetric SubstitutionPolicy = "symmetric"
)

// ParsePolicy maps a config string onto a SubstitutionPolicy.
func ParsePolicy(s string) (SubstitutionPolicy, error) {
	switch SubstitutionPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyDirected:
		return PolicyDirected, nil
	case PolicySymmetric:
		return PolicySymmetric, nil
	default:
		return "", fmt.Errorf("unknown substitution policy %q", s)
	}
}

// Resolver answers "which ingredients can this one stand in for". The relation
// is never closed transitively; if A->B and B->C are stored, A does not satisfy C.
type Resolver struct {
	policy SubstitutionPolicy
	// standsInFor[x] lists the ingredients x may replace.
	standsInFor map[uint][]uint
}

// NewResolver builds a resolver from stored pairs. Self pairs are ignored.
func NewResolver(pairs []SubstitutionPair, policy SubstitutionPolicy) *Resolver {
	if policy == "" {
		policy = PolicyDirected
	}
	r := &Resolver{policy: policy, standsInFor: make(map[uint][]uint)}
	seen := make(map[[2]uint]struct{}, len(pairs))
	add := func(sub, target uint) {
		key := [2]uint{sub, target}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		r.standsInFor[sub] = append(r.standsInFor[sub], target)
	}
	for _, p := range pairs {
		if p.IngredientID == p.SubstituteID {
			continue
		}
		add(p.SubstituteID, p.IngredientID)
		if policy == PolicySymmetric {
			add(p.IngredientID, p.SubstituteID)
		}
	}
	for id := range r.standsInFor {
		ids := r.standsInFor[id]
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}
	return r
}

// Policy returns the policy the resolver was built with.
func (r *Resolver) Policy() SubstitutionPolicy {
	return r.policy
}

// Expand returns every ingredient identity satisfied by held. With allowSubst
// false the result equals held.
func (r *Resolver) Expand(held map[uint]struct{}, allowSubst bool) map[uint]struct{} {
	out := make(map[uint]struct{}, len(held))
	for id := range held {
		out[id] = struct{}{}
	}
	if !allowSubst {
		return out
	}
	for id := range held {
		for _, target := range r.standsInFor[id] {
			out[target] = struct{}{}
		}
	}
	return out
}

// Satisfier tests requirements against one user's holdings.
type Satisfier struct {
	held      map[uint]struct{}
	via       map[uint]uint
	satisfied map[uint]struct{}
}

// Satisfier precomputes, for held, which ingredients are covered and which held
// ingredient covers each substituted one. When several held ingredients could
// stand in, the lowest id wins so results are deterministic.
func (r *Resolver) Satisfier(held map[uint]struct{}, allowSubst bool) *Satisfier {
	s := &Satisfier{
		held:      held,
		via:       make(map[uint]uint),
		satisfied: r.Expand(held, allowSubst),
	}
	if !allowSubst {
		return s
	}
	for id := range held {
		for _, target := range r.standsInFor[id] {
			if _, direct := held[target]; direct {
				continue
			}
			if cur, ok := s.via[target]; !ok || id < cur {
				s.via[target] = id
			}
		}
	}
	return s
}

// Satisfies reports whether ingredient is covered and, when covered through a
// substitute, the id of the held ingredient used.
func (s *Satisfier) Satisfies(ingredient uint) (ok bool, via uint, substituted bool) {
	if _, direct := s.held[ingredient]; direct {
		return true, ingredient, false
	}
	if _, covered := s.satisfied[ingredient]; !covered {
		return false, 0, false
	}
	sub := s.via[ingredient]
	return true, sub, true
}
