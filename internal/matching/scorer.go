package matching

import "sort"

// Score partitions a recipe's requirements against a satisfier. The score is
// the fraction of required ingredients covered; a recipe with no required
// ingredients scores 1. Optional ingredients never move the score, they are
// only reported and used as a tie-break by Rank.
func Score(recipe Recipe, s *Satisfier, names map[uint]string) MatchResult {
	res := MatchResult{
		RecipeID:        recipe.ID,
		Name:            recipe.Name,
		Cuisine:         recipe.Cuisine,
		Present:         []string{},
		MissingRequired: []string{},
		MissingOptional: []string{},
	}

	required, satisfied := 0, 0
	for _, req := range recipe.Requirements {
		if !req.Optional {
			required++
		}
		ok, via, substituted := s.Satisfies(req.IngredientID)
		switch {
		case ok:
			if !req.Optional {
				satisfied++
			}
			res.Present = append(res.Present, req.Name)
			if substituted {
				res.Substitutions = append(res.Substitutions, Substitution{
					Required:    req.Name,
					UsedInstead: names[via],
				})
			}
		case req.Optional:
			res.MissingOptional = append(res.MissingOptional, req.Name)
		default:
			res.MissingRequired = append(res.MissingRequired, req.Name)
		}
	}

	if required == 0 {
		res.Score = 1
	} else {
		res.Score = float64(satisfied) / float64(required)
	}

	sort.Strings(res.Present)
	sort.Strings(res.MissingRequired)
	sort.Strings(res.MissingOptional)
	sort.Slice(res.Substitutions, func(i, j int) bool {
		return res.Substitutions[i].Required < res.Substitutions[j].Required
	})
	return res
}

// Less is the ranking order: higher score, then fewer missing optional
// ingredients, then more present ingredients, then name, then id.
func Less(a, b MatchResult) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	// Equal scores only. A recipe with unmet optional ingredients never loses
	// score, but an equally scored recipe missing nothing is listed first.
	if len(a.MissingOptional) != len(b.MissingOptional) {
		return len(a.MissingOptional) < len(b.MissingOptional)
	}
	if len(a.Present) != len(b.Present) {
		return len(a.Present) > len(b.Present)
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.RecipeID < b.RecipeID
}

// Rank sorts results in place by Less and returns at most maxResults of them.
// maxResults <= 0 yields an empty, non-nil slice.
func Rank(results []MatchResult, maxResults int) []MatchResult {
	if maxResults <= 0 {
		return []MatchResult{}
	}
	sort.SliceStable(results, func(i, j int) bool { return Less(results[i], results[j]) })
	if maxResults < len(results) {
		results = results[:maxResults]
	}
	return results
}
