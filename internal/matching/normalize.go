package matching

import (
	"sort"
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxSingularPasses bounds the fixpoint loop in Normalizer.Normalize.
const maxSingularPasses = 4

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases, trims and collapses whitespace runs to a single space.
func Normalize(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), " ")
}

// Normalizer canonicalizes ingredient names. The same Normalizer must be
// applied to corpus names and user input so both sides compare equal.
type Normalizer struct {
	StripAccents     bool
	StripPunctuation bool
	Singularize      bool
}

// DefaultNormalizer folds accents, punctuation and plurals.
func DefaultNormalizer() Normalizer {
	return Normalizer{StripAccents: true, StripPunctuation: true, Singularize: true}
}

// Normalize returns the canonical form of raw. Empty or whitespace-only input
// yields "". Normalize(Normalize(x)) == Normalize(x).
func (n Normalizer) Normalize(raw string) string {
	s := Normalize(raw)
	if s == "" {
		return ""
	}
	if n.StripAccents {
		if folded, _, err := transform.String(stripAccents, s); err == nil {
			s = folded
		}
	}
	if n.StripPunctuation {
		s = Normalize(strings.Map(punctuationToSpace, s))
	}
	if n.Singularize && s != "" {
		s = singularizeLast(s)
	}
	return s
}

// NormalizeAll normalizes raws, drops empties and duplicates, and returns the
// result sorted so callers never depend on input order.
func (n Normalizer) NormalizeAll(raws []string) []string {
	seen := make(map[string]struct{}, len(raws))
	out := make([]string, 0, len(raws))
	for _, raw := range raws {
		name := n.Normalize(raw)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// punctuationToSpace drops apostrophes ("baker's" -> "bakers") and turns any
// other punctuation or symbol into a word break.
func punctuationToSpace(r rune) rune {
	if r == '\'' || r == '’' {
		return -1
	}
	if unicode.IsPunct(r) || unicode.IsSymbol(r) {
		return ' '
	}
	return r
}

// kitchenSingulars overrides inflection for food words its English rules
// fold wrongly ("brownies" -> "browny", "quiches" -> "quich"). Words that
// are already singular map to themselves.
var kitchenSingulars = map[string]string{
	"brioches":  "brioche",
	"brownies":  "brownie",
	"calves":    "calf",
	"cookies":   "cookie",
	"ganaches":  "ganache",
	"halves":    "half",
	"knives":    "knife",
	"leaves":    "leaf",
	"loaves":    "loaf",
	"molasses":  "molasses",
	"mousses":   "mousse",
	"pies":      "pie",
	"quiches":   "quiche",
	"shelves":   "shelf",
	"smoothies": "smoothie",
	"veggies":   "veggie",
}

func singularizeLast(s string) string {
	head, last := "", s
	if i := strings.LastIndexByte(s, ' '); i >= 0 {
		head, last = s[:i+1], s[i+1:]
	}
	for pass := 0; pass < maxSingularPasses; pass++ {
		next := singularizeWord(last)
		if next == last || next == "" {
			break
		}
		last = next
	}
	return head + last
}

// singularizeWord only touches words that look like regular plurals. Words
// ending in "us" or "ss" (hummus, couscous, swiss) are left alone, and "-ves"
// plurals drop the "s" (olives, cloves, chives) unless listed above.
func singularizeWord(w string) string {
	if singular, ok := kitchenSingulars[w]; ok {
		return singular
	}
	if len(w) < 3 || !strings.HasSuffix(w, "s") ||
		strings.HasSuffix(w, "ss") || strings.HasSuffix(w, "us") {
		return w
	}
	if strings.HasSuffix(w, "ves") {
		return strings.TrimSuffix(w, "s")
	}
	return strings.ToLower(inflection.Singular(w))
}
