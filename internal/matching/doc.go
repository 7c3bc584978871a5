// Package matching ranks recipes against the ingredients a user has on hand.
//
// A corpus is compiled once into an immutable Snapshot. Each suggestion call
// normalizes the user's ingredient strings, resolves them to ingredient ids,
// optionally widens them through registered substitutes, scores every recipe
// by the fraction of its required ingredients covered and returns the ranked,
// truncated list. Unknown ingredient strings are ignored, never errors.
package matching
