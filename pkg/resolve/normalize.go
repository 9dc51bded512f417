package resolve

import (
	"sort"
	"strings"
)

var punctReplacer = strings.NewReplacer(
	".", " ",
	",", " ",
	";", " ",
	":", " ",
	"-", " ",
	"'", " ",
	"\"", " ",
	"(", " ",
	")", " ",
	"&", " ",
)

// NormalizeName canonicalizes a raw name for comparison: uppercased,
// punctuation replaced with whitespace, whitespace runs collapsed,
// trimmed. Every downstream comparison works on this form; display names
// are never rewritten.
func NormalizeName(name string) string {
	upper := strings.ToUpper(strings.TrimSpace(name))
	return strings.Join(strings.Fields(punctReplacer.Replace(upper)), " ")
}

// TokenizeName splits a normalized name into its ordered tokens.
func TokenizeName(name string) []string {
	return strings.Fields(NormalizeName(name))
}

// tokenSet returns the deduplicated, unordered token set of a token list.
func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}

// tokenSetKey returns a canonical key for a token set: unique tokens,
// sorted, space-joined. Names that are reorderings of each other share
// the same key.
func tokenSetKey(tokens []string) string {
	set := tokenSet(tokens)
	unique := make([]string, 0, len(set))
	for tok := range set {
		unique = append(unique, tok)
	}
	sort.Strings(unique)
	return strings.Join(unique, " ")
}

func isSubset(sub, super map[string]struct{}) bool {
	if len(sub) == 0 || len(sub) >= len(super) {
		return false
	}
	for tok := range sub {
		if _, ok := super[tok]; !ok {
			return false
		}
	}
	return true
}
