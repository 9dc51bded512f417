package resolve

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// AliasTable maps an alternate surname to its canonical form, e.g. a
// maiden name to a married name. Keys and values are normalized tokens.
// The table is configuration data injected into the resolver; it affects
// matching only, never the display name of an entity.
type AliasTable map[string]string

// LoadAliasTable reads an alias table from a JSON object file of the form
// {"MCADAM": "MCCARN", ...}. Keys and values are normalized on load so
// the file may use any casing or punctuation.
func LoadAliasTable(path string) (AliasTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read alias table: %w", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse alias table: %w", err)
	}

	table := make(AliasTable, len(raw))
	for alias, canonical := range raw {
		a := NormalizeName(alias)
		c := NormalizeName(canonical)
		if a == "" || c == "" || strings.Contains(a, " ") || strings.Contains(c, " ") {
			return nil, fmt.Errorf("alias table entries must be single surnames, got %q -> %q", alias, canonical)
		}
		table[a] = c
	}
	return table, nil
}

// Apply normalizes a name and, if its last token is a known alias,
// substitutes the canonical surname. The result is used for matching
// only.
func (t AliasTable) Apply(name string) string {
	tokens := TokenizeName(name)
	if len(tokens) == 0 {
		return ""
	}
	if canonical, ok := t[tokens[len(tokens)-1]]; ok {
		tokens[len(tokens)-1] = canonical
	}
	return strings.Join(tokens, " ")
}
