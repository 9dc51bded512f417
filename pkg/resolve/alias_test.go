package resolve

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAliasTableApply(t *testing.T) {
	table := AliasTable{"MCADAM": "MCCARN"}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "last token substituted",
			input: "Chelsea McAdam",
			want:  "CHELSEA MCCARN",
		},
		{
			name:  "non-final token untouched",
			input: "McAdam Chelsea",
			want:  "MCADAM CHELSEA",
		},
		{
			name:  "no alias match",
			input: "Blake McCarn",
			want:  "BLAKE MCCARN",
		},
		{
			name:  "empty name",
			input: "   ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := table.Apply(tt.input)
			if got != tt.want {
				t.Fatalf("unexpected alias-resolved name: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadAliasTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.json")
	if err := os.WriteFile(path, []byte(`{"mcadam": "McCarn"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := LoadAliasTable(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := table.Apply("Chelsea McAdam"); got != "CHELSEA MCCARN" {
		t.Fatalf("expected normalized entries to apply, got %q", got)
	}
}

func TestLoadAliasTable_RejectsMultiWordEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.json")
	if err := os.WriteFile(path, []byte(`{"van der Berg": "Berg"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadAliasTable(path); err == nil {
		t.Fatal("expected error for multi-word alias entry")
	}
}

func TestLoadAliasTable_MissingFile(t *testing.T) {
	if _, err := LoadAliasTable(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing alias table")
	}
}
