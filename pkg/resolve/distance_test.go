package resolve

import "testing"

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{
			name: "identical",
			a:    "CARLSEN",
			b:    "CARLSEN",
			want: 0,
		},
		{
			name: "single substitution",
			a:    "CARLSEN",
			b:    "CARLSON",
			want: 1,
		},
		{
			name: "two substitutions",
			a:    "GRANDFATHER",
			b:    "GRANDMOTHER",
			want: 2,
		},
		{
			name: "insertion",
			a:    "MCARN",
			b:    "MCCARN",
			want: 1,
		},
		{
			name: "empty against token",
			a:    "",
			b:    "SMITH",
			want: 5,
		},
		{
			name: "disjoint tokens",
			a:    "JOHN",
			b:    "MARY",
			want: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := levenshtein(tt.a, tt.b)
			if got != tt.want {
				t.Fatalf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			// Distance is symmetric.
			if rev := levenshtein(tt.b, tt.a); rev != got {
				t.Fatalf("levenshtein(%q, %q) = %d, want %d", tt.b, tt.a, rev, got)
			}
		})
	}
}
