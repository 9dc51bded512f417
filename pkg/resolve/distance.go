package resolve

// levenshtein computes the edit distance between two tokens with the
// standard dynamic-programming recurrence in O(len(a)*len(b)). It is only
// ever applied to individual differing tokens, never whole names, which
// bounds the cost per comparison.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(a); i++ {
		prev := row[0]
		row[0] = i
		for j := 1; j <= len(b); j++ {
			current := row[j]
			if a[i-1] == b[j-1] {
				row[j] = prev
			} else {
				row[j] = 1 + min(prev, row[j], row[j-1])
			}
			prev = current
		}
	}

	return row[len(b)]
}
