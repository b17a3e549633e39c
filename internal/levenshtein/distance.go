// Package levenshtein measures edit distance between domain names.
package levenshtein

// Distance computes the Levenshtein edit distance between two strings,
// counted in runes. It keeps two rows, so memory is O(min(m,n)).
func Distance(s, t string) int {
	sr := []rune(s)
	tr := []rune(t)

	if len(sr) == 0 {
		return len(tr)
	}
	if len(tr) == 0 {
		return len(sr)
	}

	// Shorter string is the column
	if len(sr) > len(tr) {
		sr, tr = tr, sr
	}

	prev := make([]int, len(sr)+1)
	curr := make([]int, len(sr)+1)
	for i := range prev {
		prev[i] = i
	}

	for j, tc := range tr {
		curr[0] = j + 1
		for i, sc := range sr {
			cost := 1
			if sc == tc {
				cost = 0
			}
			curr[i+1] = min(curr[i]+1, prev[i+1]+1, prev[i]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(sr)]
}

// Closest returns the candidate nearest to s and its distance, provided
// that distance is at most maxDistance. On ties the earlier candidate wins.
func Closest(s string, candidates []string, maxDistance int) (string, int, bool) {
	best, bestDist := "", maxDistance+1
	for _, c := range candidates {
		d := Distance(s, c)
		if d < bestDist {
			best, bestDist = c, d
			if d == 0 {
				break
			}
		}
	}
	if best == "" {
		return "", 0, false
	}
	return best, bestDist, true
}
