package cmd

import "strings"

// closest returns the candidate within edit distance 3 of input, ignoring
// case and leading dashes, or "" when none is that close.
func closest(input string, candidates []string) string {
	in := strings.ToLower(strings.TrimLeft(input, "-"))
	if in == "" {
		return ""
	}
	best, bestDist := "", 4
	for _, c := range candidates {
		if d := editDistance(in, strings.ToLower(strings.TrimLeft(c, "-"))); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// editDistance is the Levenshtein distance over bytes.
func editDistance(a, b string) int {
	if a == "" {
		return len(b)
	}
	if b == "" {
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
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur := min(row[j]+1, row[j-1]+1, prev+cost)
			prev, row[j] = row[j], cur
		}
	}
	return row[len(b)]
}
