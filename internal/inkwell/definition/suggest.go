package definition

import (
	"sort"
	"strings"
)

// maxSuggestDistance bounds how far a candidate may be from the input
// before it stops being a plausible typo.
const maxSuggestDistance = 3

// Suggest returns up to three candidates ranked by edit distance from
// input, closest first. Exact matches are excluded.
func Suggest(input string, candidates []string) []string {
	type scored struct {
		name string
		dist int
	}

	var matches []scored
	lower := strings.ToLower(input)
	for _, c := range candidates {
		if c == input {
			continue
		}
		d := levenshtein(lower, strings.ToLower(c))
		if d <= maxSuggestDistance {
			matches = append(matches, scored{name: c, dist: d})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].dist < matches[j].dist })

	out := make([]string, 0, 3)
	for _, m := range matches {
		out = append(out, m.name)
		if len(out) == 3 {
			break
		}
	}
	return out
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
