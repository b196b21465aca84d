package ferrite

// levenshtein computes classic edit distance between a and b, used by
// the "did you mean" suggestion search over the visible scope chain.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := cur[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			cur[j] = m
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

// suggestNearest returns the candidate closest (by edit distance) to
// name, or "" if candidates is empty or nothing is close enough to be
// worth suggesting. The cutoff scales with word length so a one-letter
// typo on a long name still suggests, but a wildly different short
// name doesn't.
func suggestNearest(name string, candidates []string) string {
	best := ""
	bestDist := -1
	for _, c := range candidates {
		if c == name {
			continue
		}
		d := levenshtein(name, c)
		if bestDist == -1 || d < bestDist {
			bestDist = d
			best = c
		}
	}
	maxAllowed := len(name)/2 + 1
	if bestDist < 0 || bestDist > maxAllowed {
		return ""
	}
	return best
}
