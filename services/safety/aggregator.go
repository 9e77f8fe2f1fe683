package safety

// Combine reduces per-check results into one overall verdict: a strict
// majority of participating checks must pass. Ties resolve to false, and so
// does the empty set — zero bound checks is no evidence of safety, so the
// verdict fails closed.
func Combine(results map[string]bool) bool {
	var trueCount, falseCount int
	for _, passed := range results {
		if passed {
			trueCount++
		} else {
			falseCount++
		}
	}
	return trueCount > falseCount
}
