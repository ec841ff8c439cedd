package engine

// ScoreDelta returns the points earned by a resolution: the sum of the
// merged (doubled) values. Each merge counts exactly once.
func ScoreDelta(res Resolution) int {
	delta := 0
	for _, m := range res.Merges {
		delta += m.Result.Value
	}
	return delta
}
