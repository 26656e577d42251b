package detect

import "sort"

// claimSet accumulates claimed [start,end) spans and rejects overlapping or
// degenerate claims. Spans are kept sorted by start for binary search.
type claimSet struct {
	spans []span
}

type span struct {
	start int
	end   int
}

func newClaimSet() *claimSet {
	return &claimSet{}
}

// Claim records [start,end) if it is a valid span overlapping no previously
// claimed span, and reports whether the claim succeeded. Zero-length and
// negative spans always fail.
func (c *claimSet) Claim(start int, end int) bool {
	if start < 0 || end <= start {
		return false
	}

	// Index of the first claimed span ending after our start. Only that span
	// can overlap us from the left; its successor from the right.
	i := sort.Search(len(c.spans), func(i int) bool {
		return c.spans[i].end > start
	})

	if i < len(c.spans) && c.spans[i].start < end {
		return false
	}

	c.spans = append(c.spans, span{})
	copy(c.spans[i+1:], c.spans[i:])
	c.spans[i] = span{start: start, end: end}
	return true
}
