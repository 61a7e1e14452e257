package rank

// Pair is an unordered pair of nodes in canonical form (A <= B).
// It keys the query log, so (a, b) and (b, a) are the same comparison.
type Pair struct {
	A, B NodeID
}

// NewPair returns the canonical pair for a and b.
func NewPair(a, b NodeID) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Query is a recommended comparison between two nodes.
type Query struct {
	From NodeID `json:"from"`
	To   NodeID `json:"to"`
}

// NextQuery returns the most informative comparison not yet asked, and false
// when every candidate has been asked.
//
// Ties at the top are resolved first: pairs within level 0 are scanned in
// level order. After that, each level-0 node is compared against the nodes of
// level 1, then level 2, and so on. Pairs within lower levels are never
// proposed.
func (g *RankGraph) NextQuery() (Query, bool) {
	if g.cached == nil {
		g.cached = g.layer()
	}
	r := g.cached
	if len(r) == 0 {
		return Query{}, false
	}

	top := r[0]
	for i := 0; i < len(top); i++ {
		for j := i + 1; j < len(top); j++ {
			if !g.Queried(top[i], top[j]) {
				return Query{From: top[i], To: top[j]}, true
			}
		}
	}

	for _, level := range r[1:] {
		for _, from := range top {
			for _, to := range level {
				if !g.Queried(from, to) {
					return Query{From: from, To: to}, true
				}
			}
		}
	}
	return Query{}, false
}
