package rank

import (
	"errors"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/pairrank/pkg/errors"
)

// ErrOutOfBounds is returned by [RankGraph.AddEdge] and [RankGraph.MarkQueried]
// when a node ID is negative or not smaller than [RankGraph.Size]. The returned
// error also carries the [errs.ErrCodeOutOfBounds] code.
var ErrOutOfBounds = errors.New("node out of bounds")

// NodeID identifies an item being ranked. IDs are dense: a graph of size n
// holds exactly the IDs 0..n-1.
type NodeID int

// Edge records the judgement "From ranks above To".
type Edge struct {
	From NodeID
	To   NodeID
}

// Option configures a [RankGraph].
type Option func(*RankGraph)

// WithLogger sets the logger used for debug tracing of cycle recovery.
// A nil logger is ignored.
func WithLogger(l *log.Logger) Option {
	return func(g *RankGraph) {
		if l != nil {
			g.logger = l
		}
	}
}

// RankGraph maintains a partial ranking built from pairwise comparisons.
//
// Edges point from winner to loser. Nodes without incoming edges form the
// frontier, which seeds the layered ranking returned by [RankGraph.Ranking].
// When an edge points into the sole frontier node, the nodes on cycles through
// it are recorded and used as the starting set once the frontier is empty.
//
// The zero value is not usable - use New to create a valid instance.
// RankGraph is not safe for concurrent use without external synchronization.
type RankGraph struct {
	adj      [][]NodeID // node -> losers, duplicates kept
	edges    int
	frontier []bool // frontier[n] reports whether n has no incoming edge
	inFront  int

	cycleStart NodeID
	cycleNodes []NodeID

	cached  Ranking // nil when dirty
	queried map[Pair]struct{}

	logger *log.Logger
}

// New creates an empty ranking graph.
func New(opts ...Option) *RankGraph {
	g := &RankGraph{
		cycleStart: -1,
		queried:    make(map[Pair]struct{}),
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Size returns the number of nodes in the graph.
func (g *RankGraph) Size() int { return len(g.adj) }

// EdgeCount returns the number of recorded edges, parallel edges included.
func (g *RankGraph) EdgeCount() int { return g.edges }

// AddNode appends a new node, places it in the frontier and returns its ID.
func (g *RankGraph) AddNode() NodeID {
	id := NodeID(len(g.adj))
	g.adj = append(g.adj, nil)
	g.frontier = append(g.frontier, true)
	g.inFront++
	g.invalidate()
	return id
}

// AddEdge records that a ranks above b.
//
// If b is the only node left in the frontier, the edge may close a cycle back
// to it: b becomes the cycle start and the nodes on cycles through b are
// recorded as the fallback starting set for [RankGraph.Ranking].
//
// Adding the same edge again is allowed and stores a parallel edge. The pair
// is recorded in the query log either way. AddEdge returns an error wrapping
// [ErrOutOfBounds] when either ID is invalid, in which case the graph is left
// untouched.
func (g *RankGraph) AddEdge(a, b NodeID) error {
	if err := g.checkBounds(a, b); err != nil {
		return err
	}

	g.adj[a] = append(g.adj[a], b)
	g.edges++

	if g.inFront == 1 && g.frontier[b] {
		g.cycleStart = b
		g.cycleNodes = FindCycleNodes(g.adj, b)
		g.logger.Debug("frontier collapsing into cycle", "start", b, "edge", Edge{From: a, To: b}, "cycle", g.cycleNodes)
	}

	if g.frontier[b] {
		g.frontier[b] = false
		g.inFront--
	}
	g.invalidate()
	g.queried[NewPair(a, b)] = struct{}{}
	return nil
}

// MarkQueried records the pair (a, b) in the query log without adding an edge.
// It is used when a comparison was asked but yielded no judgement, so that
// [RankGraph.NextQuery] does not ask it again. The ranking is not affected.
func (g *RankGraph) MarkQueried(a, b NodeID) error {
	if err := g.checkBounds(a, b); err != nil {
		return err
	}
	g.queried[NewPair(a, b)] = struct{}{}
	return nil
}

// Queried reports whether the comparison between a and b was already asked,
// in either direction.
func (g *RankGraph) Queried(a, b NodeID) bool {
	_, ok := g.queried[NewPair(a, b)]
	return ok
}

// QueryCount returns the number of distinct pairs in the query log.
func (g *RankGraph) QueryCount() int { return len(g.queried) }

// Children returns the nodes id was judged to rank above, in insertion order.
// Returns nil for unknown IDs. The returned slice must not be modified.
func (g *RankGraph) Children(id NodeID) []NodeID {
	if !g.valid(id) {
		return nil
	}
	return g.adj[id]
}

// Edges returns all edges in insertion order per source node.
func (g *RankGraph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for from, tos := range g.adj {
		for _, to := range tos {
			out = append(out, Edge{From: NodeID(from), To: to})
		}
	}
	return out
}

// Frontier returns the nodes without incoming edges in ascending order.
func (g *RankGraph) Frontier() []NodeID {
	out := make([]NodeID, 0, g.inFront)
	for id, ok := range g.frontier {
		if ok {
			out = append(out, NodeID(id))
		}
	}
	return out
}

// CycleStart returns the node recorded when the frontier last collapsed into
// a cycle, and false if that never happened.
func (g *RankGraph) CycleStart() (NodeID, bool) {
	return g.cycleStart, g.cycleStart >= 0
}

// CycleNodes returns the recorded fallback starting set in ascending order.
func (g *RankGraph) CycleNodes() []NodeID { return slices.Clone(g.cycleNodes) }

// Stale reports whether the next call to [RankGraph.Ranking] recomputes.
func (g *RankGraph) Stale() bool { return g.cached == nil }

func (g *RankGraph) invalidate() { g.cached = nil }

func (g *RankGraph) valid(id NodeID) bool { return id >= 0 && int(id) < len(g.adj) }

func (g *RankGraph) checkBounds(ids ...NodeID) error {
	for _, id := range ids {
		if !g.valid(id) {
			return errs.Wrap(errs.ErrCodeOutOfBounds, ErrOutOfBounds, "node %d not in [0, %d)", id, len(g.adj))
		}
	}
	return nil
}
