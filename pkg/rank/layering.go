package rank

import (
	"github.com/gammazero/deque"
)

// Ranking is an ordered list of levels, best first. Nodes within a level are
// tied; level i holds the nodes first reached i steps away from a start node.
type Ranking [][]NodeID

// NodeCount returns the total number of nodes across all levels.
func (r Ranking) NodeCount() int {
	n := 0
	for _, level := range r {
		n += len(level)
	}
	return n
}

// Levels returns a lookup from node to level index.
// Nodes absent from the ranking have no entry.
func (r Ranking) Levels() map[NodeID]int {
	m := make(map[NodeID]int, r.NodeCount())
	for i, level := range r {
		for _, n := range level {
			m[n] = i
		}
	}
	return m
}

// Clone returns a deep copy of the ranking.
func (r Ranking) Clone() Ranking {
	out := make(Ranking, len(r))
	for i, level := range r {
		out[i] = append([]NodeID(nil), level...)
	}
	return out
}

// Ranking returns the current layered ranking.
//
// The result is cached until the next call to [RankGraph.AddNode] or
// [RankGraph.AddEdge]. Callers receive a copy and may modify it freely.
//
// # Algorithm
//
// The starting set is the frontier, or the recorded cycle nodes when the
// frontier is empty. A breadth-first propagation then assigns each node the
// level of its shortest distance from any start node:
//  1. Seed a FIFO queue with every start node at depth 0
//  2. Pop a node; skip it if already placed, otherwise place it at its depth
//  3. Enqueue each unplaced child at depth+1
//
// This is Kahn's layering without edge removal, so it terminates on cyclic
// graphs. Nodes unreachable from the starting set are not ranked.
func (g *RankGraph) Ranking() Ranking {
	if g.cached == nil {
		g.cached = g.layer()
	}
	return g.cached.Clone()
}

type visit struct {
	node  NodeID
	depth int
}

func (g *RankGraph) layer() Ranking {
	start := g.Frontier()
	if len(start) == 0 {
		start = g.cycleNodes
	}

	var queue deque.Deque[visit]
	for _, n := range start {
		queue.PushBack(visit{node: n})
	}

	placed := make([]bool, len(g.adj))
	levels := Ranking{}
	for queue.Len() > 0 {
		v := queue.PopFront()
		if placed[v.node] {
			continue
		}
		placed[v.node] = true
		for len(levels) <= v.depth {
			levels = append(levels, nil)
		}
		levels[v.depth] = append(levels[v.depth], v.node)
		for _, child := range g.adj[v.node] {
			if !placed[child] {
				queue.PushBack(visit{node: child, depth: v.depth + 1})
			}
		}
	}
	return levels
}
