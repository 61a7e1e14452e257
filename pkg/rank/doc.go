// Package rank maintains a partial ranking built from pairwise comparisons
// and proposes the next comparison worth asking.
//
// # Overview
//
// Items are dense integer node IDs created with [RankGraph.AddNode]. Every
// judgement "a beats b" is a directed edge added with [RankGraph.AddEdge].
// The graph never stores scores: reachability alone implies rank order, so
// transitive relationships are inferred without asking for them.
//
//	g := rank.New()
//	apple, pear, plum := g.AddNode(), g.AddNode(), g.AddNode()
//	_ = g.AddEdge(apple, pear)
//	_ = g.AddEdge(pear, plum)
//	g.Ranking() // [[apple] [pear] [plum]]
//
// # Layering
//
// [RankGraph.Ranking] groups nodes into levels by their shortest distance
// from the frontier, the nodes nobody was judged to beat. Nodes on the same
// level are tied. The result is cached and recomputed lazily after the next
// mutation.
//
// # Cycles
//
// Contradicting judgements can close a cycle. When an edge points into the
// only frontier node, the nodes on cycles through it (see [FindCycleNodes])
// become the starting set for layering once the frontier is empty. Cycles
// closed while the frontier still holds several nodes are not tracked; their
// members may drop out of the ranking.
//
// # Active learning
//
// [RankGraph.NextQuery] picks the first comparison not yet asked, first among
// the tied top nodes and then between the top nodes and each lower level.
// Pairs are remembered without direction, and [RankGraph.MarkQueried] records
// questions that were asked without yielding an edge.
package rank
