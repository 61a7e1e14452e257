package rank

import (
	"testing"
)

func TestNextQuery_Empty(t *testing.T) {
	if q, ok := New().NextQuery(); ok {
		t.Errorf("NextQuery() = %+v on empty graph, want none", q)
	}
}

func TestNextQuery_SingleNode(t *testing.T) {
	if q, ok := newGraph(t, 1).NextQuery(); ok {
		t.Errorf("NextQuery() = %+v with one node, want none", q)
	}
}

func TestNextQuery_TopTiesFirst(t *testing.T) {
	g := newGraph(t, 3)

	assertQuery(t, g, Query{From: 0, To: 1})

	if err := g.AddEdge(0, 1); err != nil {
		t.Fatal(err)
	}
	assertQuery(t, g, Query{From: 0, To: 2})
}

func TestNextQuery_ExplicitLogEntry(t *testing.T) {
	g := newGraph(t, 3)

	if err := g.MarkQueried(0, 1); err != nil {
		t.Fatal(err)
	}
	assertQuery(t, g, Query{From: 0, To: 2})

	if err := g.MarkQueried(2, 0); err != nil {
		t.Fatal(err)
	}
	assertQuery(t, g, Query{From: 1, To: 2})

	if err := g.MarkQueried(1, 2); err != nil {
		t.Fatal(err)
	}
	assertNoQuery(t, g)
}

func TestNextQuery_CrossLevelAfterTopExhausted(t *testing.T) {
	// Ranking [[0 2] [1]]: the top pair is asked first, then 2 vs 1.
	g := newGraph(t, 3, Edge{0, 1})
	assertQuery(t, g, Query{From: 0, To: 2})

	if err := g.MarkQueried(0, 2); err != nil {
		t.Fatal(err)
	}
	assertQuery(t, g, Query{From: 2, To: 1})
}

func TestNextQuery_CrossLevelOrder(t *testing.T) {
	// Ranking [[0] [1 2] [3]].
	g := newGraph(t, 4, Edge{0, 1}, Edge{0, 2}, Edge{1, 3})
	assertQuery(t, g, Query{From: 0, To: 3})

	if err := g.AddEdge(0, 3); err != nil {
		t.Fatal(err)
	}
	// 0 -> 3 shortens 3's distance: ranking [[0] [1 2 3]], everything asked.
	assertNoQuery(t, g)
}

func TestNextQuery_SkipsLowerLevelPairs(t *testing.T) {
	// 1 and 2 are tied on level 1 but only top-vs-lower pairs are proposed.
	g := newGraph(t, 3, Edge{0, 1}, Edge{0, 2})
	assertNoQuery(t, g)
}

func TestNextQuery_DirectionInsensitive(t *testing.T) {
	g := newGraph(t, 2)
	if err := g.MarkQueried(1, 0); err != nil {
		t.Fatal(err)
	}
	assertNoQuery(t, g)
}

func TestNextQuery_CollapsedCycle(t *testing.T) {
	g := newGraph(t, 6, Edge{0, 1}, Edge{0, 2}, Edge{3, 0}, Edge{3, 4}, Edge{3, 5}, Edge{1, 3})

	// Level 0 is {0 1 3}, all pairs asked; 0 vs 2 asked; 0 vs 4 is next.
	assertQuery(t, g, Query{From: 0, To: 4})
}

func TestNextQuery_ConvergesToTotalOrder(t *testing.T) {
	// Answer every query according to a hidden order and check termination.
	hidden := []NodeID{3, 0, 4, 1, 2}
	pos := make(map[NodeID]int, len(hidden))
	for i, n := range hidden {
		pos[n] = i
	}

	g := newGraph(t, len(hidden))
	for steps := 0; ; steps++ {
		if steps > 100 {
			t.Fatal("NextQuery() did not terminate")
		}
		q, ok := g.NextQuery()
		if !ok {
			break
		}
		winner, loser := q.From, q.To
		if pos[loser] < pos[winner] {
			winner, loser = loser, winner
		}
		if err := g.AddEdge(winner, loser); err != nil {
			t.Fatal(err)
		}
	}

	r := g.Ranking()
	if len(r[0]) != 1 || r[0][0] != 3 {
		t.Errorf("top level = %v, want [3]", r[0])
	}
}

func assertQuery(t *testing.T, g *RankGraph, want Query) {
	t.Helper()
	got, ok := g.NextQuery()
	if !ok {
		t.Fatalf("NextQuery() = none, want %+v (ranking %v)", want, g.Ranking())
	}
	if got != want {
		t.Fatalf("NextQuery() = %+v, want %+v (ranking %v)", got, want, g.Ranking())
	}
}

func assertNoQuery(t *testing.T, g *RankGraph) {
	t.Helper()
	if got, ok := g.NextQuery(); ok {
		t.Fatalf("NextQuery() = %+v, want none (ranking %v)", got, g.Ranking())
	}
}
