package rank

// FindCycleNodes returns every node that lies on a directed path leaving start
// and returning to it, in ascending order. The start node is included whenever
// such a path exists; nil is returned when start is on no cycle.
//
// adj maps each node to the nodes it ranks above. FindCycleNodes does not
// modify adj and keeps no state between calls.
//
// # Algorithm
//
// Two explicit-stack searches run in O(V + E):
//  1. Forward from the children of start, collecting the nodes reachable from
//     start by a path of length one or more.
//  2. Backward from start over reversed edges restricted to that set,
//     collecting the reachable nodes that can also get back to start.
func FindCycleNodes(adj [][]NodeID, start NodeID) []NodeID {
	if start < 0 || int(start) >= len(adj) {
		return nil
	}

	reach := make([]bool, len(adj))
	stack := append([]NodeID(nil), adj[start]...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if reach[n] {
			continue
		}
		reach[n] = true
		for _, next := range adj[n] {
			if !reach[next] {
				stack = append(stack, next)
			}
		}
	}
	if !reach[start] {
		return nil
	}

	reverse := make([][]NodeID, len(adj))
	for from, tos := range adj {
		if !reach[from] {
			continue
		}
		for _, to := range tos {
			if reach[to] {
				reverse[to] = append(reverse[to], NodeID(from))
			}
		}
	}

	onCycle := make([]bool, len(adj))
	stack = append(stack[:0], start)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if onCycle[n] {
			continue
		}
		onCycle[n] = true
		for _, prev := range reverse[n] {
			if !onCycle[prev] {
				stack = append(stack, prev)
			}
		}
	}

	var nodes []NodeID
	for id, ok := range onCycle {
		if ok {
			nodes = append(nodes, NodeID(id))
		}
	}
	return nodes
}
