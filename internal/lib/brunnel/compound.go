package brunnel

import (
	"go.uber.org/zap"
)

// detectCompounds merges candidates that are segments of one real-world
// structure (for example a bridge split into several OSM ways at a shared
// pier). Within each kind, candidates sharing at least one endpoint node
// identifier are edges of an undirected graph; each connected component of
// size >= 2 becomes a compound group. Every member of a component receives
// the same Group, whose representative is the member with the smallest span
// start (ties broken by input order).
func (a *Analyzer) detectCompounds(candidates []*Brunnel) {
	groups := 0
	for _, kind := range []Kind{KindBridge, KindTunnel} {
		groups += a.detectCompoundsOfKind(candidates, kind)
	}
	a.logger.Debug("compound detection", zap.Int("groups", groups))
}

func (a *Analyzer) detectCompoundsOfKind(candidates []*Brunnel, kind Kind) int {
	// Index eligible candidates by shared endpoint node id.
	var eligible []*Brunnel
	byNode := make(map[int64][]int)
	for _, b := range candidates {
		if b.Kind != kind || !b.Included() || b.Span == nil {
			continue
		}
		eligible = append(eligible, b)
		for _, node := range b.NodeIDs {
			byNode[node] = append(byNode[node], b.index)
		}
	}

	arena := make(map[int]*Brunnel, len(eligible))
	for _, b := range eligible {
		arena[b.index] = b
	}

	// Connected components via breadth-first traversal. Traversal order does
	// not affect the resulting partition, only discovery order.
	visited := make(map[int]bool, len(eligible))
	groups := 0
	for _, start := range eligible {
		if visited[start.index] {
			continue
		}
		component := []int{start.index}
		visited[start.index] = true
		queue := []int{start.index}
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			for _, node := range arena[current].NodeIDs {
				for _, neighbor := range byNode[node] {
					if neighbor == current || visited[neighbor] {
						continue
					}
					visited[neighbor] = true
					component = append(component, neighbor)
					queue = append(queue, neighbor)
				}
			}
		}

		if len(component) < 2 {
			continue
		}

		group := newGroup(component)
		group.rep = representativeOf(arena, group.members)
		for _, idx := range group.members {
			arena[idx].Compound = group
		}
		groups++
	}
	return groups
}

// representativeOf picks the member with the smallest span start. Members
// are visited in ascending arena-index order, and a strict comparison keeps
// the earliest input on exact ties.
func representativeOf(arena map[int]*Brunnel, members []int) int {
	rep := -1
	best := 0.0
	for _, idx := range members {
		b := arena[idx]
		if b.Span == nil {
			continue
		}
		if rep == -1 || b.Span.Start < best {
			rep = idx
			best = b.Span.Start
		}
	}
	return rep
}
