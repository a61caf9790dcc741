package cbs

import "github.com/orange-dot/mapf-cbs/internal/mapfcore"

// ConflictKind distinguishes a same-cell conflict from a swap conflict.
type ConflictKind int

const (
	VertexConflict ConflictKind = iota
	EdgeConflict
)

// Conflict is the first collision found between two agents' paths.
type Conflict struct {
	AgentA, AgentB int
	Time           int
	Position       mapfcore.Coord
	Kind           ConflictKind
	EdgeTo         mapfcore.Coord // valid only for EdgeConflict
}

// FindFirstConflict scans every pair of agents over the shared time axis
// (using the wait-at-goal rule) and returns the first conflict in
// nested (time, agent-pair) order: vertex conflicts are checked before
// edge conflicts at each (t, a, b). Returns nil if the paths are
// collision-free.
func FindFirstConflict(paths map[int]mapfcore.Path) *Conflict {
	maxLen := 0
	agents := make([]int, 0, len(paths))
	for agent, p := range paths {
		agents = append(agents, agent)
		if p.Len() > maxLen {
			maxLen = p.Len()
		}
	}
	sortInts(agents)

	for t := 0; t < maxLen; t++ {
		for ai := 0; ai < len(agents); ai++ {
			a := agents[ai]
			aCurr := paths[a].At(t)
			aNext := paths[a].At(t + 1)
			for bi := ai + 1; bi < len(agents); bi++ {
				b := agents[bi]
				bCurr := paths[b].At(t)
				bNext := paths[b].At(t + 1)

				if aCurr == bCurr {
					return &Conflict{AgentA: a, AgentB: b, Time: t, Position: aCurr, Kind: VertexConflict}
				}
				if aCurr == bNext && bCurr == aNext {
					return &Conflict{AgentA: a, AgentB: b, Time: t, Position: aCurr, Kind: EdgeConflict, EdgeTo: aNext}
				}
			}
		}
	}
	return nil
}

// sortInts is a tiny insertion sort: agent counts are small (<= MaxAgents)
// so this avoids pulling in sort.Ints for one call site's worth of
// determinism (the conflict order must be reproducible across drivers).
func sortInts(xs []int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}
