// Package cbs implements the high-level Conflict-Based Search tree: nodes,
// conflict detection, child construction, and the serial best-first
// driver. The distributed drivers in internal/distributed reuse the
// exported helpers here (Planner, FindFirstConflict, BuildChildren) rather
// than duplicating the branching logic.
package cbs

import "github.com/orange-dot/mapf-cbs/internal/mapfcore"

// Node is one element of the CBS constraint tree: a constraint set and the
// per-agent paths that respect it. Ownership is tree-like — a node owns
// its constraints and paths outright; there are no shared mutable
// backing arrays between a node and its children after Clone.
type Node struct {
	ID          int
	ParentID    int
	Depth       int
	Cost        float64
	Constraints mapfcore.ConstraintSet
	Paths       map[int]mapfcore.Path
}

// NewNode returns an empty node for the given number of agents.
func NewNode(numAgents int) *Node {
	return &Node{
		ID:       -1,
		ParentID: -1,
		Paths:    make(map[int]mapfcore.Path, numAgents),
	}
}

// Clone deep-copies constraints and paths so the child can be mutated
// independently of the parent.
func (n *Node) Clone() *Node {
	child := &Node{
		ID:          -1,
		ParentID:    n.ID,
		Depth:       n.Depth + 1,
		Cost:        n.Cost,
		Constraints: n.Constraints.Clone(),
		Paths:       make(map[int]mapfcore.Path, len(n.Paths)),
	}
	for agent, path := range n.Paths {
		child.Paths[agent] = path.Clone()
	}
	return child
}

// ComputeSoC recomputes and returns the sum-of-costs across all agents.
func (n *Node) ComputeSoC() float64 {
	soc := 0.0
	for _, path := range n.Paths {
		soc += float64(path.Len())
	}
	n.Cost = soc
	return soc
}
