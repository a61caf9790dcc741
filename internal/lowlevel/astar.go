// Package lowlevel implements the constrained space-time A* planner: the
// per-agent shortest path search that CBS's high level replans under a
// growing constraint set.
package lowlevel

import (
	"github.com/orange-dot/mapf-cbs/internal/mapfcore"
	"github.com/orange-dot/mapf-cbs/internal/pq"
)

// move is one of the five actions: wait, +x, -x, +y, -y.
type move struct{ dx, dy int }

var moves = [mapfcore.MaxNeighbors]move{
	{0, 0},
	{1, 0},
	{-1, 0},
	{0, 1},
	{0, -1},
}

// astarNode is one expanded state in the search, addressed by its index
// into the buffer (an arena of nodes, parent links by index — never by
// pointer, so the buffer can grow via append without invalidating parents).
type astarNode struct {
	pos        mapfcore.Coord
	g, f, time int
	parent     int // index into the buffer, -1 for the root
}

func manhattan(a, b mapfcore.Coord) int {
	return absInt(a.X-b.X) + absInt(a.Y-b.Y)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func violatesConstraint(constraints []mapfcore.Constraint, agentID int, timeFrom, timeTo int, from, to mapfcore.Coord) bool {
	for _, c := range constraints {
		if !c.AppliesTo(agentID) {
			continue
		}
		switch c.Kind {
		case mapfcore.ConstraintVertex:
			if c.Time == timeTo && c.Vertex == to {
				return true
			}
		case mapfcore.ConstraintEdge:
			if c.Time == timeFrom && c.Vertex == from && c.EdgeTo == to {
				return true
			}
		}
	}
	return false
}

func stateIndex(g *mapfcore.Grid, t, x, y int) int {
	plane := g.W * g.H
	return t*plane+y*g.W+x
}

func reconstruct(buffer []astarNode, goalIndex int) mapfcore.Path {
	length := buffer[goalIndex].time + 1
	path := make(mapfcore.Path, length)
	idx := goalIndex
	for writePos := length - 1; idx >= 0 && writePos >= 0; writePos-- {
		n := &buffer[idx]
		path[writePos] = n.pos
		idx = n.parent
	}
	return path
}

// SpaceTimeAStar finds a shortest path from start to goal that respects
// every constraint in constraints applying to agentID, within the given
// time horizon. It reports failure (ok=false) if no such path exists
// before the horizon is exhausted.
func SpaceTimeAStar(grid *mapfcore.Grid, constraints []mapfcore.Constraint, agentID int, start, goal mapfcore.Coord, horizon int) (path mapfcore.Path, ok bool) {
	plane := grid.W * grid.H
	bestG := make([]int, horizon*plane)
	for i := range bestG {
		bestG[i] = -1
	}

	var buffer []astarNode
	open := pq.New()

	root := astarNode{pos: start, g: 0, f: manhattan(start, goal), parent: -1, time: 0}
	buffer = append(buffer, root)
	open.Push(float64(root.f), 0)
	bestG[stateIndex(grid, 0, start.X, start.Y)] = 0

	goalIndex := -1
	for open.Len() > 0 {
		// Defensive exit for the low-level planner's own expansion budget:
		// no forced interruption from outside, so bound work by state space
		// size (spec §5's "Cancellation and timeouts").
		if open.Len() > horizon*plane {
			break
		}

		v, _, _ := open.Pop()
		nodeIndex := v.(int)
		node := buffer[nodeIndex]
		if node.pos == goal {
			goalIndex = nodeIndex
			break
		}

		for _, m := range moves {
			next := mapfcore.Coord{X: node.pos.X + m.dx, Y: node.pos.Y + m.dy}
			nextTime := node.time + 1
			if nextTime >= horizon {
				continue
			}
			if !grid.InBounds(next.X, next.Y) {
				continue
			}
			if (m.dx != 0 || m.dy != 0) && grid.IsObstacle(next.X, next.Y) {
				continue
			}
			if violatesConstraint(constraints, agentID, node.time, nextTime, node.pos, next) {
				continue
			}
			g := node.g + 1
			idx := stateIndex(grid, nextTime, next.X, next.Y)
			if bestG[idx] >= 0 && bestG[idx] <= g {
				continue
			}
			bestG[idx] = g
			child := astarNode{pos: next, g: g, f: g + manhattan(next, goal), parent: nodeIndex, time: nextTime}
			buffer = append(buffer, child)
			open.Push(float64(child.f), len(buffer)-1)
		}
	}

	if goalIndex < 0 {
		return nil, false
	}
	return reconstruct(buffer, goalIndex), true
}
