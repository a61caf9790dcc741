package cbs

import (
	"testing"

	"github.com/orange-dot/mapf-cbs/internal/lowlevel"
	"github.com/orange-dot/mapf-cbs/internal/mapfcore"
)

// gridPlanner adapts a plain grid into a Planner backed by the sequential
// space-time A* search, mirroring how the outer drivers wire a concrete
// planner into this package's tree logic.
func gridPlanner(grid *mapfcore.Grid, horizon int) Planner {
	return func(agentID int, constraints []mapfcore.Constraint, start, goal mapfcore.Coord) (mapfcore.Path, bool) {
		return lowlevel.SpaceTimeAStar(grid, constraints, agentID, start, goal, horizon)
	}
}

func TestBuildChildrenVertexConflict(t *testing.T) {
	grid := mapfcore.NewEmptyGrid(3, 1)
	inst := &mapfcore.Instance{
		Grid:   grid,
		Starts: []mapfcore.Coord{{X: 0, Y: 0}, {X: 2, Y: 0}},
		Goals:  []mapfcore.Coord{{X: 2, Y: 0}, {X: 0, Y: 0}},
	}
	plan := gridPlanner(grid, mapfcore.DefaultHorizon(3, 1))

	root := BuildRoot(inst, plan)
	if root == nil {
		t.Fatalf("expected root to be buildable")
	}

	conflict := &Conflict{AgentA: 0, AgentB: 1, Time: 1, Position: mapfcore.Coord{X: 1, Y: 0}, Kind: VertexConflict}
	children := BuildChildren(inst, root, conflict, plan)
	if len(children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(children))
	}
	for _, child := range children {
		found := false
		for _, c := range child.Constraints.All() {
			if c.Kind == mapfcore.ConstraintVertex && c.Time == 1 && c.Vertex == (mapfcore.Coord{X: 1, Y: 0}) {
				found = true
			}
		}
		if !found {
			t.Errorf("child missing expected vertex constraint: %+v", child.Constraints.All())
		}
	}
}

func TestBuildChildrenEdgeConflictAsymmetry(t *testing.T) {
	grid := mapfcore.NewEmptyGrid(2, 1)
	inst := &mapfcore.Instance{
		Grid:   grid,
		Starts: []mapfcore.Coord{{X: 0, Y: 0}, {X: 1, Y: 0}},
		Goals:  []mapfcore.Coord{{X: 1, Y: 0}, {X: 0, Y: 0}},
	}
	_ = inst
	node := NewNode(2)
	node.Paths[0] = mapfcore.Path{{X: 0, Y: 0}, {X: 1, Y: 0}}
	node.Paths[1] = mapfcore.Path{{X: 1, Y: 0}, {X: 0, Y: 0}}

	conflict := &Conflict{AgentA: 0, AgentB: 1, Time: 0, Position: mapfcore.Coord{X: 0, Y: 0}, Kind: EdgeConflict, EdgeTo: mapfcore.Coord{X: 1, Y: 0}}

	ca := constraintFor(node, conflict, 0)
	if ca.Vertex != (mapfcore.Coord{X: 0, Y: 0}) || ca.EdgeTo != (mapfcore.Coord{X: 1, Y: 0}) {
		t.Errorf("agent A constraint should use the conflict's own from/to, got %+v", ca)
	}

	cb := constraintFor(node, conflict, 1)
	if cb.Vertex != (mapfcore.Coord{X: 1, Y: 0}) || cb.EdgeTo != (mapfcore.Coord{X: 0, Y: 0}) {
		t.Errorf("agent B constraint should be recomputed from its own path, got %+v", cb)
	}
}
