package cbs

import (
	"testing"

	"github.com/orange-dot/mapf-cbs/internal/mapfcore"
)

func TestFindFirstConflictVertex(t *testing.T) {
	paths := map[int]mapfcore.Path{
		0: {{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}},
		1: {{X: 2, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 0}},
	}
	c := FindFirstConflict(paths)
	if c == nil {
		t.Fatalf("expected a conflict")
	}
	if c.Kind != VertexConflict || c.Time != 1 || c.Position != (mapfcore.Coord{X: 1, Y: 0}) {
		t.Errorf("unexpected conflict: %+v", c)
	}
	if c.AgentA != 0 || c.AgentB != 1 {
		t.Errorf("unexpected agent pair: %d,%d", c.AgentA, c.AgentB)
	}
}

func TestFindFirstConflictEdgeSwap(t *testing.T) {
	paths := map[int]mapfcore.Path{
		0: {{X: 0, Y: 0}, {X: 1, Y: 0}},
		1: {{X: 1, Y: 0}, {X: 0, Y: 0}},
	}
	c := FindFirstConflict(paths)
	if c == nil {
		t.Fatalf("expected a conflict")
	}
	if c.Kind != EdgeConflict || c.Time != 0 {
		t.Errorf("unexpected conflict: %+v", c)
	}
}

func TestFindFirstConflictNone(t *testing.T) {
	paths := map[int]mapfcore.Path{
		0: {{X: 0, Y: 0}, {X: 1, Y: 0}},
		1: {{X: 0, Y: 1}, {X: 1, Y: 1}},
	}
	if c := FindFirstConflict(paths); c != nil {
		t.Errorf("expected no conflict, got %+v", c)
	}
}

func TestFindFirstConflictWaitAtGoal(t *testing.T) {
	paths := map[int]mapfcore.Path{
		0: {{X: 0, Y: 0}},
		1: {{X: 1, Y: 0}, {X: 0, Y: 0}},
	}
	c := FindFirstConflict(paths)
	if c == nil {
		t.Fatalf("expected a conflict once agent 1 reaches agent 0's resting cell")
	}
	if c.Time != 1 {
		t.Errorf("conflict time = %d, want 1", c.Time)
	}
}
