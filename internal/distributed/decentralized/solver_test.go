package decentralized

import (
	"context"
	"testing"
	"time"

	"github.com/orange-dot/mapf-cbs/internal/cbs"
	"github.com/orange-dot/mapf-cbs/internal/lowlevel"
	"github.com/orange-dot/mapf-cbs/internal/mapfcore"
)

func planFor(inst *mapfcore.Instance) cbs.Planner {
	horizon := mapfcore.DefaultHorizon(inst.Grid.W, inst.Grid.H)
	return func(agentID int, constraints []mapfcore.Constraint, start, goal mapfcore.Coord) (mapfcore.Path, bool) {
		return lowlevel.SpaceTimeAStar(inst.Grid, constraints, agentID, start, goal, horizon)
	}
}

// TestDecentralizedSolverPassingBayCorridor covers spec scenario S3: a
// corridor swap with room to detour through y=1 must resolve to a
// conflict-free solution.
func TestDecentralizedSolverPassingBayCorridor(t *testing.T) {
	inst := &mapfcore.Instance{
		Grid:   mapfcore.NewEmptyGrid(5, 3),
		Starts: []mapfcore.Coord{{X: 0, Y: 0}, {X: 4, Y: 0}},
		Goals:  []mapfcore.Coord{{X: 4, Y: 0}, {X: 0, Y: 0}},
	}
	cfg := Config{Peers: 3, Timeout: 5 * time.Second, Suboptimality: 1.0, InboxSize: 32}
	solver := NewSolver(cfg, planFor(inst))

	node, stats := solver.Solve(context.Background(), inst)
	if node == nil {
		t.Fatalf("expected a solution, stats=%+v", stats)
	}
	if conflict := cbs.FindFirstConflict(node.Paths); conflict != nil {
		t.Errorf("returned solution still conflicts: %+v", conflict)
	}
}

// TestDecentralizedSolverSuboptimalityBound covers spec scenario S6: with
// w = 1.5 on an S3-shaped instance, the decentralised driver's reported
// cost must stay within 1.5x the serial (optimal) cost.
func TestDecentralizedSolverSuboptimalityBound(t *testing.T) {
	inst := &mapfcore.Instance{
		Grid:   mapfcore.NewEmptyGrid(5, 3),
		Starts: []mapfcore.Coord{{X: 0, Y: 0}, {X: 4, Y: 0}},
		Goals:  []mapfcore.Coord{{X: 4, Y: 0}, {X: 0, Y: 0}},
	}
	cfg := Config{Peers: 3, Timeout: 5 * time.Second, Suboptimality: 1.5, InboxSize: 32}
	solver := NewSolver(cfg, planFor(inst))

	node, stats := solver.Solve(context.Background(), inst)
	if node == nil {
		t.Fatalf("expected a solution, stats=%+v", stats)
	}

	serial := cbs.NewSerialSolver(cbs.DefaultSerialConfig(), planFor(inst))
	serialNode, serialStats := serial.Solve(context.Background(), inst)
	if serialNode == nil {
		t.Fatalf("serial solver expected a solution, stats=%+v", serialStats)
	}

	bound := cfg.Suboptimality * serialNode.Cost
	if node.Cost > bound+1e-6 {
		t.Errorf("decentralized cost %v exceeds %.1fx serial cost %v (bound %v)", node.Cost, cfg.Suboptimality, serialNode.Cost, bound)
	}
}

func TestDecentralizedSolverUnsolvable(t *testing.T) {
	grid := mapfcore.NewEmptyGrid(3, 1)
	grid.SetObstacle(1, 0, true)
	inst := &mapfcore.Instance{
		Grid:   grid,
		Starts: []mapfcore.Coord{{X: 0, Y: 0}},
		Goals:  []mapfcore.Coord{{X: 2, Y: 0}},
	}
	cfg := Config{Peers: 2, Timeout: 2 * time.Second, Suboptimality: 1.0, InboxSize: 32}
	solver := NewSolver(cfg, planFor(inst))

	node, _ := solver.Solve(context.Background(), inst)
	if node != nil {
		t.Fatalf("expected no solution for a walled-off goal")
	}
}
