package lowlevel

import (
	"context"
	"testing"

	"github.com/orange-dot/mapf-cbs/internal/mapfcore"
)

func TestSpaceTimeAStarNoObstacles(t *testing.T) {
	grid := mapfcore.NewEmptyGrid(3, 3)
	path, ok := SpaceTimeAStar(grid, nil, 0, mapfcore.Coord{X: 0, Y: 0}, mapfcore.Coord{X: 2, Y: 0}, mapfcore.DefaultHorizon(3, 3))
	if !ok {
		t.Fatalf("expected path to be found")
	}
	if path.Len() != 3 {
		t.Errorf("path length = %d, want 3", path.Len())
	}
	if path.At(0) != (mapfcore.Coord{X: 0, Y: 0}) || path.At(path.Len()-1) != (mapfcore.Coord{X: 2, Y: 0}) {
		t.Errorf("path endpoints wrong: %v", path)
	}
}

func TestSpaceTimeAStarStartEqualsGoal(t *testing.T) {
	grid := mapfcore.NewEmptyGrid(3, 3)
	path, ok := SpaceTimeAStar(grid, nil, 0, mapfcore.Coord{X: 1, Y: 1}, mapfcore.Coord{X: 1, Y: 1}, mapfcore.DefaultHorizon(3, 3))
	if !ok {
		t.Fatalf("expected path to be found")
	}
	if path.Len() != 1 {
		t.Errorf("path length = %d, want 1", path.Len())
	}
}

func TestSpaceTimeAStarWalledOff(t *testing.T) {
	grid := mapfcore.NewEmptyGrid(3, 3)
	for y := 0; y < 3; y++ {
		grid.SetObstacle(1, y, true)
	}
	_, ok := SpaceTimeAStar(grid, nil, 0, mapfcore.Coord{X: 0, Y: 0}, mapfcore.Coord{X: 2, Y: 0}, mapfcore.DefaultHorizon(3, 3))
	if ok {
		t.Errorf("expected failure with a walled-off goal")
	}
}

func TestSpaceTimeAStarVertexConstraintForcesWait(t *testing.T) {
	grid := mapfcore.NewEmptyGrid(3, 1)
	constraints := []mapfcore.Constraint{
		{AgentID: 0, Time: 1, Kind: mapfcore.ConstraintVertex, Vertex: mapfcore.Coord{X: 1, Y: 0}},
	}
	path, ok := SpaceTimeAStar(grid, constraints, 0, mapfcore.Coord{X: 0, Y: 0}, mapfcore.Coord{X: 2, Y: 0}, mapfcore.DefaultHorizon(3, 1))
	if !ok {
		t.Fatalf("expected path to be found")
	}
	if path.At(1) == (mapfcore.Coord{X: 1, Y: 0}) {
		t.Errorf("path violates vertex constraint at t=1: %v", path)
	}
}

func TestSpaceTimeAStarEdgeConstraintBlocksSwap(t *testing.T) {
	grid := mapfcore.NewEmptyGrid(2, 1)
	constraints := []mapfcore.Constraint{
		{AgentID: 0, Time: 0, Kind: mapfcore.ConstraintEdge, Vertex: mapfcore.Coord{X: 0, Y: 0}, EdgeTo: mapfcore.Coord{X: 1, Y: 0}},
	}
	path, ok := SpaceTimeAStar(grid, constraints, 0, mapfcore.Coord{X: 0, Y: 0}, mapfcore.Coord{X: 1, Y: 0}, mapfcore.DefaultHorizon(2, 1))
	if !ok {
		t.Fatalf("expected an alternative (waiting) path to be found")
	}
	if path.Len() != 3 {
		t.Errorf("path length = %d, want 3 (wait one step then move)", path.Len())
	}
}

func TestParallelAStarMatchesSequential(t *testing.T) {
	grid := mapfcore.NewEmptyGrid(5, 5)
	start := mapfcore.Coord{X: 0, Y: 0}
	goal := mapfcore.Coord{X: 4, Y: 4}
	horizon := mapfcore.DefaultHorizon(5, 5)

	seqPath, seqOK := SpaceTimeAStar(grid, nil, 0, start, goal, horizon)
	parPath, parOK := ParallelAStar(context.Background(), grid, nil, 0, start, goal, horizon, 4)

	if seqOK != parOK {
		t.Fatalf("sequential ok=%v, parallel ok=%v", seqOK, parOK)
	}
	if seqPath.Len() != parPath.Len() {
		t.Errorf("sequential len=%d, parallel len=%d", seqPath.Len(), parPath.Len())
	}
}
