package cbs

import (
	"context"
	"fmt"
	"time"

	"github.com/orange-dot/mapf-cbs/internal/mapfcore"
	"github.com/orange-dot/mapf-cbs/internal/pq"
)

// SerialConfig controls the single-process best-first driver. Whether the
// low-level planner it calls runs sequentially or splits expansion across
// workers is decided by which Planner the caller passes to
// NewSerialSolver, not by this config.
type SerialConfig struct {
	MaxNodes int
	Timeout  time.Duration
}

// DefaultSerialConfig mirrors the original's hard-coded 20000-node cap.
func DefaultSerialConfig() SerialConfig {
	return SerialConfig{
		MaxNodes: mapfcore.DefaultMaxNode,
		Timeout:  30 * time.Second,
	}
}

// SerialSolver runs CBS on a single goroutine: pop the cheapest open node,
// find its first conflict, and either report a solution or branch into two
// children. Grounded on the original's plain (non-MPI) best-first loop in
// cbs.c, minus the MPI scaffolding.
type SerialSolver struct {
	Config SerialConfig
	Plan   Planner
}

// NewSerialSolver builds a solver that calls plan for every agent replan.
func NewSerialSolver(cfg SerialConfig, plan Planner) *SerialSolver {
	return &SerialSolver{Config: cfg, Plan: plan}
}

// Solve searches inst's constraint tree until it finds a conflict-free
// node, exhausts the tree, hits MaxNodes, or the context/timeout expires.
func (s *SerialSolver) Solve(ctx context.Context, inst *mapfcore.Instance) (*Node, mapfcore.Stats) {
	stats := mapfcore.Stats{}
	start := timeNow()

	if s.Config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Config.Timeout)
		defer cancel()
	}

	root := BuildRoot(inst, s.Plan)
	if root == nil {
		stats.RuntimeSec = elapsed(start)
		return nil, stats
	}
	stats.NodesGenerated++

	open := pq.New()
	nodes := map[int]*Node{root.ID: root}
	nextID := 1
	open.Push(root.Cost, root.ID)

	for open.Len() > 0 {
		select {
		case <-ctx.Done():
			stats.TimedOut = true
			stats.RuntimeSec = elapsed(start)
			return nil, stats
		default:
		}

		if stats.NodesExpanded >= int64(s.Config.MaxNodes) {
			stats.TimedOut = true
			stats.RuntimeSec = elapsed(start)
			return nil, stats
		}

		v, _, _ := open.Pop()
		id := v.(int)
		node := nodes[id]
		stats.NodesExpanded++

		conflict := FindFirstConflict(node.Paths)
		if conflict == nil {
			stats.SolutionFound = true
			stats.BestCost = node.Cost
			stats.RuntimeSec = elapsed(start)
			return node, stats
		}
		stats.ConflictsDetected++

		for _, child := range BuildChildren(inst, node, conflict, s.Plan) {
			child.ID = nextID
			nextID++
			nodes[child.ID] = child
			stats.NodesGenerated++
			open.Push(child.Cost, child.ID)
		}
	}

	stats.RuntimeSec = elapsed(start)
	return nil, stats
}

// timeNow and elapsed isolate the one wall-clock read this package needs so
// tests can stay deterministic; nothing in the search loop itself depends
// on real time except the timeout check.
func timeNow() time.Time { return time.Now() }
func elapsed(since time.Time) float64 { return time.Since(since).Seconds() }

// ErrUnsolvable is returned by callers (not this package) when Solve
// exhausts the open list (nil node, TimedOut false) rather than hitting the
// node budget or a deadline.
var ErrUnsolvable = fmt.Errorf("cbs: instance has no conflict-free solution")
