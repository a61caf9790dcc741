package lowlevel

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/orange-dot/mapf-cbs/internal/mapfcore"
	"github.com/orange-dot/mapf-cbs/internal/pq"
)

// llTask is the coordinator-to-expander message: one A* node to expand.
// Named after the original protocol's TAG_LL_TASK frame (node index, x, y,
// g, t).
type llTask struct {
	nodeIndex int
	pos       mapfcore.Coord
	g, time   int
}

// llResult is the expander-to-coordinator reply: up to MaxNeighbors
// successors of the task's node.
type llResult struct {
	fromNodeIndex int
	successors    []astarNode
}

func expandOne(grid *mapfcore.Grid, constraints []mapfcore.Constraint, agentID int, task llTask) llResult {
	res := llResult{fromNodeIndex: task.nodeIndex}
	for _, m := range moves {
		next := mapfcore.Coord{X: task.pos.X + m.dx, Y: task.pos.Y + m.dy}
		nextTime := task.time + 1
		if !grid.InBounds(next.X, next.Y) {
			continue
		}
		if (m.dx != 0 || m.dy != 0) && grid.IsObstacle(next.X, next.Y) {
			continue
		}
		if violatesConstraint(constraints, agentID, task.time, nextTime, task.pos, next) {
			continue
		}
		res.successors = append(res.successors, astarNode{
			pos:  next,
			g:    task.g + 1,
			time: nextTime,
		})
	}
	return res
}

// ParallelAStar runs the same search as SpaceTimeAStar, but splits the
// per-iteration neighbour generation across a pool of expander goroutines
// (the Go analogue of the original's expander ranks: one coordinator
// goroutine owns the open set and best-g table, `workers` expander
// goroutines are stateless). Children are applied to the coordinator's
// state in reception order; this can reorder discovery relative to the
// sequential planner but never affects optimality, because A* with a
// consistent heuristic is optimal regardless of relaxation order.
//
// workers <= 1 falls back to SpaceTimeAStar directly.
func ParallelAStar(ctx context.Context, grid *mapfcore.Grid, constraints []mapfcore.Constraint, agentID int, start, goal mapfcore.Coord, horizon, workers int) (mapfcore.Path, bool) {
	if workers <= 1 {
		return SpaceTimeAStar(grid, constraints, agentID, start, goal, horizon)
	}

	taskCh := make(chan llTask, workers)
	resultCh := make(chan llResult, workers)

	group, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		group.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return nil
				case task, more := <-taskCh:
					if !more {
						return nil
					}
					resultCh <- expandOne(grid, constraints, agentID, task)
				}
			}
		})
	}
	defer func() {
		close(taskCh)
		_ = group.Wait()
	}()

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
	for open.Len() > 0 && goalIndex < 0 {
		if open.Len() > horizon*plane {
			break
		}

		batch := make([]int, 0, workers)
		for len(batch) < workers && open.Len() > 0 {
			v, _, _ := open.Pop()
			nodeIndex := v.(int)
			if buffer[nodeIndex].pos == goal {
				goalIndex = nodeIndex
				break
			}
			batch = append(batch, nodeIndex)
		}
		if goalIndex >= 0 || len(batch) == 0 {
			break
		}

		for _, nodeIndex := range batch {
			n := buffer[nodeIndex]
			taskCh <- llTask{nodeIndex: nodeIndex, pos: n.pos, g: n.g, time: n.time}
		}

		for range batch {
			res := <-resultCh
			for _, succ := range res.successors {
				if succ.time >= horizon {
					continue
				}
				idx := stateIndex(grid, succ.time, succ.pos.X, succ.pos.Y)
				if bestG[idx] >= 0 && bestG[idx] <= succ.g {
					continue
				}
				bestG[idx] = succ.g
				child := astarNode{
					pos:    succ.pos,
					g:      succ.g,
					f:      succ.g + manhattan(succ.pos, goal),
					parent: res.fromNodeIndex,
					time:   succ.time,
				}
				buffer = append(buffer, child)
				childIndex := len(buffer) - 1
				open.Push(float64(child.f), childIndex)
				if child.pos == goal {
					goalIndex = childIndex
				}
			}
		}
	}

	if goalIndex < 0 {
		return nil, false
	}
	return reconstruct(buffer, goalIndex), true
}
