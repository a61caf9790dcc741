package centralized

import (
	"context"
	"math"
	"time"

	"github.com/orange-dot/mapf-cbs/internal/cbs"
	"github.com/orange-dot/mapf-cbs/internal/mapfcore"
	"github.com/orange-dot/mapf-cbs/internal/msgnet"
	"github.com/orange-dot/mapf-cbs/internal/pq"
)

// plateauTolerance is the equal-cost banding width used to batch nodes for
// dispatch, taken from the original coordinator's fabs(peek->cost -
// plateau_cost) > 1e-6 check.
const plateauTolerance = 1e-6

// drainTimeout bounds how long the coordinator keeps absorbing outstanding
// worker replies after its own timeout fires, per spec.md's "drain phase
// (bounded at 5s)" before terminating workers.
const drainTimeout = 5 * time.Second

type coordinatorState struct {
	inst        *mapfcore.Instance
	comm        msgnet.Comm
	workers     []int
	rrIndex     int
	open        *pq.Heap
	nodes       map[int]*cbs.Node
	nextID      int
	incumbent   *cbs.Node
	stats       mapfcore.Stats
	outstanding int // plateau replies dispatched but not yet received
}

func (s *coordinatorState) selectWorker() int {
	w := s.workers[s.rrIndex%len(s.workers)]
	s.rrIndex++
	return w
}

// runCoordinator drives the open list to completion or ctx cancellation,
// following the original coordinator's plateau-batch dispatch loop.
func runCoordinator(ctx context.Context, inst *mapfcore.Instance, plan cbs.Planner, comm msgnet.Comm, workers []int) (*cbs.Node, mapfcore.Stats) {
	s := &coordinatorState{
		inst:    inst,
		comm:    comm,
		workers: workers,
		open:    pq.New(),
		nodes:   make(map[int]*cbs.Node),
		nextID:  1,
	}

	root := cbs.BuildRoot(inst, plan)
	if root == nil {
		return nil, s.stats
	}
	root.ID = 0
	s.stats.NodesGenerated++
	s.nodes[0] = root
	s.open.Push(root.Cost, 0)

	incumbentCost := math.MaxFloat64

	for s.open.Len() > 0 {
		select {
		case <-ctx.Done():
			s.stats.TimedOut = true
			s.drainOutstanding(&incumbentCost)
			s.terminateWorkers(ctx)
			return s.finish(incumbentCost)
		default:
		}

		v, plateauCost, _ := s.open.Pop()
		plateau := []int{v.(int)}
		for s.open.Len() > 0 {
			nv, key, _ := s.open.Peek()
			if math.Abs(key-plateauCost) > plateauTolerance {
				break
			}
			s.open.Pop()
			plateau = append(plateau, nv.(int))
		}

		s.outstanding = len(plateau)
		for _, id := range plateau {
			node := s.nodes[id]
			delete(s.nodes, id)
			aux := 0
			if incumbentCost < math.MaxFloat64 {
				aux = int(math.Ceil(incumbentCost))
			}
			_ = comm.Send(ctx, s.selectWorker(), msgnet.TagTask, cbs.EncodeFrame(node, aux))
		}

		for s.outstanding > 0 {
			env, err := comm.Recv(ctx, -1)
			if err != nil {
				s.stats.TimedOut = true
				s.drainOutstanding(&incumbentCost)
				s.terminateWorkers(ctx)
				return s.finish(incumbentCost)
			}
			s.handleReply(ctx, env, &incumbentCost)
		}

		if s.incumbent != nil {
			_, peekCost, ok := s.open.Peek()
			if !ok || peekCost >= incumbentCost-plateauTolerance {
				break
			}
		}
	}

	s.terminateWorkers(ctx)
	return s.finish(incumbentCost)
}

// handleReply applies one worker reply (a proven-conflict-free solution or
// a batch of replanned children) to the coordinator's state, decrementing
// outstanding by the plateau slot it satisfies. A children reply is a
// count header (a frame with no agents) followed by that many child
// frames; replies from different workers interleave on TagChildren, so a
// header met while collecting children is applied as its own worker's
// reply and its children are collected too.
func (s *coordinatorState) handleReply(ctx context.Context, env msgnet.Envelope, incumbentCost *float64) {
	switch env.Tag {
	case msgnet.TagSolution:
		s.stats.NodesExpanded++
		candidate := cbs.DecodeFrame(env.Data)
		candidate.ID = s.nextID
		s.nextID++
		candidate.ComputeSoC()
		if candidate.Cost < *incumbentCost {
			s.incumbent = candidate
			*incumbentCost = candidate.Cost
		}
		s.outstanding--
	case msgnet.TagChildren:
		s.stats.NodesExpanded++
		s.stats.ConflictsDetected++
		s.outstanding--
		need := env.Data.AuxValue
		for need > 0 {
			childEnv, err := s.comm.Recv(ctx, msgnet.TagChildren)
			if err != nil {
				break
			}
			if childEnv.Data.NumAgents == 0 {
				s.stats.NodesExpanded++
				s.stats.ConflictsDetected++
				s.outstanding--
				need += childEnv.Data.AuxValue
				continue
			}
			need--
			child := cbs.DecodeFrame(childEnv.Data)
			child.ID = s.nextID
			s.nextID++
			s.stats.NodesGenerated++
			child.ComputeSoC()
			if child.Cost < *incumbentCost {
				s.nodes[child.ID] = child
				s.open.Push(child.Cost, child.ID)
			}
		}
	}
}

// drainOutstanding absorbs replies to an already-dispatched plateau for up
// to drainTimeout, on a context independent of the (already expired)
// caller context, so a coordinator timeout doesn't discard worker effort
// that was already in flight. Grounded on spec.md's "coordinator enters a
// drain phase (bounded at 5s) that continues receiving outstanding
// replies" before it tears the worker pool down.
func (s *coordinatorState) drainOutstanding(incumbentCost *float64) {
	if s.outstanding <= 0 {
		return
	}
	drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	for s.outstanding > 0 {
		env, err := s.comm.Recv(drainCtx, -1)
		if err != nil {
			return
		}
		s.handleReply(drainCtx, env, incumbentCost)
	}
}

func (s *coordinatorState) terminateWorkers(ctx context.Context) {
	for _, w := range s.workers {
		_ = s.comm.Send(ctx, w, msgnet.TagTerminate, msgnet.Frame{})
	}
}

func (s *coordinatorState) finish(incumbentCost float64) (*cbs.Node, mapfcore.Stats) {
	if s.incumbent != nil {
		s.stats.SolutionFound = true
		s.stats.BestCost = incumbentCost
	}
	return s.incumbent, s.stats
}
