package decentralized

import (
	"context"
	"time"

	"github.com/orange-dot/mapf-cbs/internal/cbs"
	"github.com/orange-dot/mapf-cbs/internal/mapfcore"
	"github.com/orange-dot/mapf-cbs/internal/msgnet"
)

// Solver runs CBS across Config.Peers symmetric goroutines with no
// coordinator, exchanging children round-robin and synchronizing progress
// through Allreduce-style barriers.
type Solver struct {
	Config Config
	Plan   cbs.Planner
}

// NewSolver builds a decentralized Solver whose peers replan agents with plan.
func NewSolver(cfg Config, plan cbs.Planner) *Solver {
	return &Solver{Config: cfg, Plan: plan}
}

// Solve runs every peer to completion, to Config.Timeout, or to ctx
// cancellation. The returned node is the cheapest solution any peer
// reported; Stats aggregates each peer's local counters, mirroring the
// original's MPI_Reduce of nodes_expanded/nodes_generated/conflicts onto
// rank 0.
func (s *Solver) Solve(ctx context.Context, inst *mapfcore.Instance) (*cbs.Node, mapfcore.Stats) {
	start := time.Now()

	if s.Config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Config.Timeout)
		defer cancel()
	}

	sub := s.Config.Suboptimality
	if sub < 1.0 {
		sub = 1.0
	}

	inboxSize := s.Config.InboxSize
	if inboxSize <= 0 {
		inboxSize = 64
	}
	size := s.Config.Peers
	comms := msgnet.NewLocalCommGroup(size, inboxSize)
	timed := make([]*msgnet.TimedComm, size)
	for i, c := range comms {
		timed[i] = msgnet.NewTimedComm(c)
	}

	rootOkAR := NewAllReduce(size, minCombine)
	timeoutAR := NewAllReduce(size, maxCombine)
	lbAR := NewAllReduce(size, minCombine)
	solAR := NewAllReduce(size, minCombine)

	results := make([]peerResult, size)
	done := make(chan int, size)
	for rank := 0; rank < size; rank++ {
		rank := rank
		go func() {
			results[rank] = runPeer(ctx, inst, s.Plan, timed[rank], sub, rootOkAR, timeoutAR, lbAR, solAR)
			done <- rank
		}()
	}
	for i := 0; i < size; i++ {
		<-done
	}
	for _, c := range comms {
		_ = c.Close()
	}

	var best *cbs.Node
	agg := mapfcore.Stats{}
	for _, r := range results {
		agg.NodesExpanded += r.stats.NodesExpanded
		agg.NodesGenerated += r.stats.NodesGenerated
		agg.ConflictsDetected += r.stats.ConflictsDetected
		if r.stats.TimedOut {
			agg.TimedOut = true
		}
		if r.solution != nil && (best == nil || r.solution.Cost < best.Cost) {
			best = r.solution
		}
	}
	if best != nil {
		agg.SolutionFound = true
		agg.BestCost = best.Cost
	}

	var totalComm time.Duration
	for _, tc := range timed {
		totalComm += tc.Elapsed()
	}
	agg.CommTimeSec = totalComm.Seconds() / float64(len(timed))
	agg.RuntimeSec = time.Since(start).Seconds()
	agg.ComputeTimeSec = agg.RuntimeSec - agg.CommTimeSec
	return best, agg
}
