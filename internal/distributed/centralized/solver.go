package centralized

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/orange-dot/mapf-cbs/internal/cbs"
	"github.com/orange-dot/mapf-cbs/internal/llmanager"
	"github.com/orange-dot/mapf-cbs/internal/mapfcore"
	"github.com/orange-dot/mapf-cbs/internal/msgnet"
)

// Config controls the coordinator/worker driver.
type Config struct {
	Expanders int           // number of worker goroutines, rank 0 is always the coordinator
	Timeout   time.Duration // 0 disables the timeout
	InboxSize int           // per-rank LocalComm buffer; 0 uses a sane default

	// LLPoolWorkers, when > 0, spins up a dedicated llmanager.Pool rank
	// with that many expander goroutines and routes every low-level
	// replan (coordinator's root build and every worker's BuildChildren
	// call) through it via llmanager.RequestPath, instead of calling
	// Plan in-process. 0 keeps the original in-process behaviour.
	LLPoolWorkers int
}

// DefaultConfig mirrors the original's default of one worker per available
// core, approximated here as 4 since Go has no direct MPI world-size
// equivalent to size the pool from.
func DefaultConfig() Config {
	return Config{Expanders: 4, Timeout: 60 * time.Second, InboxSize: 64}
}

// Solver runs CBS across rank 0 (coordinator) and Config.Expanders worker
// goroutines connected by an in-process msgnet.Comm group.
type Solver struct {
	Config Config
	Plan   cbs.Planner
}

// NewSolver builds a Solver whose workers replan agents with plan.
func NewSolver(cfg Config, plan cbs.Planner) *Solver {
	return &Solver{Config: cfg, Plan: plan}
}

// Solve runs the coordinator/worker search to completion, to Config.Timeout,
// or to ctx cancellation, whichever comes first.
func (s *Solver) Solve(ctx context.Context, inst *mapfcore.Instance) (*cbs.Node, mapfcore.Stats) {
	start := time.Now()

	if s.Config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Config.Timeout)
		defer cancel()
	}

	inboxSize := s.Config.InboxSize
	if inboxSize <= 0 {
		inboxSize = 64
	}
	size := s.Config.Expanders + 1
	llPoolRank := -1
	if s.Config.LLPoolWorkers > 0 {
		llPoolRank = size
		size++
	}
	comms := msgnet.NewLocalCommGroup(size, inboxSize)
	timed := make([]*msgnet.TimedComm, size)
	for i, c := range comms {
		timed[i] = msgnet.NewTimedComm(c)
	}

	workerRanks := make([]int, s.Config.Expanders)
	for i := range workerRanks {
		workerRanks[i] = i + 1
	}

	group, gctx := errgroup.WithContext(ctx)

	coordinatorPlan := s.Plan
	if llPoolRank >= 0 {
		pool := llmanager.NewPool(llmanager.Config{Workers: s.Config.LLPoolWorkers}, inst.Grid)
		group.Go(func() error {
			return pool.Serve(gctx, timed[llPoolRank])
		})
		coordinatorPlan = newPoolPlanner(ctx, timed[0], llPoolRank)
	}

	for _, rank := range workerRanks {
		rank := rank
		plan := s.Plan
		if llPoolRank >= 0 {
			plan = newPoolPlanner(gctx, timed[rank], llPoolRank)
		}
		group.Go(func() error {
			runWorker(gctx, inst, plan, timed[rank], 0)
			return nil
		})
	}

	solution, stats := runCoordinator(ctx, inst, coordinatorPlan, timed[0], workerRanks)
	if llPoolRank >= 0 {
		_ = timed[0].Send(ctx, llPoolRank, msgnet.TagLLTerminate, msgnet.Frame{})
	}
	_ = group.Wait()
	for _, c := range comms {
		_ = c.Close()
	}

	var totalComm time.Duration
	for _, tc := range timed {
		totalComm += tc.Elapsed()
	}
	stats.CommTimeSec = totalComm.Seconds() / float64(len(timed))
	stats.RuntimeSec = time.Since(start).Seconds()
	stats.ComputeTimeSec = stats.RuntimeSec - stats.CommTimeSec
	return solution, stats
}

// newPoolPlanner builds a cbs.Planner that routes every replan through the
// shared low-level manager at llPoolRank over comm, rather than calling a
// planner function in-process. comm belongs to exactly one rank, so the
// per-call requestID counter needs no synchronization.
func newPoolPlanner(ctx context.Context, comm msgnet.Comm, llPoolRank int) cbs.Planner {
	requestID := 0
	return func(agentID int, constraints []mapfcore.Constraint, start, goal mapfcore.Coord) (mapfcore.Path, bool) {
		requestID++
		path, ok, err := llmanager.RequestPath(ctx, comm, llPoolRank, requestID, agentID, constraints, start, goal)
		if err != nil {
			return nil, false
		}
		return path, ok
	}
}
