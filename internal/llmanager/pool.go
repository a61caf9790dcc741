// Package llmanager implements the shared low-level planning service: a
// pool of goroutines that together expand a single space-time A* search at
// a time on behalf of any number of high-level drivers, addressed over the
// same msgnet.Comm abstraction used by the CBS drivers. This is the Go
// analogue of the original's optional low-level manager rank group
// (LowLevelContext's manager_world_rank/pool_comm), where every rank in the
// pool's sub-communicator collaborates on one parallel_a_star call per
// request rather than each rank answering a different request — when no
// manager is configured, drivers call the planner in-process instead,
// matching manager_world_rank == -1.
package llmanager

import (
	"context"

	"github.com/orange-dot/mapf-cbs/internal/lowlevel"
	"github.com/orange-dot/mapf-cbs/internal/mapfcore"
	"github.com/orange-dot/mapf-cbs/internal/msgnet"
)

// Config controls the manager's internal worker pool.
type Config struct {
	Workers int // expander goroutines ParallelAStar splits each request across
	Horizon int // 0 uses mapfcore.DefaultHorizon(grid)
}

// Pool answers path requests against a fixed grid.
type Pool struct {
	Config Config
	Grid   *mapfcore.Grid
}

// NewPool returns a manager serving grid with cfg.
func NewPool(cfg Config, grid *mapfcore.Grid) *Pool {
	return &Pool{Config: cfg, Grid: grid}
}

// Serve answers LL_REQUEST frames on comm one at a time until ctx is
// cancelled or a TagLLTerminate frame arrives. Every request is itself run
// across Config.Workers expander goroutines via ParallelAStar, so the whole
// pool cooperates on each request rather than fanning independent requests
// out to independent workers.
func (p *Pool) Serve(ctx context.Context, comm msgnet.Comm) error {
	for {
		env, err := comm.Recv(ctx, -1)
		if err != nil {
			return err
		}
		switch env.Tag {
		case msgnet.TagLLTerminate:
			return nil
		case msgnet.TagLLRequest:
			p.answer(ctx, comm, env)
		}
	}
}

func (p *Pool) answer(ctx context.Context, comm msgnet.Comm, env msgnet.Envelope) {
	workers := p.Config.Workers
	if workers < 1 {
		workers = 1
	}
	req := decodeRequest(env.Data)
	path, ok := lowlevel.ParallelAStar(ctx, p.Grid, req.Constraints, req.AgentID, req.Start, req.Goal, p.horizonOrDefault(), workers)
	resp := encodeResponse(req.RequestID, path, ok)
	_ = comm.Send(ctx, env.From, msgnet.TagLLResponse, resp)
}

func (p *Pool) horizonOrDefault() int {
	if p.Config.Horizon > 0 {
		return p.Config.Horizon
	}
	return mapfcore.DefaultHorizon(p.Grid.W, p.Grid.H)
}
