package centralized

import (
	"context"
	"log"

	"github.com/orange-dot/mapf-cbs/internal/cbs"
	"github.com/orange-dot/mapf-cbs/internal/mapfcore"
	"github.com/orange-dot/mapf-cbs/internal/msgnet"
)

// runWorker expands nodes for the coordinator until it receives
// TagTerminate. Grounded on the original's run_worker/process_node pair:
// detect the node's conflict, and either report a solution or produce up
// to two pruned, replanned children.
func runWorker(ctx context.Context, inst *mapfcore.Instance, plan cbs.Planner, comm msgnet.Comm, coordinator int) {
	pool := msgnet.NewSendPool(comm)
	defer pool.WaitAll()

	for {
		env, err := comm.Recv(ctx, -1)
		if err != nil {
			return
		}
		switch env.Tag {
		case msgnet.TagTerminate:
			return
		case msgnet.TagTask:
			processNode(ctx, inst, plan, comm, pool, coordinator, cbs.DecodeFrame(env.Data), env.Data.AuxValue)
		}
	}
}

func processNode(ctx context.Context, inst *mapfcore.Instance, plan cbs.Planner, comm msgnet.Comm, pool *msgnet.SendPool, coordinator int, node *cbs.Node, incumbentCost int) {
	node.ComputeSoC()

	conflict := cbs.FindFirstConflict(node.Paths)
	if conflict == nil {
		_ = comm.Send(ctx, coordinator, msgnet.TagSolution, cbs.EncodeFrame(node, 0))
		return
	}

	var produced []*cbs.Node
	for _, child := range cbs.BuildChildren(inst, node, conflict, plan) {
		if incumbentCost > 0 && child.Cost >= float64(incumbentCost) {
			continue
		}
		produced = append(produced, child)
	}

	// The children count travels as the frame's ConstraintCount-adjacent
	// AuxValue so the coordinator knows how many TagChildren frames to
	// expect next, mirroring the original's separate child-count message.
	header := msgnet.Frame{AuxValue: len(produced)}
	_ = comm.Send(ctx, coordinator, msgnet.TagChildren, header)

	for _, child := range produced {
		child.ID = -1
		if err := pool.Send(ctx, coordinator, msgnet.TagChildren, cbs.EncodeFrame(child, node.ID)); err != nil {
			log.Printf("[WARN] worker: send child to coordinator: %v", err)
		}
	}
	pool.Progress()
}
