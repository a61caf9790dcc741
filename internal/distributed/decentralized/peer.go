package decentralized

import (
	"context"
	"log"
	"math"

	"github.com/orange-dot/mapf-cbs/internal/cbs"
	"github.com/orange-dot/mapf-cbs/internal/mapfcore"
	"github.com/orange-dot/mapf-cbs/internal/msgnet"
	"github.com/orange-dot/mapf-cbs/internal/pq"
)

const boundTolerance = 1e-6

// peerResult is what one peer contributes to the driver's final answer:
// its own best local solution, if any, plus the local share of the
// aggregate counters the caller sums across peers.
type peerResult struct {
	solution *cbs.Node
	stats    mapfcore.Stats
}

// runPeer executes one rank of the decentralized driver: expand the
// cheapest locally eligible node, hand children off round-robin, and
// synchronize a timeout flag, a global lower bound, and a global
// incumbent every round via the shared AllReduce barriers. Grounded on
// main_decentralized.c's per-rank loop, with MPI_Allreduce calls replaced
// by the in-process AllReduce barrier.
func runPeer(ctx context.Context, inst *mapfcore.Instance, plan cbs.Planner, comm msgnet.Comm, sub float64, rootOkAR, timeoutAR, lbAR, solAR *AllReduce) peerResult {
	rank := comm.Rank()
	size := comm.Size()
	pool := msgnet.NewSendPool(comm)
	defer pool.WaitAll()

	open := pq.New()
	nodes := make(map[int]*cbs.Node)
	localID := 0
	newID := func() int {
		id := rank*1_000_000 + localID
		localID++
		return id
	}

	root := cbs.BuildRoot(inst, plan)
	rootOK := root != nil
	globalRootOK := rootOkAR.Reduce(boolToFloat(rootOK)) > 0
	if !globalRootOK {
		return peerResult{}
	}
	root.ID = newID()
	nodes[root.ID] = root
	open.Push(root.Cost, root.ID)

	var result peerResult
	localSolutionCost := math.Inf(1)
	rrDest := (rank + 1) % size

	for {
		localTimeout := 0.0
		if ctx.Err() != nil {
			localTimeout = 1
		}
		timedOut := timeoutAR.Reduce(localTimeout) > 0
		if timedOut {
			result.stats.TimedOut = true
			break
		}

		drainIncoming(comm, nodes, open)

		localLB := math.Inf(1)
		if _, key, ok := open.Peek(); ok {
			localLB = key
		}
		globalLB := lbAR.Reduce(localLB)

		globalSolution := solAR.Reduce(localSolutionCost)
		if globalSolution < math.Inf(1) {
			result.stats.SolutionFound = true
			result.stats.BestCost = globalSolution
			break
		}
		if math.IsInf(globalLB, 1) {
			break
		}

		bound := sub * globalLB
		if open.Len() == 0 {
			continue
		}

		v, key, _ := open.Pop()
		id := v.(int)
		node := nodes[id]
		delete(nodes, id)
		if key > bound+boundTolerance {
			nodes[id] = node
			open.Push(key, id)
			continue
		}

		result.stats.NodesExpanded++

		conflict := cbs.FindFirstConflict(node.Paths)
		if conflict == nil {
			localSolutionCost = node.Cost
			result.solution = node
			continue
		}
		result.stats.ConflictsDetected++

		for _, child := range cbs.BuildChildren(inst, node, conflict, plan) {
			drainIncoming(comm, nodes, open)

			child.ID = newID()
			result.stats.NodesGenerated++
			dest := rrDest
			rrDest = (rrDest + 1) % size
			if dest == rank {
				nodes[child.ID] = child
				open.Push(child.Cost, child.ID)
			} else if err := pool.Send(ctx, dest, msgnet.TagDPNode, cbs.EncodeFrame(child, 0)); err != nil {
				log.Printf("[WARN] decentralized: rank %d send child to %d: %v", rank, dest, err)
			}
			pool.Progress()
			drainIncoming(comm, nodes, open)
		}
	}

	for open.Len() > 0 {
		open.Pop()
	}
	return result
}

func drainIncoming(comm msgnet.Comm, nodes map[int]*cbs.Node, open *pq.Heap) {
	for {
		env, ok := comm.TryRecv(msgnet.TagDPNode)
		if !ok {
			return
		}
		node := cbs.DecodeFrame(env.Data)
		node.ComputeSoC()
		nodes[node.ID] = node
		open.Push(node.Cost, node.ID)
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
