package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/orange-dot/mapf-cbs/internal/cbs"
	"github.com/orange-dot/mapf-cbs/internal/distributed/centralized"
	"github.com/orange-dot/mapf-cbs/internal/distributed/decentralized"
	"github.com/orange-dot/mapf-cbs/internal/instanceio"
	"github.com/orange-dot/mapf-cbs/internal/lowlevel"
	"github.com/orange-dot/mapf-cbs/internal/mapfcore"
)

func newSolveCmd() *cobra.Command {
	var mapPath, agentsPath, driver, csvPath string
	var timeoutSec float64
	var workers int
	var suboptimality float64
	var llPool int

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve one MAPF instance with the chosen driver",
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := instanceio.LoadInstance(mapPath, agentsPath)
			if err != nil {
				return err
			}

			timeout := time.Duration(timeoutSec * float64(time.Second))
			ctx := context.Background()

			plan := func(agentID int, constraints []mapfcore.Constraint, start, goal mapfcore.Coord) (mapfcore.Path, bool) {
				horizon := mapfcore.DefaultHorizon(inst.Grid.W, inst.Grid.H)
				if driver == "serial" && workers > 1 {
					return lowlevel.ParallelAStar(ctx, inst.Grid, constraints, agentID, start, goal, horizon, workers)
				}
				return lowlevel.SpaceTimeAStar(inst.Grid, constraints, agentID, start, goal, horizon)
			}

			var node *cbs.Node
			var stats mapfcore.Stats
			switch driver {
			case "centralized":
				cfg := centralized.DefaultConfig()
				cfg.Timeout = timeout
				cfg.Expanders = workers
				cfg.LLPoolWorkers = llPool
				node, stats = centralized.NewSolver(cfg, plan).Solve(ctx, inst)
			case "decentralized":
				cfg := decentralized.DefaultConfig()
				cfg.Timeout = timeout
				cfg.Peers = workers
				cfg.Suboptimality = suboptimality
				node, stats = decentralized.NewSolver(cfg, plan).Solve(ctx, inst)
			default:
				cfg := cbs.DefaultSerialConfig()
				cfg.Timeout = timeout
				node, stats = cbs.NewSerialSolver(cfg, plan).Solve(ctx, inst)
			}

			if stats.SolutionFound {
				log.Printf("[INFO] solve: solution cost=%.0f expanded=%d generated=%d runtime=%.3fs",
					stats.BestCost, stats.NodesExpanded, stats.NodesGenerated, stats.RuntimeSec)
			} else {
				status := "failure"
				if stats.TimedOut {
					status = "timeout"
				}
				log.Printf("[WARN] solve: no solution (%s), expanded=%d runtime=%.3fs", status, stats.NodesExpanded, stats.RuntimeSec)
			}

			if csvPath != "" {
				if err := writeCSVRow(csvPath, mapPath, inst, stats, timeoutSec); err != nil {
					return fmt.Errorf("solve: %w", err)
				}
			}
			_ = node
			return nil
		},
	}

	cmd.Flags().StringVar(&mapPath, "map", "", "path to the map file")
	cmd.Flags().StringVar(&agentsPath, "agents", "", "path to the agents file")
	cmd.Flags().StringVar(&driver, "driver", "serial", "serial|centralized|decentralized")
	cmd.Flags().Float64Var(&timeoutSec, "timeout", 30, "solve timeout in seconds")
	cmd.Flags().IntVar(&workers, "workers", 4, "low-level expander goroutines (serial), worker goroutines (centralized), or peers (decentralized)")
	cmd.Flags().Float64Var(&suboptimality, "w", 1.0, "suboptimality bound for the decentralized driver")
	cmd.Flags().IntVar(&llPool, "ll-pool", 0, "centralized driver only: expander goroutines in a shared low-level manager pool rank (0 plans in-process)")
	cmd.Flags().StringVar(&csvPath, "csv", "", "append a result row to this CSV file")
	cmd.MarkFlagRequired("map")
	cmd.MarkFlagRequired("agents")

	return cmd
}
