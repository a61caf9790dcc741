package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/orange-dot/mapf-cbs/internal/cbs"
	"github.com/orange-dot/mapf-cbs/internal/instanceio"
	"github.com/orange-dot/mapf-cbs/internal/lowlevel"
	"github.com/orange-dot/mapf-cbs/internal/mapfcore"
)

// newBenchCmd batch-solves every "<name>.map" file in a directory against
// its matching "<name>.agents" file, appending one CSV row per instance.
func newBenchCmd() *cobra.Command {
	var dir, csvPath string
	var timeoutSec float64

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Solve every instance in a directory with the serial driver",
		RunE: func(cmd *cobra.Command, args []string) error {
			maps, err := filepath.Glob(filepath.Join(dir, "*.map"))
			if err != nil {
				return fmt.Errorf("bench: %w", err)
			}
			sort.Strings(maps)

			for _, mapPath := range maps {
				name := strings.TrimSuffix(filepath.Base(mapPath), ".map")
				agentsPath := filepath.Join(dir, name+".agents")

				inst, err := instanceio.LoadInstance(mapPath, agentsPath)
				if err != nil {
					log.Printf("[WARN] bench: skipping %s: %v", name, err)
					continue
				}

				plan := func(agentID int, constraints []mapfcore.Constraint, start, goal mapfcore.Coord) (mapfcore.Path, bool) {
					return lowlevel.SpaceTimeAStar(inst.Grid, constraints, agentID, start, goal, mapfcore.DefaultHorizon(inst.Grid.W, inst.Grid.H))
				}

				cfg := cbs.DefaultSerialConfig()
				cfg.Timeout = time.Duration(timeoutSec * float64(time.Second))
				_, stats := cbs.NewSerialSolver(cfg, plan).Solve(context.Background(), inst)

				log.Printf("[INFO] bench: %s agents=%d cost=%.0f expanded=%d runtime=%.3fs",
					name, inst.NumAgents(), stats.BestCost, stats.NodesExpanded, stats.RuntimeSec)

				if err := writeCSVRow(csvPath, mapPath, inst, stats, timeoutSec); err != nil {
					return fmt.Errorf("bench: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "directory of .map/.agents instance pairs")
	cmd.Flags().StringVar(&csvPath, "csv", "results.csv", "output CSV path")
	cmd.Flags().Float64Var(&timeoutSec, "timeout", 30, "per-instance timeout in seconds")
	cmd.MarkFlagRequired("dir")

	return cmd
}
