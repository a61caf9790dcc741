package main

import (
	"path/filepath"

	"github.com/orange-dot/mapf-cbs/internal/mapfcore"
	"github.com/orange-dot/mapf-cbs/internal/statsio"
)

func writeCSVRow(csvPath, mapPath string, inst *mapfcore.Instance, stats mapfcore.Stats, timeoutSec float64) error {
	return statsio.AppendCSV(csvPath, statsio.Row{
		MapName:    filepath.Base(mapPath),
		NumAgents:  inst.NumAgents(),
		Width:      inst.Grid.W,
		Height:     inst.Grid.H,
		Stats:      stats,
		TimeoutSec: timeoutSec,
	})
}
