// Package statsio appends solver run statistics to a CSV file using the
// exact column schema the original benchmark tooling wrote, so existing
// analysis scripts built against that schema keep working.
package statsio

import (
	"fmt"
	"os"

	"github.com/orange-dot/mapf-cbs/internal/mapfcore"
)

const header = "map,agents,width,height,nodes_expanded,nodes_generated,conflicts,cost,runtime_sec,comm_time_sec,compute_time_sec,timeout_sec,status\n"

// Row is one benchmark result line.
type Row struct {
	MapName       string
	NumAgents     int
	Width, Height int
	Stats         mapfcore.Stats
	TimeoutSec    float64
}

func (r Row) status() string {
	switch {
	case r.Stats.SolutionFound:
		return "success"
	case r.Stats.TimedOut:
		return "timeout"
	default:
		return "failure"
	}
}

func (r Row) cost() float64 {
	if r.Stats.SolutionFound {
		return r.Stats.BestCost
	}
	return -1.0
}

// AppendCSV appends row to the CSV at path, writing the header first if
// the file doesn't already exist.
func AppendCSV(path string, row Row) error {
	needHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("statsio: open %s: %w", path, err)
	}
	defer f.Close()

	if needHeader {
		if _, err := f.WriteString(header); err != nil {
			return fmt.Errorf("statsio: write header: %w", err)
		}
	}

	computeTime := row.Stats.RuntimeSec - row.Stats.CommTimeSec
	_, err = fmt.Fprintf(f, "%s,%d,%d,%d,%d,%d,%d,%.0f,%.6f,%.6f,%.6f,%.2f,%s\n",
		row.MapName,
		row.NumAgents,
		row.Width,
		row.Height,
		row.Stats.NodesExpanded,
		row.Stats.NodesGenerated,
		row.Stats.ConflictsDetected,
		row.cost(),
		row.Stats.RuntimeSec,
		row.Stats.CommTimeSec,
		computeTime,
		row.TimeoutSec,
		row.status(),
	)
	if err != nil {
		return fmt.Errorf("statsio: write row: %w", err)
	}
	return nil
}
