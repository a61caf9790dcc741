// Package instanceio reads map and agent files in the plain text formats
// used throughout the original CBS tooling: a map file starting with
// "width height" followed by width*height '0'/'1' cells (row-major, 1 is
// an obstacle), and an agents file starting with the agent count
// followed by one "sx sy gx gy" line per agent.
package instanceio

import (
	"bufio"
	"fmt"
	"os"

	"github.com/orange-dot/mapf-cbs/internal/mapfcore"
)

// LoadGrid reads a map file into a Grid.
func LoadGrid(path string) (*mapfcore.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("instanceio: open map %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var width, height int
	if _, err := fmt.Fscan(r, &width, &height); err != nil {
		return nil, fmt.Errorf("instanceio: read map header: %w", err)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("instanceio: invalid map dimensions %dx%d", width, height)
	}

	cells := make([]byte, width*height)
	for i := 0; i < len(cells); i++ {
		var ch byte
		for {
			b, err := r.ReadByte()
			if err != nil {
				return nil, fmt.Errorf("instanceio: reading cell %d: %w", i, err)
			}
			if b == ' ' || b == '\n' || b == '\r' || b == '\t' {
				continue
			}
			ch = b
			break
		}
		if ch != '0' && ch != '1' {
			return nil, fmt.Errorf("instanceio: invalid cell character %q at index %d", ch, i)
		}
		cells[i] = ch - '0'
	}

	return mapfcore.NewGrid(width, height, cells), nil
}

// LoadAgents reads an agents file into parallel start/goal slices.
func LoadAgents(path string) (starts, goals []mapfcore.Coord, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("instanceio: open agents %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var numAgents int
	if _, err := fmt.Fscan(r, &numAgents); err != nil {
		return nil, nil, fmt.Errorf("instanceio: read agent count: %w", err)
	}
	if numAgents <= 0 || numAgents > mapfcore.MaxAgents {
		return nil, nil, fmt.Errorf("instanceio: agent count %d out of range (max %d)", numAgents, mapfcore.MaxAgents)
	}

	starts = make([]mapfcore.Coord, numAgents)
	goals = make([]mapfcore.Coord, numAgents)
	for i := 0; i < numAgents; i++ {
		var sx, sy, gx, gy int
		if _, err := fmt.Fscan(r, &sx, &sy, &gx, &gy); err != nil {
			return nil, nil, fmt.Errorf("instanceio: reading agent %d: %w", i, err)
		}
		starts[i] = mapfcore.Coord{X: sx, Y: sy}
		goals[i] = mapfcore.Coord{X: gx, Y: gy}
	}
	return starts, goals, nil
}

// LoadInstance combines LoadGrid and LoadAgents into a single validated
// Instance.
func LoadInstance(mapPath, agentsPath string) (*mapfcore.Instance, error) {
	grid, err := LoadGrid(mapPath)
	if err != nil {
		return nil, err
	}
	starts, goals, err := LoadAgents(agentsPath)
	if err != nil {
		return nil, err
	}
	inst := &mapfcore.Instance{Grid: grid, Starts: starts, Goals: goals}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}
