package mapfcore

import "fmt"

// Instance bundles a Grid with N agents' starts and goals. Constructed
// once and treated as read-only during search.
type Instance struct {
	Grid   *Grid
	Starts []Coord
	Goals  []Coord
}

// NumAgents returns the number of agents in the instance.
func (inst *Instance) NumAgents() int {
	return len(inst.Starts)
}

// Validate checks the starts/goals arrays are well formed and lie on
// traversable cells.
func (inst *Instance) Validate() error {
	if len(inst.Starts) != len(inst.Goals) {
		return fmt.Errorf("mapfcore: %d starts but %d goals", len(inst.Starts), len(inst.Goals))
	}
	for i, s := range inst.Starts {
		if inst.Grid.IsObstacle(s.X, s.Y) {
			return fmt.Errorf("mapfcore: agent %d start (%d,%d) is an obstacle", i, s.X, s.Y)
		}
	}
	for i, g := range inst.Goals {
		if inst.Grid.IsObstacle(g.X, g.Y) {
			return fmt.Errorf("mapfcore: agent %d goal (%d,%d) is an obstacle", i, g.X, g.Y)
		}
	}
	return nil
}
