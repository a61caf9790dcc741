package instanceio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/orange-dot/mapf-cbs/internal/mapfcore"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoadInstance(t *testing.T) {
	dir := t.TempDir()
	mapPath := writeFile(t, dir, "map.txt", "3 2\n000\n010\n")
	agentsPath := writeFile(t, dir, "agents.txt", "2\n0 0 2 0\n0 1 2 1\n")

	inst, err := LoadInstance(mapPath, agentsPath)
	if err != nil {
		t.Fatalf("LoadInstance: %v", err)
	}
	if inst.Grid.W != 3 || inst.Grid.H != 2 {
		t.Fatalf("grid dims = %dx%d, want 3x2", inst.Grid.W, inst.Grid.H)
	}
	if !inst.Grid.IsObstacle(1, 1) {
		t.Errorf("expected (1,1) to be an obstacle")
	}
	if inst.NumAgents() != 2 {
		t.Fatalf("NumAgents() = %d, want 2", inst.NumAgents())
	}
	if inst.Starts[0] != (mapfcore.Coord{X: 0, Y: 0}) || inst.Goals[1] != (mapfcore.Coord{X: 2, Y: 1}) {
		t.Errorf("unexpected starts/goals: %+v %+v", inst.Starts, inst.Goals)
	}
}

func TestLoadInstanceRejectsAgentOnObstacle(t *testing.T) {
	dir := t.TempDir()
	mapPath := writeFile(t, dir, "map.txt", "2 1\n10\n")
	agentsPath := writeFile(t, dir, "agents.txt", "1\n0 0 1 0\n")

	if _, err := LoadInstance(mapPath, agentsPath); err == nil {
		t.Errorf("expected an error for a start on an obstacle")
	}
}
