package statsio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/orange-dot/mapf-cbs/internal/mapfcore"
)

func TestAppendCSVWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	row := Row{
		MapName:   "empty-8-8",
		NumAgents: 2,
		Width:     8,
		Height:    8,
		Stats:     mapfcore.Stats{SolutionFound: true, BestCost: 12, NodesExpanded: 3, NodesGenerated: 5, RuntimeSec: 0.01},
	}

	if err := AppendCSV(path, row); err != nil {
		t.Fatalf("first AppendCSV: %v", err)
	}
	if err := AppendCSV(path, row); err != nil {
		t.Fatalf("second AppendCSV: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 1 header + 2 rows, got %d lines: %q", len(lines), lines)
	}
	if lines[0] != strings.TrimSuffix(header, "\n") {
		t.Errorf("header mismatch: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "empty-8-8,2,8,8,3,5,0,12,") {
		t.Errorf("row mismatch: %q", lines[1])
	}
}

func TestAppendCSVFailureStatus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	row := Row{MapName: "walled", NumAgents: 1, Width: 3, Height: 1, Stats: mapfcore.Stats{}}
	if err := AppendCSV(path, row); err != nil {
		t.Fatalf("AppendCSV: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), ",-1,") || !strings.Contains(string(data), "failure") {
		t.Errorf("expected cost=-1 and status=failure, got %q", data)
	}
}
