package llmanager

import (
	"context"
	"testing"
	"time"

	"github.com/orange-dot/mapf-cbs/internal/mapfcore"
	"github.com/orange-dot/mapf-cbs/internal/msgnet"
)

func TestPoolServesPathRequest(t *testing.T) {
	grid := mapfcore.NewEmptyGrid(3, 3)
	pool := NewPool(Config{Workers: 2}, grid)

	comms := msgnet.NewLocalCommGroup(2, 8)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	serveDone := make(chan error, 1)
	go func() { serveDone <- pool.Serve(ctx, comms[0]) }()

	path, found, err := RequestPath(ctx, comms[1], 0, 1, 0, nil, mapfcore.Coord{X: 0, Y: 0}, mapfcore.Coord{X: 2, Y: 2})
	if err != nil {
		t.Fatalf("RequestPath error: %v", err)
	}
	if !found {
		t.Fatalf("expected a path to be found")
	}
	if path.At(0) != (mapfcore.Coord{X: 0, Y: 0}) || path.At(path.Len()-1) != (mapfcore.Coord{X: 2, Y: 2}) {
		t.Errorf("unexpected path endpoints: %v", path)
	}

	_ = comms[1].Send(ctx, 0, msgnet.TagLLTerminate, msgnet.Frame{})
	select {
	case err := <-serveDone:
		if err != nil {
			t.Errorf("Serve returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Errorf("Serve did not shut down after TagLLTerminate")
	}
}
