package msgnet

import (
	"context"
	"testing"
	"time"
)

func TestSendPoolWaitAllDeliversAllSends(t *testing.T) {
	comms := NewLocalCommGroup(2, MaxPendingSends)
	pool := NewSendPool(comms[0])
	ctx := context.Background()

	const n = 10
	for i := 0; i < n; i++ {
		if err := pool.Send(ctx, 1, TagChildren, Frame{NodeID: i}); err != nil {
			t.Fatalf("Send %d: %v", i, err)
		}
	}

	received := 0
	go func() {
		for received < n {
			rctx, cancel := context.WithTimeout(ctx, time.Second)
			if _, err := comms[1].Recv(rctx, TagChildren); err == nil {
				received++
			}
			cancel()
		}
	}()

	if errs := pool.WaitAll(); len(errs) != 0 {
		t.Errorf("WaitAll returned errors: %v", errs)
	}
}

func TestSendPoolBlocksWhenFull(t *testing.T) {
	comms := NewLocalCommGroup(2, 0)
	pool := NewSendPool(comms[0])
	ctx := context.Background()

	for i := 0; i < MaxPendingSends; i++ {
		if err := pool.Send(ctx, 1, TagChildren, Frame{NodeID: i}); err != nil {
			t.Fatalf("Send %d unexpectedly failed: %v", i, err)
		}
	}

	sent := make(chan error, 1)
	go func() {
		sent <- pool.Send(ctx, 1, TagChildren, Frame{NodeID: MaxPendingSends})
	}()
	select {
	case err := <-sent:
		t.Fatalf("Send past MaxPendingSends returned (%v) while every pending send was still blocked", err)
	case <-time.After(100 * time.Millisecond):
	}

	rctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	go func() {
		for i := 0; i <= MaxPendingSends; i++ {
			if _, err := comms[1].Recv(rctx, TagChildren); err != nil {
				return
			}
		}
	}()

	select {
	case err := <-sent:
		if err != nil {
			t.Errorf("Send past MaxPendingSends = %v, want nil once the pool drained", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Send past MaxPendingSends still blocked after the pending sends drained")
	}
}
