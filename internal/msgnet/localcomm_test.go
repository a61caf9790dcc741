package msgnet

import (
	"context"
	"testing"
	"time"
)

func TestLocalCommSendRecv(t *testing.T) {
	comms := NewLocalCommGroup(2, 4)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	go func() {
		_ = comms[0].Send(ctx, 1, TagTask, Frame{NodeID: 7})
	}()

	env, err := comms[1].Recv(ctx, TagTask)
	if err != nil {
		t.Fatalf("Recv error: %v", err)
	}
	if env.From != 0 || env.Data.NodeID != 7 {
		t.Errorf("unexpected envelope: %+v", env)
	}
}

func TestLocalCommBroadcast(t *testing.T) {
	comms := NewLocalCommGroup(3, 4)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	go func() {
		_ = comms[0].Broadcast(ctx, TagIncumbent, Frame{Cost: 42})
	}()

	for _, rank := range []int{1, 2} {
		env, err := comms[rank].Recv(ctx, TagIncumbent)
		if err != nil {
			t.Fatalf("rank %d Recv error: %v", rank, err)
		}
		if env.Data.Cost != 42 {
			t.Errorf("rank %d got cost %v, want 42", rank, env.Data.Cost)
		}
	}
}

func TestLocalCommRecvTagFilter(t *testing.T) {
	comms := NewLocalCommGroup(2, 4)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := comms[0].Send(ctx, 1, TagIdle, Frame{NodeID: 1}); err != nil {
		t.Fatalf("send TagIdle: %v", err)
	}
	if err := comms[0].Send(ctx, 1, TagTask, Frame{NodeID: 2}); err != nil {
		t.Fatalf("send TagTask: %v", err)
	}

	env, err := comms[1].Recv(ctx, TagTask)
	if err != nil {
		t.Fatalf("Recv error: %v", err)
	}
	if env.Data.NodeID != 2 {
		t.Errorf("expected the TagTask envelope, got %+v", env)
	}
}

func TestLocalCommCloseRejectsSend(t *testing.T) {
	comms := NewLocalCommGroup(2, 4)
	if err := comms[0].Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	ctx := context.Background()
	if err := comms[1].Send(ctx, 0, TagTask, Frame{}); err != ErrClosed {
		t.Errorf("Send after Close = %v, want ErrClosed", err)
	}
}
