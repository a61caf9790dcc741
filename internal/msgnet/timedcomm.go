package msgnet

import (
	"context"
	"sync"
	"time"
)

// TimedComm wraps a Comm and accumulates the wall-clock time spent inside
// its blocking calls, the Go analogue of the original's MPI_Wtime()
// bracketing around every send/receive used to compute per-rank comm time
// (main_decentralized.c's comm_time accounting). A driver wraps each
// rank's Comm before use and reads Elapsed() once that rank has finished,
// then averages across ranks into mapfcore.Stats.CommTimeSec.
type TimedComm struct {
	Comm

	mu      sync.Mutex
	elapsed time.Duration
}

// NewTimedComm wraps comm for timing.
func NewTimedComm(comm Comm) *TimedComm {
	return &TimedComm{Comm: comm}
}

func (t *TimedComm) add(d time.Duration) {
	t.mu.Lock()
	t.elapsed += d
	t.mu.Unlock()
}

// Elapsed returns the total time spent inside Send/Recv/TryRecv/Broadcast
// so far.
func (t *TimedComm) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsed
}

func (t *TimedComm) Send(ctx context.Context, dest int, tag Tag, data Frame) error {
	start := time.Now()
	err := t.Comm.Send(ctx, dest, tag, data)
	t.add(time.Since(start))
	return err
}

func (t *TimedComm) Recv(ctx context.Context, tag Tag) (Envelope, error) {
	start := time.Now()
	env, err := t.Comm.Recv(ctx, tag)
	t.add(time.Since(start))
	return env, err
}

func (t *TimedComm) TryRecv(tag Tag) (Envelope, bool) {
	start := time.Now()
	env, ok := t.Comm.TryRecv(tag)
	t.add(time.Since(start))
	return env, ok
}

func (t *TimedComm) Broadcast(ctx context.Context, tag Tag, data Frame) error {
	start := time.Now()
	err := t.Comm.Broadcast(ctx, tag, data)
	t.add(time.Since(start))
	return err
}
