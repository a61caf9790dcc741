package msgnet

import (
	"context"
	"log"
	"sync"
)

// MaxPendingSends bounds the async send pool, matching the original's
// MAX_PENDING_SENDS cap on outstanding MPI_Isend requests.
const MaxPendingSends = 256

// pendingSend is one in-flight asynchronous send: done receives the
// send's result (nil or an error) when the goroutine performing it
// completes.
type pendingSend struct {
	done chan error
}

// SendPool issues non-blocking sends and reclaims their resources once
// complete, the Go analogue of the original's PendingSendPool built around
// MPI_Isend/MPI_Testall. Here "non-blocking" means the caller doesn't wait
// for the peer to receive; the sends themselves run on pool-owned
// goroutines against the underlying (synchronous) Comm.
type SendPool struct {
	comm Comm

	mu      sync.Mutex
	pending []*pendingSend
}

// NewSendPool wraps comm with a bounded async send queue.
func NewSendPool(comm Comm) *SendPool {
	return &SendPool{comm: comm}
}

// Send enqueues an asynchronous send and returns once room exists for it.
// If the pool is already at MaxPendingSends, it first reclaims whatever
// sends have already finished, and if that isn't enough, blocks until
// every outstanding send completes before enqueuing the new one, mirroring
// the original's send_serialized_node_async: progress, then block-wait-all
// on a full pool. The returned error is the earlier sends' first failure,
// if any occurred while draining room for this one.
func (p *SendPool) Send(ctx context.Context, dest int, tag Tag, data Frame) error {
	p.Progress()

	p.mu.Lock()
	full := len(p.pending) >= MaxPendingSends
	p.mu.Unlock()

	var drainErr error
	if full {
		log.Printf("[WARN] msgnet: send pool full (%d), waiting for all sends to complete", MaxPendingSends)
		if errs := p.WaitAll(); len(errs) > 0 {
			drainErr = errs[0]
		}
	}

	entry := &pendingSend{done: make(chan error, 1)}
	p.mu.Lock()
	p.pending = append(p.pending, entry)
	p.mu.Unlock()

	go func() {
		entry.done <- p.comm.Send(ctx, dest, tag, data)
	}()
	return drainErr
}

// Progress removes any sends that have completed, returning the errors
// (if any) they finished with. Non-blocking: it never waits on an
// in-flight send, mirroring MPI_Testall's poll-and-return semantics.
func (p *SendPool) Progress() []error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	write := 0
	for _, entry := range p.pending {
		select {
		case err := <-entry.done:
			if err != nil {
				errs = append(errs, err)
			}
		default:
			p.pending[write] = entry
			write++
		}
	}
	p.pending = p.pending[:write]
	return errs
}

// WaitAll blocks until every pending send has completed, mirroring
// MPI_Waitall, used before a rank tears down its comm.
func (p *SendPool) WaitAll() []error {
	p.mu.Lock()
	entries := make([]*pendingSend, len(p.pending))
	copy(entries, p.pending)
	p.pending = p.pending[:0]
	p.mu.Unlock()

	var errs []error
	for _, entry := range entries {
		if err := <-entry.done; err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Pending reports how many sends are currently outstanding.
func (p *SendPool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}
