package msgnet

import (
	"context"
	"sync"
)

// LocalComm connects a fixed set of ranks running as goroutines in the
// same process over buffered channels, one inbox per rank. Grounded on
// the buffered-channel, non-blocking-select receive pattern used for the
// UDP transport's inbox in the retrieved node transport code, adapted
// here to a synchronous multi-party Comm instead of a single socket.
type LocalComm struct {
	rank   int
	inbox  []chan Envelope
	mu     *sync.Mutex
	closed *bool
}

// NewLocalCommGroup builds size ranks that can all reach each other.
// inboxCapacity bounds how many un-received envelopes may queue per rank
// before Send blocks, the in-process stand-in for MPI's synchronous send.
func NewLocalCommGroup(size, inboxCapacity int) []*LocalComm {
	inboxes := make([]chan Envelope, size)
	for i := range inboxes {
		inboxes[i] = make(chan Envelope, inboxCapacity)
	}
	closed := false
	mu := &sync.Mutex{}

	comms := make([]*LocalComm, size)
	for i := 0; i < size; i++ {
		comms[i] = &LocalComm{rank: i, inbox: inboxes, mu: mu, closed: &closed}
	}
	return comms
}

func (c *LocalComm) Rank() int { return c.rank }
func (c *LocalComm) Size() int { return len(c.inbox) }

func (c *LocalComm) Send(ctx context.Context, dest int, tag Tag, data Frame) error {
	if c.isClosed() {
		return ErrClosed
	}
	select {
	case c.inbox[dest] <- Envelope{Tag: tag, From: c.rank, Data: data}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryRecv drains at most one queued envelope matching tag without
// blocking. It looks only at the head of the inbox: a non-matching head
// envelope is put back at the end of the inbox and ok is false.
func (c *LocalComm) TryRecv(tag Tag) (Envelope, bool) {
	if c.isClosed() {
		return Envelope{}, false
	}
	select {
	case env := <-c.inbox[c.rank]:
		if tag < 0 || env.Tag == tag {
			return env, true
		}
		go func(env Envelope) { c.inbox[c.rank] <- env }(env)
		return Envelope{}, false
	default:
		return Envelope{}, false
	}
}

func (c *LocalComm) Recv(ctx context.Context, tag Tag) (Envelope, error) {
	for {
		if c.isClosed() {
			return Envelope{}, ErrClosed
		}
		select {
		case env := <-c.inbox[c.rank]:
			if tag < 0 || env.Tag == tag {
				return env, nil
			}
			// Not the tag we want: re-queue for a later Recv call. This
			// keeps ordering simple at the cost of head-of-line blocking
			// across tags, acceptable because each driver only ever
			// waits on one or two tags at a time.
			go func(env Envelope) { c.inbox[c.rank] <- env }(env)
		case <-ctx.Done():
			return Envelope{}, ctx.Err()
		}
	}
}

func (c *LocalComm) Broadcast(ctx context.Context, tag Tag, data Frame) error {
	for dest := 0; dest < len(c.inbox); dest++ {
		if dest == c.rank {
			continue
		}
		if err := c.Send(ctx, dest, tag, data); err != nil {
			return err
		}
	}
	return nil
}

func (c *LocalComm) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	*c.closed = true
	return nil
}

func (c *LocalComm) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.closed
}
