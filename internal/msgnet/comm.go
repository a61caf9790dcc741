package msgnet

import (
	"context"
	"fmt"
)

// Envelope pairs a Frame with the tag and sender it travelled under, the
// unit exchanged over a Comm.
type Envelope struct {
	Tag  Tag
	From int
	Data Frame
}

// Comm is the transport every CBS driver plans against. LocalComm
// implements it over Go channels for in-process runs; TCPComm implements
// it over sockets for a genuine multi-process deployment.
type Comm interface {
	Rank() int
	Size() int

	// Send delivers data to dest under tag. It may block until the peer
	// receives, matching MPI's synchronous send semantics that the
	// original driver relies on for backpressure.
	Send(ctx context.Context, dest int, tag Tag, data Frame) error

	// Recv blocks for the next envelope addressed to this rank under tag,
	// or any tag if tag < 0.
	Recv(ctx context.Context, tag Tag) (Envelope, error)

	// TryRecv is Recv's non-blocking counterpart, the Go equivalent of
	// MPI_Iprobe followed by a receive: it returns immediately with
	// ok=false if no matching envelope is queued.
	TryRecv(tag Tag) (env Envelope, ok bool)

	// Broadcast fans data out to every other rank under tag.
	Broadcast(ctx context.Context, tag Tag, data Frame) error

	// Close releases the comm's resources. Further Send/Recv calls fail.
	Close() error
}

// ErrClosed is returned by a Comm once Close has been called.
var ErrClosed = fmt.Errorf("msgnet: comm closed")
