package msgnet

import (
	"context"
	"encoding/gob"
	"fmt"
	"net"
	"sync"
)

// wireEnvelope is Envelope's gob-safe transport encoding (Tag and int
// fields marshal fine, but keeping a distinct type avoids exporting gob
// registration concerns onto Envelope itself).
type wireEnvelope struct {
	Tag  int
	From int
	Data Frame
}

// TCPComm is the real-socket Comm implementation for a genuine
// multi-process deployment: each rank listens on a TCP port advertised
// via Discovery and keeps one persistent outbound connection per peer,
// grounded on the retrieved UDP transport's buffered-inbox-channel
// pattern but adapted to TCP + gob framing since CBS nodes are larger
// and order-sensitive, unlike single-datagram gossip messages.
type TCPComm struct {
	rank int
	size int

	listener net.Listener
	peers    map[int]*net.TCPAddr

	mu    sync.Mutex
	conns map[int]*gob.Encoder
	raw   map[int]net.Conn

	inbox chan Envelope

	closeOnce sync.Once
	closed    chan struct{}
}

// NewTCPComm starts listening on listenAddr and returns a Comm that can
// reach every rank in peers (including itself, which is skipped).
func NewTCPComm(rank, size int, listenAddr string, peers map[int]*net.TCPAddr) (*TCPComm, error) {
	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, fmt.Errorf("msgnet: listen %s: %w", listenAddr, err)
	}
	c := &TCPComm{
		rank:     rank,
		size:     size,
		listener: ln,
		peers:    peers,
		conns:    make(map[int]*gob.Encoder),
		raw:      make(map[int]net.Conn),
		inbox:    make(chan Envelope, 64),
		closed:   make(chan struct{}),
	}
	go c.acceptLoop()
	return c, nil
}

func (c *TCPComm) acceptLoop() {
	for {
		conn, err := c.listener.Accept()
		if err != nil {
			return
		}
		go c.readLoop(conn)
	}
}

func (c *TCPComm) readLoop(conn net.Conn) {
	dec := gob.NewDecoder(conn)
	for {
		var w wireEnvelope
		if err := dec.Decode(&w); err != nil {
			return
		}
		select {
		case c.inbox <- Envelope{Tag: Tag(w.Tag), From: w.From, Data: w.Data}:
		case <-c.closed:
			return
		}
	}
}

func (c *TCPComm) encoderFor(dest int) (*gob.Encoder, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if enc, ok := c.conns[dest]; ok {
		return enc, nil
	}
	addr, ok := c.peers[dest]
	if !ok {
		return nil, fmt.Errorf("msgnet: no known address for rank %d", dest)
	}
	conn, err := net.Dial("tcp", addr.String())
	if err != nil {
		return nil, fmt.Errorf("msgnet: dial rank %d at %s: %w", dest, addr, err)
	}
	enc := gob.NewEncoder(conn)
	c.conns[dest] = enc
	c.raw[dest] = conn
	return enc, nil
}

func (c *TCPComm) Rank() int { return c.rank }
func (c *TCPComm) Size() int { return c.size }

func (c *TCPComm) Send(ctx context.Context, dest int, tag Tag, data Frame) error {
	select {
	case <-c.closed:
		return ErrClosed
	default:
	}
	enc, err := c.encoderFor(dest)
	if err != nil {
		return err
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- enc.Encode(wireEnvelope{Tag: int(tag), From: c.rank, Data: data})
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *TCPComm) TryRecv(tag Tag) (Envelope, bool) {
	select {
	case env := <-c.inbox:
		if tag < 0 || env.Tag == tag {
			return env, true
		}
		go func(env Envelope) { c.inbox <- env }(env)
		return Envelope{}, false
	default:
		return Envelope{}, false
	}
}

func (c *TCPComm) Recv(ctx context.Context, tag Tag) (Envelope, error) {
	for {
		select {
		case env := <-c.inbox:
			if tag < 0 || env.Tag == tag {
				return env, nil
			}
			go func(env Envelope) { c.inbox <- env }(env)
		case <-c.closed:
			return Envelope{}, ErrClosed
		case <-ctx.Done():
			return Envelope{}, ctx.Err()
		}
	}
}

func (c *TCPComm) Broadcast(ctx context.Context, tag Tag, data Frame) error {
	for dest := range c.peers {
		if dest == c.rank {
			continue
		}
		if err := c.Send(ctx, dest, tag, data); err != nil {
			return err
		}
	}
	return nil
}

func (c *TCPComm) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		err = c.listener.Close()
		c.mu.Lock()
		for _, conn := range c.raw {
			conn.Close()
		}
		c.mu.Unlock()
	})
	return err
}
