package wire

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"pqchat/internal/domain"
)

const (
	headerSize = 4

	// DefaultMaxFrameSize bounds a single message payload.
	DefaultMaxFrameSize = 1 << 20
)

// Conn reads and writes length-prefixed messages on a stream. Reads must come
// from a single goroutine; writes may come from any number of goroutines.
type Conn struct {
	rwc      io.ReadWriteCloser
	r        *bufio.Reader
	maxFrame int

	wmu sync.Mutex
}

// Option configures a Conn.
type Option func(*Conn)

// WithMaxFrameSize overrides DefaultMaxFrameSize. Non-positive values are
// ignored.
func WithMaxFrameSize(n int) Option {
	return func(c *Conn) {
		if n > 0 {
			c.maxFrame = n
		}
	}
}

// NewConn wraps rwc.
func NewConn(rwc io.ReadWriteCloser, opts ...Option) *Conn {
	c := &Conn{
		rwc:      rwc,
		r:        bufio.NewReader(rwc),
		maxFrame: DefaultMaxFrameSize,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ReadMessage blocks until a full frame arrives and decodes it.
func (c *Conn) ReadMessage() (Message, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(c.r, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: read frame header: %w", domain.ErrTransport, err)
	}
	n := binary.BigEndian.Uint32(hdr[:])
	if n == 0 {
		return nil, fmt.Errorf("%w: empty frame", domain.ErrProtocol)
	}
	if uint64(n) > uint64(c.maxFrame) {
		return nil, fmt.Errorf("%w: frame of %d bytes exceeds limit %d", domain.ErrProtocol, n, c.maxFrame)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(c.r, payload); err != nil {
		return nil, fmt.Errorf("%w: read frame payload: %w", domain.ErrTransport, err)
	}
	return Unmarshal(payload)
}

// WriteMessage encodes m and writes it as one frame.
func (c *Conn) WriteMessage(m Message) error {
	payload, err := Marshal(m)
	if err != nil {
		return err
	}
	if len(payload) > c.maxFrame {
		return fmt.Errorf("%w: %s of %d bytes exceeds frame limit %d",
			domain.ErrProtocol, m.Type(), len(payload), c.maxFrame)
	}
	frame := make([]byte, headerSize+len(payload))
	binary.BigEndian.PutUint32(frame, uint32(len(payload)))
	copy(frame[headerSize:], payload)

	c.wmu.Lock()
	defer c.wmu.Unlock()
	if _, err := c.rwc.Write(frame); err != nil {
		return fmt.Errorf("%w: write %s: %w", domain.ErrTransport, m.Type(), err)
	}
	return nil
}

// Close closes the underlying stream, unblocking any pending read.
func (c *Conn) Close() error {
	return c.rwc.Close()
}
