// SPDX-License-Identifier: EPL-2.0

package control

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"time"
)

// DefaultTimeout bounds each client call, dial included.
const DefaultTimeout = 5 * time.Second

// Client speaks the socket protocol. Every call dials a fresh connection,
// so a Client is safe for concurrent use.
type Client struct {
	path    string
	timeout time.Duration
	dialer  net.Dialer
}

func NewClient(path string) *Client {
	return &Client{path: path, timeout: DefaultTimeout}
}

// WithTimeout returns a copy of c using d per call.
func (c *Client) WithTimeout(d time.Duration) *Client {
	cp := *c
	cp.timeout = d
	return &cp
}

func (c *Client) Map(ctx context.Context, pid, channel int) error {
	_, err := c.roundTrip(ctx, header{op: OpMap, pid: int32(pid), arg: int32(channel)}, nil, 1)
	return err
}

func (c *Client) Unmap(ctx context.Context, pid int) error {
	_, err := c.roundTrip(ctx, header{op: OpUnmap, pid: int32(pid)}, nil, 1)
	return err
}

// Allocate asks the daemon for the lowest free channel for pid.
func (c *Client) Allocate(ctx context.Context, pid int) (int, error) {
	resp, err := c.roundTrip(ctx, header{op: OpAllocate, pid: int32(pid)}, nil, 5)
	if err != nil {
		return 0, err
	}

	return int(int32(binary.BigEndian.Uint32(resp[1:5]))), nil
}

// Deposit sends one chunk of mono samples for pid.
func (c *Client) Deposit(ctx context.Context, pid int, samples []float32) error {
	if len(samples) == 0 || len(samples) > MaxDepositFrames {
		return fmt.Errorf("%w: %d frames", ErrBadRequest, len(samples))
	}

	payload := make([]byte, 4*len(samples))
	putSamples(payload, samples)

	_, err := c.roundTrip(ctx, header{op: OpDeposit, pid: int32(pid), arg: int32(len(samples))}, payload, 1)
	return err
}

// Ping reports whether the daemon is up and answering.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.roundTrip(ctx, header{op: OpPing}, nil, 1)
	return err
}

// roundTrip sends one request and reads respLen bytes back. A status
// other than OK fails the call, and only the status byte is read.
func (c *Client) roundTrip(ctx context.Context, h header, payload []byte, respLen int) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, err := c.dialer.DialContext(ctx, "unix", c.path)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", c.path, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	msg := make([]byte, headerSize+len(payload))
	h.put(msg)
	copy(msg[headerSize:], payload)

	if _, err := conn.Write(msg); err != nil {
		return nil, fmt.Errorf("write %s: %w", h.op, err)
	}

	resp := make([]byte, respLen)
	if _, err := io.ReadFull(conn, resp[:1]); err != nil {
		return nil, fmt.Errorf("read %s status: %w", h.op, err)
	}
	if err := Status(resp[0]).Err(); err != nil {
		return nil, fmt.Errorf("%s pid %d: %w", h.op, h.pid, err)
	}

	if respLen > 1 {
		if _, err := io.ReadFull(conn, resp[1:]); err != nil {
			return nil, fmt.Errorf("read %s response: %w", h.op, err)
		}
	}

	return resp, nil
}
