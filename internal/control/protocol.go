// SPDX-License-Identifier: EPL-2.0

// Package control exposes the engine to other processes: a binary
// unix-socket protocol for producers and a websocket JSON surface for
// operators.
//
// Socket frames are a 9-byte header, op:u8 | pid:i32be | arg:i32be,
// answered with one status byte. Deposit carries arg float32be samples
// after the header. Allocate answers with the status byte followed by the
// channel as i32be.
package control

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/ik5/audroute/router"
)

type Op byte

const (
	OpMap      Op = 0x01
	OpUnmap    Op = 0x02
	OpDeposit  Op = 0x03
	OpAllocate Op = 0x04
	OpPing     Op = 0x05
)

func (o Op) String() string {
	switch o {
	case OpMap:
		return "map"
	case OpUnmap:
		return "unmap"
	case OpDeposit:
		return "deposit"
	case OpAllocate:
		return "allocate"
	case OpPing:
		return "ping"
	}

	return fmt.Sprintf("op(0x%02x)", byte(o))
}

type Status byte

const (
	StatusOK            Status = 0x00
	StatusTableFull     Status = 0x01
	StatusChannelRange  Status = 0x02
	StatusNoFreeChannel Status = 0x03
	StatusBadRequest    Status = 0x04
)

const (
	headerSize = 9

	// MaxDepositFrames bounds the payload a single deposit may carry.
	MaxDepositFrames = 8192
)

var (
	ErrBadRequest    = errors.New("bad request")
	ErrUnknownStatus = errors.New("unknown status")
)

type header struct {
	op  Op
	pid int32
	arg int32
}

func (h header) put(b []byte) {
	b[0] = byte(h.op)
	binary.BigEndian.PutUint32(b[1:5], uint32(h.pid))
	binary.BigEndian.PutUint32(b[5:9], uint32(h.arg))
}

func parseHeader(b []byte) header {
	return header{
		op:  Op(b[0]),
		pid: int32(binary.BigEndian.Uint32(b[1:5])),
		arg: int32(binary.BigEndian.Uint32(b[5:9])),
	}
}

func putSamples(b []byte, samples []float32) {
	for i, v := range samples {
		binary.BigEndian.PutUint32(b[4*i:], math.Float32bits(v))
	}
}

func readSamples(dst []float32, b []byte) {
	for i := range dst {
		dst[i] = math.Float32frombits(binary.BigEndian.Uint32(b[4*i:]))
	}
}

// statusOf maps engine errors onto wire statuses.
func statusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, router.ErrTableFull):
		return StatusTableFull
	case errors.Is(err, router.ErrChannelOutOfRange):
		return StatusChannelRange
	case errors.Is(err, router.ErrNoFreeChannel):
		return StatusNoFreeChannel
	}

	return StatusBadRequest
}

// Err is the inverse of statusOf, so clients can test with errors.Is
// against the router sentinels.
func (s Status) Err() error {
	switch s {
	case StatusOK:
		return nil
	case StatusTableFull:
		return router.ErrTableFull
	case StatusChannelRange:
		return router.ErrChannelOutOfRange
	case StatusNoFreeChannel:
		return router.ErrNoFreeChannel
	case StatusBadRequest:
		return ErrBadRequest
	}

	return fmt.Errorf("%w: 0x%02x", ErrUnknownStatus, byte(s))
}
