// SPDX-License-Identifier: EPL-2.0

package control

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/ik5/audroute/router"
)

// Engine is the subset of *router.Engine the control surfaces drive.
type Engine interface {
	Register(pid, channel int) error
	Unregister(pid int)
	Allocate(pid int) (int, error)
	Deposit(pid int, samples []float32, frameCount int)
	Mappings() []router.Mapping
	Stats() router.Stats
	Levels() []router.Level
}

// Server answers the socket protocol. Each connection may carry any
// number of requests; a malformed one is answered with StatusBadRequest
// and the connection is closed.
type Server struct {
	eng Engine
	log *slog.Logger

	mu     sync.Mutex
	ln     net.Listener
	conns  map[net.Conn]struct{}
	closed bool
	wg     sync.WaitGroup
}

func NewServer(eng Engine, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return &Server{
		eng:   eng,
		log:   log,
		conns: make(map[net.Conn]struct{}),
	}
}

// ListenAndServe listens on a unix socket at path, replacing a stale
// socket file left by a previous run.
func (s *Server) ListenAndServe(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale socket: %w", err)
	}

	ln, err := net.Listen("unix", path)
	if err != nil {
		return fmt.Errorf("listen %s: %w", path, err)
	}

	return s.Serve(ln)
}

// Serve accepts connections until Close. It returns nil after Close.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		ln.Close()
		return nil
	}
	s.ln = ln
	s.mu.Unlock()

	s.log.Info("control socket listening", "addr", ln.Addr().String())

	for {
		conn, err := ln.Accept()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		if !s.track(conn) {
			conn.Close()
			return nil
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(conn)
			s.handle(conn)
		}()
	}
}

func (s *Server) track(c net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	s.conns[c] = struct{}{}

	return true
}

func (s *Server) untrack(c net.Conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()

	c.Close()
}

// Close stops accepting, drops open connections and waits for their
// handlers to return.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true

	var err error
	if s.ln != nil {
		err = s.ln.Close()
	}
	for c := range s.conns {
		c.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()

	return err
}

type session struct {
	r       *bufio.Reader
	w       *bufio.Writer
	hdr     [headerSize]byte
	payload []byte
	samples []float32
}

func (s *Server) handle(conn net.Conn) {
	sess := &session{
		r: bufio.NewReader(conn),
		w: bufio.NewWriter(conn),
	}

	for {
		if _, err := io.ReadFull(sess.r, sess.hdr[:]); err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				s.log.Debug("control read", "error", err)
			}
			return
		}

		h := parseHeader(sess.hdr[:])
		ok := s.dispatch(sess, h)

		if err := sess.w.Flush(); err != nil {
			s.log.Debug("control write", "error", err)
			return
		}
		if !ok {
			s.log.Warn("bad control request", "op", h.op.String(), "pid", h.pid, "arg", h.arg)
			return
		}
	}
}

// dispatch runs one request and buffers its response. It reports false
// when the connection must be dropped.
func (s *Server) dispatch(sess *session, h header) bool {
	pid := int(h.pid)

	switch h.op {
	case OpMap:
		err := s.eng.Register(pid, int(h.arg))
		sess.w.WriteByte(byte(statusOf(err)))

	case OpUnmap:
		s.eng.Unregister(pid)
		sess.w.WriteByte(byte(StatusOK))

	case OpAllocate:
		ch, err := s.eng.Allocate(pid)
		var out [5]byte
		out[0] = byte(statusOf(err))
		if err == nil {
			binary.BigEndian.PutUint32(out[1:], uint32(int32(ch)))
		}
		sess.w.Write(out[:])

	case OpDeposit:
		frames := int(h.arg)
		if frames <= 0 || frames > MaxDepositFrames {
			sess.w.WriteByte(byte(StatusBadRequest))
			return false
		}

		if cap(sess.payload) < 4*frames {
			sess.payload = make([]byte, 4*MaxDepositFrames)
			sess.samples = make([]float32, MaxDepositFrames)
		}
		payload := sess.payload[:4*frames]
		if _, err := io.ReadFull(sess.r, payload); err != nil {
			return false
		}

		samples := sess.samples[:frames]
		readSamples(samples, payload)
		s.eng.Deposit(pid, samples, frames)
		sess.w.WriteByte(byte(StatusOK))

	case OpPing:
		sess.w.WriteByte(byte(StatusOK))

	default:
		sess.w.WriteByte(byte(StatusBadRequest))
		return false
	}

	return true
}
