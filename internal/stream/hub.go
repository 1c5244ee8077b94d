// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"errors"
	"sync"
	"sync/atomic"
)

var ErrHubClosed = errors.New("stream hub closed")

// Stats counts packets across all listeners.
type Stats struct {
	Packets   uint64 // packets encoded
	Sent      uint64 // deliveries to listener queues
	Dropped   uint64 // deliveries skipped because a queue was full
	Listeners int
}

// Hub encodes the mix and fans packets out to listeners. Delivery never
// blocks: a listener whose queue is full misses the packet.
type Hub struct {
	enc    Encoder
	framer *Framer

	mu        sync.RWMutex
	listeners map[uint64]chan []byte
	nextID    uint64
	closed    bool

	packets atomic.Uint64
	sent    atomic.Uint64
	dropped atomic.Uint64
}

func NewHub(enc Encoder, sampleRate int) *Hub {
	return &Hub{
		enc:       enc,
		framer:    NewFramer(PacketFrames(sampleRate)),
		listeners: make(map[uint64]chan []byte),
	}
}

func (h *Hub) Codec() string { return h.enc.Codec() }

// Subscribe adds a listener with a queue of depth packets.
func (h *Hub) Subscribe(depth int) (uint64, <-chan []byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, nil, ErrHubClosed
	}

	h.nextID++
	ch := make(chan []byte, max(depth, 1))
	h.listeners[h.nextID] = ch

	return h.nextID, ch, nil
}

// Unsubscribe removes a listener and closes its queue. Unknown ids are
// ignored.
func (h *Hub) Unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.listeners[id]; ok {
		delete(h.listeners, id)
		close(ch)
	}
}

// WriteFrames implements output.FrameSink. Nothing is encoded while no
// one is listening.
func (h *Hub) WriteFrames(frames []float32) error {
	h.mu.RLock()
	idle := len(h.listeners) == 0 || h.closed
	h.mu.RUnlock()

	if idle {
		h.framer.Reset()
		return nil
	}

	return h.framer.Write(frames, h.publish)
}

func (h *Hub) publish(packet []float32) error {
	data, err := h.enc.Encode(packet)
	if err != nil {
		return err
	}
	h.packets.Add(1)

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.listeners {
		select {
		case ch <- data:
			h.sent.Add(1)
		default:
			h.dropped.Add(1)
		}
	}

	return nil
}

func (h *Hub) Stats() Stats {
	h.mu.RLock()
	n := len(h.listeners)
	h.mu.RUnlock()

	return Stats{
		Packets:   h.packets.Load(),
		Sent:      h.sent.Load(),
		Dropped:   h.dropped.Load(),
		Listeners: n,
	}
}

// Close disconnects every listener. Later writes are ignored.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	for id, ch := range h.listeners {
		delete(h.listeners, id)
		close(ch)
	}

	return nil
}
