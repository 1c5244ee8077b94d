// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// DefaultQueueDepth is the per-listener backlog, about 160 ms.
const DefaultQueueDepth = 8

// Header is the first (text) message on a listen socket. Every message
// after it is one binary packet.
type Header struct {
	Codec      string `json:"codec"`
	SampleRate int    `json:"sample_rate"`
	Channels   int    `json:"channels"`
	PacketMS   int    `json:"packet_ms"`
}

// ListenHandler serves the mix over websocket.
type ListenHandler struct {
	hub        *Hub
	sampleRate int
	log        *slog.Logger
}

func NewListenHandler(hub *Hub, sampleRate int, log *slog.Logger) *ListenHandler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return &ListenHandler{hub: hub, sampleRate: sampleRate, log: log}
}

func (h *ListenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.log.Debug("listen websocket accept", "error", err)
		return
	}
	defer conn.CloseNow()

	id, packets, err := h.hub.Subscribe(DefaultQueueDepth)
	if err != nil {
		conn.Close(websocket.StatusGoingAway, err.Error())
		return
	}
	defer h.hub.Unsubscribe(id)

	// Listeners never send; CloseRead handles their close frame.
	ctx := conn.CloseRead(r.Context())

	hdr := Header{
		Codec:      h.hub.Codec(),
		SampleRate: h.sampleRate,
		Channels:   1,
		PacketMS:   PacketDuration,
	}
	if err := wsjson.Write(ctx, conn, hdr); err != nil {
		return
	}

	h.log.Info("listener connected", "id", id, "remote", r.RemoteAddr, "codec", hdr.Codec)
	defer h.log.Info("listener disconnected", "id", id)

	for {
		select {
		case <-ctx.Done():
			return
		case pkt, ok := <-packets:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "shutting down")
				return
			}
			if err := conn.Write(ctx, websocket.MessageBinary, pkt); err != nil {
				h.log.Debug("listen websocket write", "id", id, "error", err)
				return
			}
		}
	}
}
