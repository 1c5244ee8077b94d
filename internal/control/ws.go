// SPDX-License-Identifier: EPL-2.0

package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// Request is one websocket control message.
type Request struct {
	Op      string    `json:"op"` // map, unmap, allocate, deposit, mappings, stats, levels
	PID     int       `json:"pid"`
	Channel int       `json:"channel"`
	Samples []float32 `json:"samples,omitempty"`
}

type Response struct {
	OK       bool      `json:"ok"`
	Channel  *int      `json:"channel,omitempty"`
	Error    string    `json:"error,omitempty"`
	Mappings []Mapping `json:"mappings,omitempty"`
	Stats    *Stats    `json:"stats,omitempty"`
	Levels   []Level   `json:"levels,omitempty"`
}

type Mapping struct {
	PID     int `json:"pid"`
	Channel int `json:"channel"`
}

// Level is one channel meter in linear scale and dBFS.
type Level struct {
	Channel int     `json:"channel"`
	Peak    float32 `json:"peak"`
	RMS     float32 `json:"rms"`
	PeakDB  float32 `json:"peak_db"`
	RMSDB   float32 `json:"rms_db"`
}

type Stats struct {
	Registrations uint64 `json:"registrations"`
	Rejected      uint64 `json:"rejected"`
	Deposits      uint64 `json:"deposits"`
	Unrouted      uint64 `json:"unrouted"`
	Clamped       uint64 `json:"clamped"`
	Cycles        uint64 `json:"cycles"`
}

// WSHandler serves the JSON control surface on one websocket per client.
// Requests on a connection are answered in order.
type WSHandler struct {
	eng Engine
	log *slog.Logger
}

func NewWSHandler(eng Engine, log *slog.Logger) *WSHandler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return &WSHandler{eng: eng, log: log}
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.log.Debug("control websocket accept", "error", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	h.log.Debug("control websocket connected", "remote", r.RemoteAddr)

	for {
		var req Request
		if err := wsjson.Read(ctx, conn, &req); err != nil {
			// wsjson closes the connection itself on malformed JSON.
			if websocket.CloseStatus(err) == -1 && !errors.Is(err, context.Canceled) {
				h.log.Debug("control websocket read", "error", err)
			}
			return
		}

		if err := wsjson.Write(ctx, conn, h.Handle(req)); err != nil {
			h.log.Debug("control websocket write", "error", err)
			return
		}
	}
}

// Handle runs one request against the engine.
func (h *WSHandler) Handle(req Request) Response {
	switch req.Op {
	case "map":
		if err := h.eng.Register(req.PID, req.Channel); err != nil {
			return failure(err)
		}
		return Response{OK: true, Channel: &req.Channel}

	case "unmap":
		h.eng.Unregister(req.PID)
		return Response{OK: true}

	case "allocate":
		ch, err := h.eng.Allocate(req.PID)
		if err != nil {
			return failure(err)
		}
		return Response{OK: true, Channel: &ch}

	case "deposit":
		if len(req.Samples) == 0 || len(req.Samples) > MaxDepositFrames {
			return failure(fmt.Errorf("%w: %d samples", ErrBadRequest, len(req.Samples)))
		}
		h.eng.Deposit(req.PID, req.Samples, len(req.Samples))
		return Response{OK: true}

	case "mappings":
		active := h.eng.Mappings()
		out := make([]Mapping, len(active))
		for i, m := range active {
			out[i] = Mapping{PID: m.PID, Channel: m.Channel}
		}
		return Response{OK: true, Mappings: out}

	case "stats":
		st := h.eng.Stats()
		return Response{OK: true, Stats: &Stats{
			Registrations: st.Registrations,
			Rejected:      st.Rejected,
			Deposits:      st.Deposits,
			Unrouted:      st.Unrouted,
			Clamped:       st.Clamped,
			Cycles:        st.Cycles,
		}}

	case "levels":
		levels := h.eng.Levels()
		out := make([]Level, len(levels))
		for i, l := range levels {
			out[i] = Level{
				Channel: l.Channel,
				Peak:    l.Peak,
				RMS:     l.RMS,
				PeakDB:  l.PeakDB(),
				RMSDB:   l.RMSDB(),
			}
		}
		return Response{OK: true, Levels: out}
	}

	return failure(fmt.Errorf("%w: unknown op %q", ErrBadRequest, req.Op))
}

func failure(err error) Response {
	return Response{Error: err.Error()}
}
