// Package ws streams simulation frames to websocket presenters and collects
// their focus and stimulus inputs.
package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"jello-lod/internal/sim"
)

const (
	writeWait   = 5 * time.Second
	readWait    = 60 * time.Second
	clientQueue = 8
	inputQueue  = 64
)

// Hub fans frames out to every connected presenter. Publish never blocks the
// tick: a client whose queue is full misses the frame.
type Hub struct {
	log *log.Logger

	upgrader websocket.Upgrader
	nextID   atomic.Uint64
	dropped  atomic.Uint64

	mu        sync.Mutex
	clients   map[uint64]chan []byte
	bootstrap Bootstrap

	inputs chan Input
}

// NewHub returns a hub logging to logger (log.Default when nil).
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
		clients: map[uint64]chan []byte{},
		inputs:  make(chan Input, inputQueue),
	}
}

// SetBootstrap replaces the document served by BootstrapHandler.
func (h *Hub) SetBootstrap(b Bootstrap) {
	h.mu.Lock()
	h.bootstrap = b
	h.mu.Unlock()
}

// Inputs delivers validated presenter messages. The driver drains it between
// ticks and applies each with Input.Apply.
func (h *Hub) Inputs() <-chan Input { return h.inputs }

// Clients returns the number of connected presenters.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Dropped counts frames skipped for slow clients.
func (h *Hub) Dropped() uint64 { return h.dropped.Load() }

// Publish encodes f once and queues it for every client.
func (h *Hub) Publish(f sim.Frame) error {
	b, err := json.Marshal(frameMsg{Type: TypeFrame, ProtocolVersion: ProtocolVersion, Frame: f})
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, out := range h.clients {
		select {
		case out <- b:
		default:
			h.dropped.Add(1)
		}
	}
	return nil
}

// BootstrapHandler serves the static grid description as JSON.
func (h *Hub) BootstrapHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.mu.Lock()
		b := h.bootstrap
		h.mu.Unlock()
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(b)
	}
}

// Handler upgrades the request and serves one presenter until it leaves.
func (h *Hub) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		id := h.nextID.Add(1)
		out := make(chan []byte, clientQueue)
		h.mu.Lock()
		h.clients[id] = out
		h.mu.Unlock()
		defer func() {
			h.mu.Lock()
			delete(h.clients, id)
			h.mu.Unlock()
		}()
		h.log.Printf("ws: presenter %d connected from %s", id, r.RemoteAddr)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Writer goroutine.
		writeErr := make(chan error, 1)
		go func() {
			for {
				select {
				case <-ctx.Done():
					writeErr <- ctx.Err()
					return
				case b := <-out:
					_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						writeErr <- err
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(readWait))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			var in Input
			if err := json.Unmarshal(msg, &in); err != nil || !in.valid() {
				continue
			}
			select {
			case h.inputs <- in:
			default:
				// Drop inputs under load; focus is most-recent-value anyway.
			}
		}

		cancel()
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))
		select {
		case <-writeErr:
		case <-time.After(500 * time.Millisecond):
		}
		h.log.Printf("ws: presenter %d left", id)
	}
}
