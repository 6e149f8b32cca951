// Package feed streams kill notifications to websocket clients as JSON.
// A Hub is an events.Observer; it never blocks the battle. Each client has a
// bounded queue and kills that do not fit are dropped for that client.
package feed

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/nathoo/skirmish/engine/npc"
	"github.com/nathoo/skirmish/observe"
	"github.com/nathoo/skirmish/types"
)

// QueueSize is the per-client buffer of undelivered kills.
const QueueSize = 64

const writeTimeout = 5 * time.Second

// NPC is the wire form of a snapshot.
type NPC struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	Name string `json:"name"`
	X    uint64 `json:"x"`
	Y    uint64 `json:"y"`
}

// Kill is the message sent for every kill.
type Kill struct {
	Battle  string `json:"battle"`
	Killer  NPC    `json:"killer"`
	Killed  NPC    `json:"killed"`
	Message string `json:"message"`
}

func wireNPC(s types.Snapshot) NPC {
	return NPC{
		ID:   s.ID.String(),
		Kind: npc.KindName(s.Kind),
		Name: s.Name,
		X:    s.Point.X,
		Y:    s.Point.Y,
	}
}

// NewKill converts a kill event to its wire form.
func NewKill(ev types.KillEvent) Kill {
	return Kill{
		Battle:  ev.Battle.String(),
		Killer:  wireNPC(ev.Killer),
		Killed:  wireNPC(ev.Killed),
		Message: observe.Message(ev),
	}
}

type client struct {
	queue chan Kill
}

// Hub fans kills out to connected clients.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	dropped atomic.Int64
	log     *slog.Logger
}

// NewHub creates a hub. A nil logger means slog.Default().
func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		log:     log,
	}
}

// ServeHTTP upgrades the request and streams kills until the client leaves
// or the request context ends.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.ErrorContext(ctx, "failed to accept", "err", err)
		return
	}
	defer conn.CloseNow()

	// The feed is one-way; CloseRead handles control frames and cancels ctx
	// when the peer goes away.
	ctx = conn.CloseRead(ctx)

	c := &client{queue: make(chan Kill, QueueSize)}
	h.add(c)
	defer h.remove(c)
	h.log.DebugContext(ctx, "feed client connected", "remote", r.RemoteAddr)

	for {
		select {
		case <-ctx.Done():
			h.log.DebugContext(ctx, "feed client gone", "remote", r.RemoteAddr)
			return
		case k := <-c.queue:
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(wctx, conn, k)
			cancel()
			if err != nil {
				h.log.WarnContext(ctx, "feed write failed", "remote", r.RemoteAddr, "err", err)
				return
			}
		}
	}
}

// OnKill queues the kill for every client without waiting.
func (h *Hub) OnKill(ev types.KillEvent) {
	k := NewKill(ev)
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.queue <- k:
		default:
			h.dropped.Add(1)
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Dropped returns how many deliveries were discarded because a client's
// queue was full.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}
