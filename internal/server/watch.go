package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jmcrae/catman/internal/catalog"
	"github.com/jmcrae/catman/internal/logging"
	"go.uber.org/zap"
)

const (
	// writeWait is the time allowed to write an event to a watcher
	writeWait = 10 * time.Second

	// pongWait is the time allowed to read the next pong from a watcher
	pongWait = 60 * time.Second

	// pingPeriod is how often pings are sent; must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// watcherBuffer is the per-watcher event queue size. A watcher that
	// falls this far behind is disconnected rather than blocking writers.
	watcherBuffer = 16
)

// Event types sent on the /v1/watch feed
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// Event is a single change notification on the watch feed.
type Event struct {
	Type     string           `json:"type"`
	Category catalog.Category `json:"category"`
}

// Hub fans change events out to connected WebSocket watchers.
type Hub struct {
	upgrader websocket.Upgrader
	mu       sync.Mutex
	watchers map[*watcher]struct{}
}

type watcher struct {
	conn   *websocket.Conn
	events chan Event
	done   chan struct{}
	once   sync.Once
}

// NewHub creates a hub with no connected watchers.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The feed is read-only and auth-gated; any origin may watch
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		watchers: make(map[*watcher]struct{}),
	}
}

// Broadcast queues an event for every connected watcher.
// Watchers that cannot keep up are dropped.
func (h *Hub) Broadcast(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for w := range h.watchers {
		select {
		case w.events <- event:
		default:
			logging.Warn("Dropping slow watcher",
				zap.String("remote_addr", w.conn.RemoteAddr().String()),
			)
			w.close()
			delete(h.watchers, w)
		}
	}
}

// WatcherCount returns the number of connected watchers.
func (h *Hub) WatcherCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.watchers)
}

// CloseAll disconnects every watcher. Used during shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for w := range h.watchers {
		w.close()
		delete(h.watchers, w)
	}
}

// ServeHTTP upgrades the request to a WebSocket and streams events until
// the client disconnects.
func (h *Hub) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(rw, req, nil)
	if err != nil {
		logging.Error("Watch upgrade failed",
			zap.String("remote_addr", req.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	w := &watcher{
		conn:   conn,
		events: make(chan Event, watcherBuffer),
		done:   make(chan struct{}),
	}

	h.mu.Lock()
	h.watchers[w] = struct{}{}
	h.mu.Unlock()

	logging.LogConnection(req.RemoteAddr, "watcher_connected")

	go w.readLoop()
	w.writeLoop()

	h.mu.Lock()
	delete(h.watchers, w)
	h.mu.Unlock()

	logging.LogConnection(req.RemoteAddr, "watcher_disconnected")
}

func (w *watcher) close() {
	w.once.Do(func() {
		close(w.done)
		_ = w.conn.Close()
	})
}

// readLoop drains the connection so pongs and close frames are processed.
// Watchers never send data; anything else read here is discarded.
func (w *watcher) readLoop() {
	defer w.close()

	w.conn.SetReadLimit(512)
	_ = w.conn.SetReadDeadline(time.Now().Add(pongWait))
	w.conn.SetPongHandler(func(string) error {
		return w.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := w.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writeLoop sends queued events and periodic pings until the watcher goes
// away. Runs on the ServeHTTP goroutine.
func (w *watcher) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		w.close()
	}()

	for {
		select {
		case event := <-w.events:
			_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := w.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := w.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-w.done:
			_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = w.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return
		}
	}
}
