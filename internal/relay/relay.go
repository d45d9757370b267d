package relay

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/atomic"

	"github.com/rickgao/skyle"
)

type client struct {
	conn *websocket.Conn
	send chan []byte
	addr string
}

// Relay broadcasts frames to every connected websocket client.
type Relay struct {
	cfg      Config
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
	wg      sync.WaitGroup

	connected atomic.Bool
	frames    atomic.Int64
	delivered atomic.Int64
	evicted   atomic.Int64
}

// New creates a relay with no clients.
func New(cfg Config, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = def.SendBuffer
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	return &Relay{
		cfg:     cfg,
		logger:  logger.With("component", "relay"),
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// Handler serves /ws and /healthz.
func (r *Relay) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", r.handleWS)
	mux.HandleFunc("/healthz", r.handleHealth)
	return mux
}

func (r *Relay) handleWS(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := r.add(conn, req.RemoteAddr)
	if c == nil {
		conn.Close()
		return
	}
	r.logger.Info("client connected", "addr", c.addr)

	// Inbound messages are ignored; reading surfaces the close.
	go func() {
		defer r.remove(c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (r *Relay) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health{
		Connected: r.connected.Load(),
		Clients:   r.ClientCount(),
	})
}

func (r *Relay) add(conn *websocket.Conn, addr string) *client {
	c := &client{
		conn: conn,
		send: make(chan []byte, r.cfg.SendBuffer),
		addr: addr,
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	// New clients learn the device state first. The frame is queued before
	// c is visible to Broadcast, so c.send is neither full nor closed here.
	if f, err := NewFrame(FrameConnected, r.connected.Load()); err == nil {
		if data, err := json.Marshal(f); err == nil {
			c.send <- data
		}
	}
	r.clients[c] = struct{}{}
	r.wg.Add(1)
	r.mu.Unlock()

	go r.writePump(c)
	return c
}

// remove drops c and ends its write pump. It is safe to call twice.
func (r *Relay) remove(c *client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[c]; !ok {
		return false
	}
	delete(r.clients, c)
	close(c.send)
	return true
}

func (r *Relay) writePump(c *client) {
	defer r.wg.Done()
	defer c.conn.Close()

	var ping <-chan time.Time
	if r.cfg.PingInterval > 0 {
		ticker := time.NewTicker(r.cfg.PingInterval)
		defer ticker.Stop()
		ping = ticker.C
	}

	for {
		select {
		case msg, ok := <-c.send:
			deadline := time.Now().Add(r.cfg.WriteTimeout)
			if !ok {
				c.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
				r.logger.Info("client disconnected", "addr", c.addr)
				return
			}
			c.conn.SetWriteDeadline(deadline)
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				r.logger.Debug("write failed", "addr", c.addr, "error", err)
				r.remove(c)
				return
			}
			r.delivered.Inc()
		case <-ping:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(r.cfg.WriteTimeout)); err != nil {
				r.remove(c)
				return
			}
		}
	}
}

// NewFrame builds a frame carrying payload as JSON.
func NewFrame(typ string, payload any) (Frame, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Type: typ, Time: time.Now().UTC(), Payload: raw}, nil
}

// Publish wraps payload in a frame and broadcasts it.
func (r *Relay) Publish(typ string, payload any) {
	f, err := NewFrame(typ, payload)
	if err != nil {
		r.logger.Error("encode payload failed", "type", typ, "error", err)
		return
	}
	r.Broadcast(f)
}

// Broadcast encodes f once and queues it for every client. Clients that
// cannot keep up are disconnected.
func (r *Relay) Broadcast(f Frame) {
	data, err := json.Marshal(f)
	if err != nil {
		r.logger.Error("encode frame failed", "type", f.Type, "error", err)
		return
	}
	r.frames.Inc()

	r.mu.RLock()
	clients := make([]*client, 0, len(r.clients))
	for c := range r.clients {
		clients = append(clients, c)
	}
	r.mu.RUnlock()

	for _, c := range clients {
		r.mu.RLock()
		_, live := r.clients[c]
		if live {
			select {
			case c.send <- data:
				live = false
			default:
			}
		}
		r.mu.RUnlock()

		// live here means the buffer was full.
		if live && r.remove(c) {
			r.evicted.Inc()
			r.logger.Warn("client too slow, disconnecting", "addr", c.addr)
		}
	}
}

// SetConnected records device reachability and tells every client.
func (r *Relay) SetConnected(connected bool) {
	r.connected.Store(connected)
	r.Publish(FrameConnected, connected)
}

// Attach forwards telemetry and connectivity from src. The returned
// function removes the subscriptions.
func (r *Relay) Attach(src Source) func() {
	ids := []uuid.UUID{
		src.SubscribeConnected(r.SetConnected),
		src.SubscribeGaze(func(p skyle.Point) { r.Publish(FrameGaze, p) }),
		src.SubscribePositioning(func(p skyle.Positioning) { r.Publish(FramePositioning, p) }),
		src.SubscribeTrigger(func(t skyle.Trigger) { r.Publish(FrameTrigger, t) }),
	}
	return func() {
		for _, id := range ids {
			src.Unsubscribe(id)
		}
	}
}

// ClientCount returns the number of connected clients.
func (r *Relay) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Stats returns relay statistics.
func (r *Relay) Stats() Stats {
	return Stats{
		Clients:   r.ClientCount(),
		Frames:    r.frames.Load(),
		Delivered: r.delivered.Load(),
		Evicted:   r.evicted.Load(),
	}
}

// Close disconnects every client and waits for their write pumps.
func (r *Relay) Close() {
	r.mu.Lock()
	r.closed = true
	for c := range r.clients {
		delete(r.clients, c)
		close(c.send)
	}
	r.mu.Unlock()

	r.wg.Wait()
}
