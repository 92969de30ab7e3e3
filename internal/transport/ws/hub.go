// Package ws serves 2048 sessions over websocket. A connection joins a session
// by key; every client connected to the same key sees the same board.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/merge2048/internal/config"
	"github.com/vovakirdan/merge2048/internal/games/t2048"
	"github.com/vovakirdan/merge2048/internal/games/t2048/engine"
	"github.com/vovakirdan/merge2048/internal/games/t2048/session"
	"github.com/vovakirdan/merge2048/internal/storage"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Request is a message sent by a client.
type Request struct {
	Action    string `json:"action"`
	Direction string `json:"direction,omitempty"`
}

// Response is a message sent to clients.
type Response struct {
	Event   string          `json:"event"`
	Session string          `json:"session"`
	State   *t2048.View     `json:"state,omitempty"`
	Result  *t2048.MoveView `json:"result,omitempty"`
	Spawn   *engine.Spawn   `json:"spawn,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Options configures the sessions a hub creates.
type Options struct {
	Config config.T2048Config
	// Store persists sessions; nil keeps them in memory only.
	Store  session.Store
	Logger *log.Logger
	// Seed for every new session; 0 picks a time-based seed.
	Seed int64
}

// game is one shared session. Clients on different goroutines take mu.
type game struct {
	mu   sync.Mutex
	id   string // session name chosen by the client
	key  string // storage key, per mode
	sess *session.Session

	// refs counts connections holding this game, from gameFor until they
	// unregister. Guarded by Hub.mu.
	refs int
}

// Client represents a websocket connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	game *game
}

// outbound is a message for every client of a game, or for one client.
type outbound struct {
	key    string
	client *Client
	data   []byte
}

// Hub maintains the active clients and the sessions they play.
type Hub struct {
	opts   Options
	logger *log.Logger

	mu    sync.Mutex
	games map[string]*game

	// Registered clients by game key. Only touched by Run.
	clients map[string]map[*Client]bool

	broadcast  chan outbound
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

// NewHub creates a new websocket hub.
func NewHub(opts Options) *Hub {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		opts:       opts,
		logger:     logger,
		games:      make(map[string]*game),
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan outbound, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop and returns when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.clients {
				for c := range clients {
					h.unregisterClient(c)
				}
			}
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

// Handler returns the HTTP routes: /ws for play and /healthz.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", h.ServeWS)
	mux.HandleFunc("GET /healthz", h.serveHealth)
	return mux
}

// ServeWS upgrades the request and joins the session named by the "session"
// query parameter, or a new one. "mode" selects classic or endless.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	mode, ok := t2048.ParseMode(r.URL.Query().Get("mode"))
	if !ok {
		http.Error(w, "unknown mode", http.StatusBadRequest)
		return
	}
	id := r.URL.Query().Get("session")
	if id == "" {
		id = uuid.NewString()
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
		game: h.gameFor(mode, id),
	}
	select {
	case h.register <- client:
	case <-h.done:
		h.releaseGame(client.game)
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()

	resp, _ := client.game.handle(Request{Action: "state"})
	h.reply(client, resp, false)
}

func (h *Hub) serveHealth(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	n := len(h.games)
	h.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok", "sessions": n})
}

// gameFor returns the session named id, resuming or starting it on first use.
// The caller holds a reference until releaseGame.
func (h *Hub) gameFor(mode t2048.Mode, id string) *game {
	key := storage.SessionKey(mode.GameID(), id)
	h.mu.Lock()
	defer h.mu.Unlock()

	if g, ok := h.games[key]; ok {
		g.refs++
		return g
	}
	sess := t2048.NewSession(t2048.SessionOptions{
		Mode:   mode,
		Config: h.opts.Config,
		Seed:   h.opts.Seed,
		Store:  h.opts.Store,
		Key:    key,
		Logger: h.logger,
	})
	resumed := sess.Resume()
	h.logger.Info("session opened", "key", key, "resumed", resumed)

	g := &game{id: id, key: key, sess: sess, refs: 1}
	h.games[key] = g
	return g
}

// releaseGame drops one reference; the last one closes the game.
func (h *Hub) releaseGame(g *game) {
	h.mu.Lock()
	defer h.mu.Unlock()

	g.refs--
	if g.refs > 0 {
		return
	}
	if h.games[g.key] == g {
		delete(h.games, g.key)
	}
	h.logger.Info("session closed", "key", g.key)
}

// handle applies one request. It reports whether every client of the game
// should see the response rather than only the sender.
func (g *game) handle(req Request) (Response, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	resp := Response{Event: req.Action, Session: g.id}
	var err error
	shared := false

	switch req.Action {
	case "state":
	case "move":
		var dir engine.Direction
		dir, err = engine.ParseDirection(req.Direction)
		if err != nil {
			break
		}
		var out session.Outcome
		out, err = g.sess.Move(dir)
		if err != nil {
			break
		}
		mv := t2048.NewMoveView(out)
		resp.Result = &mv
		resp.Spawn = out.Spawn
		shared = out.Result.Changed
	case "undo":
		err = g.sess.Undo()
		shared = err == nil
	case "new":
		g.sess.NewGame()
		shared = true
	case "keep_playing":
		err = g.sess.KeepPlaying()
		shared = err == nil
	default:
		err = fmt.Errorf("ws: unknown action %q", req.Action)
	}

	if err != nil {
		resp.Event = "error"
		resp.Error = err.Error()
	}
	view := t2048.NewView(g.sess)
	resp.State = &view
	return resp, shared
}

// reply queues resp for c alone, or for every client of c's game when shared.
func (h *Hub) reply(c *Client, resp Response, shared bool) {
	data, err := json.Marshal(resp)
	if err != nil {
		h.logger.Error("could not marshal response", "error", err)
		return
	}
	msg := outbound{key: c.game.key, data: data}
	if !shared {
		msg.client = c
	}
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// registerClient adds a client to its game.
func (h *Hub) registerClient(client *Client) {
	key := client.game.key
	if h.clients[key] == nil {
		h.clients[key] = make(map[*Client]bool)
	}
	h.clients[key][client] = true
	h.logger.Debug("client registered", "key", key, "clients", len(h.clients[key]))
}

// unregisterClient removes a client and releases its game.
func (h *Hub) unregisterClient(client *Client) {
	key := client.game.key
	clients, ok := h.clients[key]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, key)
	}
	h.releaseGame(client.game)
}

// deliver sends msg to its target clients, dropping clients that can't keep up.
func (h *Hub) deliver(msg outbound) {
	clients := h.clients[msg.key]
	for client := range clients {
		if msg.client != nil && client != msg.client {
			continue
		}
		select {
		case client.send <- msg.data:
		default:
			h.unregisterClient(client)
		}
	}
}

// readPump decodes requests from the connection and answers them.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var req Request
		if err := c.conn.ReadJSON(&req); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				c.hub.reply(c, Response{Event: "error", Session: c.game.id, Error: "ws: malformed request"}, false)
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket error", "key", c.game.key, "error", err)
			}
			return
		}

		resp, shared := c.game.handle(req)
		c.hub.reply(c, resp, shared)
	}
}

// writePump sends queued responses and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ListenAndServe runs the hub and an HTTP server on addr until ctx is done.
func ListenAndServe(ctx context.Context, addr string, hub *Hub) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go hub.Run(ctx)

	srv := &http.Server{
		Addr:              addr,
		Handler:           hub.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		hub.logger.Info("starting websocket server", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("ws: %w", err)
	case <-ctx.Done():
	}

	hub.logger.Info("shutting down...")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	return srv.Shutdown(shutdownCtx)
}
