// Package remote turns a phone browser into a touch surface. The phone loads
// a page from the built-in HTTP server and streams its pointer events back
// over a WebSocket.
package remote

import (
	"context"
	"crypto/subtle"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/phinze/gamepads/internal/device"
	"github.com/phinze/gamepads/internal/widget"
)

//go:embed page.html
var pageHTML []byte

// pointerSpan is the number of pointer IDs reserved for each connection.
const pointerSpan = 1000

const pingInterval = 25 * time.Second

// Server implements device.Surface over WebSocket connections.
type Server struct {
	addr   string
	token  string
	width  float64
	height float64
	layout string

	upgrader websocket.Upgrader

	mu         sync.Mutex
	open       bool
	server     *http.Server
	listener   net.Listener
	handlers   []device.PointerHandler
	clients    map[*client]struct{}
	nextClient int
	listenDone chan struct{}
}

// Options configures a Server.
type Options struct {
	// Addr is the listen address, such as ":8377".
	Addr string
	// Token must be presented by the page. Empty disables the check.
	Token string
	// Width and Height are the screen size pointer coordinates are scaled to.
	Width, Height float64
	// Layout is shown on the page once it connects.
	Layout string
}

// New creates a remote surface. Call Open to start listening.
func New(opts Options) *Server {
	return &Server{
		addr:    opts.Addr,
		token:   opts.Token,
		width:   opts.Width,
		height:  opts.Height,
		layout:  opts.Layout,
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The page is served by this same server, but phones reach it
			// through whatever address the LAN gives them.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Open starts listening for browsers.
func (s *Server) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open {
		return fmt.Errorf("remote: already open")
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("remote: listen on %s: %w", s.addr, err)
	}
	s.listener = ln
	s.server = &http.Server{Handler: s.Handler()}
	s.open = true
	s.listenDone = make(chan struct{})

	go func(srv *http.Server, done chan struct{}) {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Remote server stopped: %v", err)
		}
		close(done)
	}(s.server, s.listenDone)

	log.Printf("Remote surface listening on %s", ln.Addr())
	return nil
}

// Close stops the server and drops every connection. Pointers still held by
// a dropped connection are released.
func (s *Server) Close() error {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return fmt.Errorf("remote: not open")
	}
	s.open = false
	srv := s.server
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		c.close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// IsOpen returns whether the server is listening.
func (s *Server) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// GetModelName returns the surface name.
func (s *Server) GetModelName() string {
	return "Remote Browser"
}

// Size returns the screen size pointer coordinates are scaled to.
func (s *Server) Size() (float64, float64) {
	return s.width, s.height
}

// AddPointerHandler registers a pointer event handler. Handlers run on the
// connection's read goroutine.
func (s *Server) AddPointerHandler(fn device.PointerHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, fn)
	return nil
}

// Listen blocks until the server opened by Open has shut down.
func (s *Server) Listen(errCh chan error) error {
	s.mu.Lock()
	done := s.listenDone
	s.mu.Unlock()
	if done == nil {
		return fmt.Errorf("remote: not open")
	}

	<-done
	return nil
}

// Addr returns the address the server is listening on, or nil before Open.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// PairingURL returns the page URL for host, with the token filled in.
func (s *Server) PairingURL(host string) string {
	u := url.URL{Scheme: "http", Host: host, Path: "/"}
	if s.token != "" {
		u.RawQuery = url.Values{"token": {s.token}}.Encode()
	}
	return u.String()
}

// Connections returns the number of connected browsers.
func (s *Server) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	router := http.NewServeMux()
	router.HandleFunc("GET /{$}", s.handlePage)
	router.HandleFunc("GET /ws", s.handleSocket)
	router.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return router
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(pageHTML)
}

func (s *Server) authorized(r *http.Request) bool {
	if s.token == "" {
		return true
	}
	got := r.URL.Query().Get("token")
	return subtle.ConstantTimeCompare([]byte(got), []byte(s.token)) == 1
}

func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Remote upgrade failed: %v", err)
		return
	}

	c := s.addClient(conn)
	log.Printf("Remote browser connected from %s", r.RemoteAddr)

	if err := c.send(Message{Type: TypeHello, Width: s.width, Height: s.height, Layout: s.layout}); err != nil {
		c.close()
	}
	go c.pingLoop()
	c.readLoop()

	s.removeClient(c)
	log.Printf("Remote browser %s disconnected", r.RemoteAddr)
}

func (s *Server) addClient(conn *websocket.Conn) *client {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextClient++
	c := &client{
		server: s,
		conn:   conn,
		base:   widget.PointerID(s.nextClient * pointerSpan),
		held:   make(map[widget.PointerID]widget.Point),
		done:   make(chan struct{}),
	}
	s.clients[c] = struct{}{}
	return c
}

// removeClient drops c and releases the pointers it still held.
func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()

	c.close()
	now := time.Now()
	for id, pos := range c.releaseAll() {
		s.dispatch(widget.PointerEvent{Type: widget.PointerUp, ID: id, Pos: pos, Time: now})
	}
}

func (s *Server) dispatch(ev widget.PointerEvent) {
	s.mu.Lock()
	handlers := s.handlers
	s.mu.Unlock()

	for _, h := range handlers {
		if err := h(s, ev); err != nil {
			log.Printf("Remote pointer handler failed: %v", err)
		}
	}
}

// toScreen scales normalized page coordinates to the surface size.
func (s *Server) toScreen(x, y float64) widget.Point {
	return widget.Point{X: clamp01(x) * s.width, Y: clamp01(y) * s.height}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// client is one connected browser.
type client struct {
	server *Server
	conn   *websocket.Conn
	base   widget.PointerID

	mu     sync.Mutex
	held   map[widget.PointerID]widget.Point
	done   chan struct{}
	closed bool
}

func (c *client) send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("connection closed")
	}
	return c.conn.WriteJSON(msg)
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
	c.conn.Close()
}

func (c *client) releaseAll() map[widget.PointerID]widget.Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	held := c.held
	c.held = make(map[widget.PointerID]widget.Point)
	return held
}

func (c *client) readLoop() {
	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			select {
			case <-c.done:
			default:
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Printf("Remote read error: %v", err)
				}
			}
			return
		}
		c.handle(msg)
	}
}

func (c *client) handle(msg Message) {
	switch msg.Type {
	case TypeDown, TypeMove, TypeUp:
		if msg.ID < 0 || msg.ID >= pointerSpan {
			c.send(Message{Type: TypeError, Msg: fmt.Sprintf("pointer id %d out of range", msg.ID)})
			return
		}
		if ev, ok := c.track(msg); ok {
			c.server.dispatch(ev)
		}
	case TypePing:
		c.send(Message{Type: TypePong})
	case TypePong:
		// heartbeat response, nothing to do
	default:
		c.send(Message{Type: TypeError, Msg: fmt.Sprintf("unknown message type %q", msg.Type)})
	}
}

// track updates the held pointers for msg and returns the event to
// dispatch. Moves and ups for pointers that are not down are dropped, and
// a repeated down is treated as a move.
func (c *client) track(msg Message) (widget.PointerEvent, bool) {
	id := c.base + widget.PointerID(msg.ID)
	ev := widget.PointerEvent{ID: id, Pos: c.server.toScreen(msg.X, msg.Y), Time: time.Now()}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, down := c.held[id]
	switch msg.Type {
	case TypeDown:
		ev.Type = widget.PointerDown
		if down {
			ev.Type = widget.PointerMove
		}
		c.held[id] = ev.Pos
	case TypeMove:
		if !down {
			return ev, false
		}
		ev.Type = widget.PointerMove
		c.held[id] = ev.Pos
	case TypeUp:
		if !down {
			return ev, false
		}
		ev.Type = widget.PointerUp
		delete(c.held, id)
	}
	return ev, true
}

func (c *client) pingLoop() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			_ = c.send(Message{Type: TypePing})
		}
	}
}
