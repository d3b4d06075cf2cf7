// Package devserver pushes rebuilt bundles to connected runtimes over a
// persistent websocket channel.
//
// The channel carries whole-bundle replacement only, never incremental
// patches. A newly connecting runtime immediately receives the current
// build if one exists.
package devserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	// Runtimes connect from emulators and devices; origin checks do not
	// apply to this development-only channel.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server broadcasts each published bundle to every connected runtime.
type Server struct {
	Log *zap.Logger

	mu      sync.Mutex
	current string
	hasOne  bool
	conns   map[*websocket.Conn]*client

	server   *http.Server
	listener net.Listener
}

// client pairs a connection with a write lock. The websocket library allows
// only one concurrent writer per connection, so the replay on connect and
// broadcast pushes must never overlap.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// New creates a dev server.
func New(log *zap.Logger) *Server {
	return &Server{
		Log:   log,
		conns: make(map[*websocket.Conn]*client),
	}
}

// Start binds the listener and begins serving. Binding first fails fast on
// port conflicts; the returned port is the actual one, useful with port 0.
func (s *Server) Start(port int) (int, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return 0, fmt.Errorf("dev server listen: %w", err)
	}
	actualPort := listener.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mux.HandleFunc("/reload", s.handleReload)
	mux.HandleFunc("/health", handleHealth)

	s.server = &http.Server{Handler: mux}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.Log.Error("dev server failed", zap.Error(err))
		}
	}()

	return actualPort, nil
}

// Shutdown closes every connection and stops the server.
func (s *Server) Shutdown() {
	s.mu.Lock()
	for conn := range s.conns {
		conn.Close()
	}
	s.conns = make(map[*websocket.Conn]*client)
	server := s.server
	s.server = nil
	s.mu.Unlock()

	if server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	server.Shutdown(ctx)
}

// Publish stores the bundle as the current build and broadcasts it to all
// connected runtimes.
func (s *Server) Publish(bundle string) {
	s.mu.Lock()
	s.current = bundle
	s.hasOne = true
	clients := make([]*client, 0, len(s.conns))
	for _, c := range s.conns {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		if err := s.send(c, bundle); err != nil {
			s.Log.Warn("push failed, dropping runtime",
				zap.String("remote", c.conn.RemoteAddr().String()),
				zap.Error(err))
			s.drop(c.conn)
		}
	}
	s.Log.Info("bundle pushed", zap.Int("runtimes", len(clients)))
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Log.Warn("upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn}
	s.mu.Lock()
	s.conns[conn] = c
	current, hasOne := s.current, s.hasOne
	// Take the write lock before releasing the registration lock: a
	// broadcast that includes this runtime queues behind the replay, so
	// the runtime never ends up on a build older than one it already
	// received.
	c.mu.Lock()
	s.mu.Unlock()

	s.Log.Info("runtime connected", zap.String("remote", conn.RemoteAddr().String()))

	var replayErr error
	if hasOne {
		replayErr = writeBundle(conn, current)
	}
	c.mu.Unlock()
	if replayErr != nil {
		s.drop(conn)
		return
	}

	// Read loop exists only to notice disconnects; runtimes never send.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.Log.Info("runtime disconnected",
					zap.String("remote", conn.RemoteAddr().String()))
				s.drop(conn)
				return
			}
		}
	}()
}

func (s *Server) send(c *client, bundle string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return writeBundle(c.conn, bundle)
}

func writeBundle(conn *websocket.Conn, bundle string) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, []byte(bundle))
}

func (s *Server) drop(conn *websocket.Conn) {
	conn.Close()
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
