// Package server exposes the cardroom over WebSocket. It is a thin
// transport: every rule decision is made by the game engine behind the
// table runners, and the server only translates wire messages to runner
// calls and delta streams back to clients.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/greenfelt/cardroom/internal/table"
)

// Options configures the WebSocket server.
type Options struct {
	Addr   string
	Logger zerolog.Logger
}

// Server accepts WebSocket clients and routes their requests to table
// runners.
type Server struct {
	addr     string
	log      zerolog.Logger
	registry *table.Registry
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*Connection]struct{}
}

// NewServer creates a server over an existing table registry.
func NewServer(registry *table.Registry, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = "localhost:8080"
	}
	return &Server{
		addr:     opts.Addr,
		log:      opts.Logger.With().Str("component", "server").Logger(),
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		conns: make(map[*Connection]struct{}),
	}
}

func (s *Server) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// Run serves until ctx is cancelled, then drains connections and returns.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.handler()}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info().Str("addr", s.addr).Msg("listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		s.closeAll()
		return err
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	conn := newConnection(ws, s.registry, s.log)
	s.track(conn)
	conn.start()
	go func() {
		<-conn.done()
		s.untrack(conn)
	}()
}

func (s *Server) track(c *Connection) {
	s.mu.Lock()
	s.conns[c] = struct{}{}
	total := len(s.conns)
	s.mu.Unlock()
	s.log.Info().Int("total", total).Msg("client connected")
}

func (s *Server) untrack(c *Connection) {
	s.mu.Lock()
	delete(s.conns, c)
	total := len(s.conns)
	s.mu.Unlock()
	s.log.Info().Int("total", total).Msg("client disconnected")
}

func (s *Server) closeAll() {
	s.mu.Lock()
	conns := make([]*Connection, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()
	for _, c := range conns {
		c.Close()
	}
}
