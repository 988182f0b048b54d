// Package server implements the receiving end of the wire protocol: an HTTP
// server that upgrades /ws connections and dispatches decoded commands to an
// input injector.
package server

import (
	"fmt"
	"net"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/DeltaFoundry/TouchRelay/internal/input"
)

// Server accepts client connections and applies their commands.
type Server struct {
	addr     string
	injector input.Injector
	log      zerolog.Logger
	listener net.Listener
}

// New creates a receiver server listening on addr.
func New(addr string, injector input.Injector, log zerolog.Logger) *Server {
	return &Server{
		addr:     addr,
		injector: injector,
		log:      log,
	}
}

// Start listens and serves until Stop or a fatal listener error. It blocks.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.listener = ln

	s.log.Info().Str("addr", s.addr).Msg("receiver listening")

	srv := &http.Server{Handler: mux}
	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop closes the listener.
func (s *Server) Stop() {
	if s.listener != nil {
		s.listener.Close()
	}
}

// Addr returns the bound listen address, useful when addr used port 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "TouchRelay receiver")
	fmt.Fprintln(w, "Point your touch client at the /ws endpoint of this host.")
}
