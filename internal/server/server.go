// Package server exposes the tool registry over MCP: direct JSON-RPC
// requests, Server-Sent Events sessions and WebSocket connections.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/kstonekuan/discussion-mcp/internal/config"
	"github.com/kstonekuan/discussion-mcp/internal/logging"
)

// Server serves MCP over HTTP.
type Server struct {
	cfg        config.ServerConfig
	dispatcher *Dispatcher
	sessions   *sessionStore
	upgrader   websocket.Upgrader
	logger     *slog.Logger
	httpServer *http.Server
}

// New creates a Server for the given registry.
func New(cfg config.ServerConfig, registry toolRegistry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logging.Component(logger, "server")

	s := &Server{
		cfg:        cfg,
		dispatcher: NewDispatcher(registry, logger),
		sessions:   newSessionStore(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Address(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /mcp", s.handleDirect)
	mux.HandleFunc("GET /sse", s.handleSSE)
	mux.HandleFunc("POST /sse/message", s.handleSSEMessage)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeText(w, http.StatusOK, "ok")
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeText(w, http.StatusNotFound, "Not found")
	})
	return mux
}

// ListenAndServe serves on the configured address until Shutdown.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("listening", "addr", ln.Addr().String())
	err := s.httpServer.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown closes open streams and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.sessions.closeAll()
	return s.httpServer.Shutdown(ctx)
}

// handleDirect answers one JSON-RPC message per POST.
func (s *Server) handleDirect(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	resp := s.dispatcher.HandleRaw(r.Context(), body)
	if resp == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// readBody reads the capped request body, answering the client on failure.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeText(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return nil, false
		}
		writeText(w, http.StatusBadRequest, "Bad request")
		return nil, false
	}
	return body, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, text)
}
