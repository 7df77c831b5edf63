package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// HeartbeatInterval is used when the configured heartbeat is not positive.
const HeartbeatInterval = 15 * time.Second

const messageEndpoint = "/sse/message"

// session is one open SSE stream. Responses to messages posted for the
// session are queued on out and written by the stream handler.
type session struct {
	id     string
	out    chan []byte
	ctx    context.Context
	cancel context.CancelFunc
}

// send queues data for the stream. It reports false once the stream is gone.
func (s *session) send(data []byte) bool {
	select {
	case s.out <- data:
		return true
	case <-s.ctx.Done():
		return false
	}
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*session)}
}

func (st *sessionStore) open(parent context.Context) *session {
	ctx, cancel := context.WithCancel(parent)
	sess := &session{
		id:     uuid.NewString(),
		out:    make(chan []byte, 16),
		ctx:    ctx,
		cancel: cancel,
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[sess.id] = sess
	return sess
}

func (st *sessionStore) get(id string) (*session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	sess, ok := st.sessions[id]
	return sess, ok
}

func (st *sessionStore) close(id string) {
	st.mu.Lock()
	sess, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()

	if ok {
		sess.cancel()
	}
}

func (st *sessionStore) closeAll() {
	st.mu.Lock()
	sessions := st.sessions
	st.sessions = make(map[string]*session)
	st.mu.Unlock()

	for _, sess := range sessions {
		sess.cancel()
	}
}

func (st *sessionStore) len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// handleSSE opens a stream. The first event names the endpoint the client
// posts its messages to; responses follow as "message" events.
//
// SSE format:
//
//	event: {endpoint|message}
//	data: {payload}
//
// A heartbeat comment ": ping" is sent every server.sse_heartbeat.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeText(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	sess := s.sessions.open(r.Context())
	defer s.sessions.close(sess.id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := writeSSEEvent(w, "endpoint", []byte(messageEndpoint+"?sessionId="+sess.id)); err != nil {
		return
	}
	flusher.Flush()

	s.logger.Info("sse session opened", "session_id", sess.id)
	defer s.logger.Info("sse session closed", "session_id", sess.id)

	interval := s.cfg.SSEHeartbeat
	if interval <= 0 {
		interval = HeartbeatInterval
	}
	heartbeat := time.NewTicker(interval)
	defer heartbeat.Stop()

	for {
		select {
		case <-sess.ctx.Done():
			return

		case data := <-sess.out:
			if err := writeSSEEvent(w, "message", data); err != nil {
				return
			}
			flusher.Flush()

		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// handleSSEMessage accepts a message for an open session. The response is
// delivered on the session's stream, not in this reply.
func (s *Server) handleSSEMessage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.get(r.URL.Query().Get("sessionId"))
	if !ok {
		writeText(w, http.StatusNotFound, "Session not found")
		return
	}

	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	writeText(w, http.StatusAccepted, "Accepted")

	go func() {
		resp := s.dispatcher.HandleRaw(sess.ctx, body)
		if resp == nil {
			return
		}
		data, err := json.Marshal(resp)
		if err != nil {
			s.logger.Error("encode sse response", "session_id", sess.id, "error", err)
			return
		}
		if !sess.send(data) {
			s.logger.Debug("sse session gone before response", "session_id", sess.id)
		}
	}()
}

func writeSSEEvent(w http.ResponseWriter, event string, data []byte) error {
	_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
