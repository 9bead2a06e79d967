package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/aretw0/autotutor/pkg/domain"
	"github.com/aretw0/autotutor/pkg/lesson"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SocketMessage is one frame sent over GET /lessons/{id}/ws.
type SocketMessage struct {
	Type  string               `json:"type"` // "diff" or "error"
	Diff  *domain.SnapshotDiff `json:"diff,omitempty"`
	Error string               `json:"error,omitempty"`
}

// watch subscribes to a lesson. The channel only signals that a newer
// snapshot exists; pending signals coalesce into one, and the reader takes
// l.Snapshot() itself, so a lagging client still reaches the latest version.
// The channel is never closed: a late notification must not hit a closed channel.
func (s *Server) watch(l *lesson.Lesson) (<-chan struct{}, func()) {
	wake := make(chan struct{}, 1)
	unsubscribe := l.Subscribe(func(*domain.Snapshot) {
		select {
		case wake <- struct{}{}:
		default:
		}
	})
	return wake, unsubscribe
}

// follow emits a diff against last each time the lesson moves on, until it
// terminates or ctx is done.
func (s *Server) follow(ctx context.Context, l *lesson.Lesson, last *domain.Snapshot, wake <-chan struct{}, emit func(*domain.SnapshotDiff) error) error {
	for last.Status != domain.StatusTerminated {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-wake:
		}
		snap := l.Snapshot()
		if snap.Version <= last.Version {
			continue
		}
		diff := domain.Diff(last, snap)
		last = snap
		if diff == nil {
			continue
		}
		if err := emit(diff); err != nil {
			return err
		}
	}
	return nil
}

// SubscribeEvents handles GET /lessons/{id}/events (SSE). The first event
// carries the whole transcript; later events carry diffs. The stream ends
// after the lesson terminates.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	l, err := s.Lessons.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("SubscribeEvents: streaming not supported")
		return
	}

	wake, unsubscribe := s.watch(l)
	defer unsubscribe()
	last := l.Snapshot()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	if err := writeEvent(w, domain.Diff(nil, last)); err != nil {
		return
	}
	flusher.Flush()
	s.Logger.Debug("SSE: client subscribed", "lesson_id", l.ID())

	err = s.follow(r.Context(), l, last, wake, func(diff *domain.SnapshotDiff) error {
		if err := writeEvent(w, diff); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		s.Logger.Debug("SSE: client disconnected", "lesson_id", l.ID(), "err", err)
		return
	}
	fmt.Fprintf(w, "event: end\ndata: terminated\n\n")
	flusher.Flush()
}

func writeEvent(w http.ResponseWriter, diff *domain.SnapshotDiff) error {
	data, err := json.Marshal(diff)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}

// Socket handles GET /lessons/{id}/ws. The server pushes diffs; the client
// sends ChooseRequest frames.
func (s *Server) Socket(w http.ResponseWriter, r *http.Request) {
	l, err := s.Lessons.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Logger.Warn("websocket upgrade failed", "lesson_id", l.ID(), "err", err)
		return
	}
	defer conn.Close()

	var writeMu sync.Mutex
	send := func(msg SocketMessage) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(msg)
	}

	wake, unsubscribe := s.watch(l)
	defer unsubscribe()
	last := l.Snapshot()
	if err := send(SocketMessage{Type: "diff", Diff: domain.Diff(nil, last)}); err != nil {
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go s.readSelections(ctx, cancel, conn, l, send)

	err = s.follow(ctx, l, last, wake, func(diff *domain.SnapshotDiff) error {
		return send(SocketMessage{Type: "diff", Diff: diff})
	})
	if err != nil {
		s.Logger.Debug("websocket stream stopped", "lesson_id", l.ID(), "err", err)
		return
	}
	// Keep reading selections so the client still gets error frames.
	<-ctx.Done()
}

func (s *Server) readSelections(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, l *lesson.Lesson, send func(SocketMessage) error) {
	defer cancel()
	for {
		var req ChooseRequest
		if err := conn.ReadJSON(&req); err != nil {
			s.Logger.Debug("websocket closed", "lesson_id", l.ID(), "err", err)
			return
		}
		index, err := selection(l, req)
		if err == nil {
			_, err = l.Choose(ctx, index)
		}
		if err != nil {
			if sendErr := send(SocketMessage{Type: "error", Error: err.Error()}); sendErr != nil {
				return
			}
		}
	}
}
