package handlers

import (
	"fmt"
	"net/http"

	"github.com/aaronzipp/distance-resistance/internal/game"
	"github.com/aaronzipp/distance-resistance/internal/log"
	"github.com/aaronzipp/distance-resistance/internal/models"
	"github.com/aaronzipp/distance-resistance/internal/render"
	"github.com/aaronzipp/distance-resistance/internal/sse"
)

func stateEvent(snap game.Snapshot) string {
	if snap.Outcome != models.OutcomeUndecided {
		return sse.EventGameOver
	}
	return sse.EventStateUpdate
}

// HandleEvents streams session updates via Server-Sent Events. Callers without
// a valid key receive the public view only.
func (ctx *Context) HandleEvents(w http.ResponseWriter, r *http.Request) {
	s, err := ctx.getSession(r)
	if err != nil {
		writeError(w, r, "events", err)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	key := playerKey(r)
	logger := log.WithContext(r.Context(), log.WithSession("sse", s.ID()))

	client := ctx.Hub.Subscribe(s.ID(), key)
	if client == nil {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}
	defer ctx.Hub.Unsubscribe(client)

	// Set headers for SSE
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable buffering in nginx/proxies

	// Send initial state
	snap := s.Snapshot()
	initial := render.JSON(render.SessionView(snap))
	if p, err := s.Player(key); err == nil {
		initial = render.JSON(render.PlayerView(snap, p))
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", stateEvent(snap), initial)
	flusher.Flush()
	logger.Debug().Int("clients", ctx.Hub.ClientCount(s.ID())).Msg("event stream connected")

	// Listen for updates
	reqCtx := r.Context()
	for {
		select {
		case <-reqCtx.Done():
			logger.Debug().Msg("event stream disconnected")
			return
		case msg, open := <-client.C:
			if !open {
				fmt.Fprintf(w, "event: %s\ndata: {}\n\n", sse.EventClosed)
				flusher.Flush()
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Event, msg.Data)
			flusher.Flush()
		}
	}
}
