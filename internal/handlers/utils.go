package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aaronzipp/distance-resistance/internal/game"
	"github.com/aaronzipp/distance-resistance/internal/log"
	"github.com/aaronzipp/distance-resistance/internal/metrics"
	"github.com/aaronzipp/distance-resistance/internal/models"
	"github.com/aaronzipp/distance-resistance/internal/render"
	"github.com/aaronzipp/distance-resistance/internal/sse"
)

const (
	playerKeyHeader = "X-Player-Key"
	playerKeyCookie = "player_key"
)

var errBadRequest = errors.New("malformed request body")

// playerKey reads the caller's key from the header, falling back to the cookie
func playerKey(r *http.Request) models.PlayerKey {
	if k := strings.TrimSpace(r.Header.Get(playerKeyHeader)); k != "" {
		return models.PlayerKey(k)
	}
	if cookie, err := r.Cookie(playerKeyCookie); err == nil {
		return models.PlayerKey(cookie.Value)
	}
	return ""
}

// getSession resolves the {id} path parameter to a live session
func (ctx *Context) getSession(r *http.Request) (*game.Session, error) {
	return ctx.Registry.GetMut(chi.URLParam(r, "id"))
}

// canonicalSessionPath redirects lowercase session ids to the uppercase path,
// which is the path the player cookie is scoped to
func (ctx *Context) canonicalSessionPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		canonical := strings.ToUpper(id)
		if id == canonical {
			next.ServeHTTP(w, r)
			return
		}
		if !ctx.Registry.Exists(canonical) {
			writeError(w, r, "lookup", game.ErrSessionNotFound)
			return
		}
		target := *r.URL
		target.Path = strings.Replace(r.URL.Path, "/"+id, "/"+canonical, 1)
		target.RawPath = ""
		http.Redirect(w, r, target.RequestURI(), http.StatusPermanentRedirect)
	})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errBadRequest
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps a session error kind to an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, game.ErrInvalidHeadcount),
		errors.Is(err, game.ErrWrongOperativeCount), errors.Is(err, game.ErrInvalidSeat):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrInvalidPlayer):
		return http.StatusUnauthorized
	case errors.Is(err, game.ErrNotLeader), errors.Is(err, game.ErrNotOperative):
		return http.StatusForbidden
	case errors.Is(err, game.ErrNoSpotsAvailable), errors.Is(err, game.ErrAlreadyStarted),
		errors.Is(err, game.ErrNotEveryoneJoined), errors.Is(err, game.ErrWrongPhase),
		errors.Is(err, game.ErrAlreadyVoted), errors.Is(err, game.ErrAlreadySubmitted),
		errors.Is(err, game.ErrGameOver):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError reports a rejected operation to the client and to metrics
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	kind := "bad_request"
	if !errors.Is(err, errBadRequest) {
		kind = game.KindOf(err)
	}
	metrics.RecordOperationError(op, kind)

	status := statusFor(err)
	logger := log.WithContext(r.Context(), log.WithComponent("http"))
	evt := logger.Debug()
	if status >= http.StatusInternalServerError {
		evt = logger.Error()
	}
	evt.Err(err).Str("op", op).Str("kind", kind).Msg("operation rejected")

	writeJSON(w, status, map[string]string{"error": err.Error(), "kind": kind})
}

// broadcastState pushes the current state to every connected client of the
// session. The snapshot is taken per client at send time.
func (ctx *Context) broadcastState(s *game.Session) {
	if ctx.Hub == nil {
		return
	}
	ctx.Hub.BroadcastPersonalized(s.ID(), func(key models.PlayerKey) sse.Message {
		snap := s.Snapshot()
		msg := sse.Message{Event: stateEvent(snap), Data: render.JSON(render.SessionView(snap))}
		if p, err := s.Player(key); err == nil {
			msg.Data = render.JSON(render.PlayerView(snap, p))
		}
		return msg
	})
}

// requestLogger logs each request with its chi request id
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := log.ContextWithRequestID(r.Context(), middleware.GetReqID(r.Context()))
		r = r.WithContext(ctx)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logger := log.WithContext(ctx, log.WithComponent("http"))
		logger.Debug().
			Str(log.FieldMethod, r.Method).
			Str(log.FieldPath, r.URL.Path).
			Int(log.FieldStatus, ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
