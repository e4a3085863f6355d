package handlers

import (
	"net/http"
	"strings"

	"github.com/aaronzipp/distance-resistance/internal/log"
	"github.com/aaronzipp/distance-resistance/internal/render"
)

type createSessionRequest struct {
	Headcount int `json:"headcount"`
}

// HandleCreateSession creates a new session
func (ctx *Context) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, "create", err)
		return
	}

	id, err := ctx.Registry.Create(r.Context(), req.Headcount)
	if err != nil {
		writeError(w, r, "create", err)
		return
	}
	w.Header().Set("Location", "/sessions/"+id)
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// HandleGetSession returns the public state of a session
func (ctx *Context) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	s, err := ctx.getSession(r)
	if err != nil {
		writeError(w, r, "get", err)
		return
	}
	writeJSON(w, http.StatusOK, render.SessionView(s.Snapshot()))
}

// HandleJoin claims the next free seat
func (ctx *Context) HandleJoin(w http.ResponseWriter, r *http.Request) {
	s, err := ctx.getSession(r)
	if err != nil {
		writeError(w, r, "join", err)
		return
	}
	key, err := s.Join()
	if err != nil {
		writeError(w, r, "join", err)
		return
	}
	p, err := s.Player(key)
	if err != nil {
		writeError(w, r, "join", err)
		return
	}

	logger := log.WithContext(r.Context(), log.WithSession("http", s.ID()))
	logger.Info().Int(log.FieldSeat, p.Seat).Msg("player joined")

	// Set cookie for player key (session)
	http.SetCookie(w, &http.Cookie{
		Name:     playerKeyCookie,
		Value:    key.Reveal(),
		Path:     "/sessions/" + s.ID(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{"key": key.Reveal(), "seat": p.Seat, "name": p.Name})
	ctx.broadcastState(s)
}

// HandleMe returns the caller's view, role included
func (ctx *Context) HandleMe(w http.ResponseWriter, r *http.Request) {
	s, err := ctx.getSession(r)
	if err != nil {
		writeError(w, r, "me", err)
		return
	}
	p, err := s.Player(playerKey(r))
	if err != nil {
		writeError(w, r, "me", err)
		return
	}
	writeJSON(w, http.StatusOK, render.PlayerView(s.Snapshot(), p))
}

type changeNameRequest struct {
	Name string `json:"name"`
}

// HandleChangeName renames the caller before the game starts
func (ctx *Context) HandleChangeName(w http.ResponseWriter, r *http.Request) {
	s, err := ctx.getSession(r)
	if err != nil {
		writeError(w, r, "change_name", err)
		return
	}
	var req changeNameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, "change_name", err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, r, "change_name", errBadRequest)
		return
	}
	if err := s.ChangeName(playerKey(r), name); err != nil {
		writeError(w, r, "change_name", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	ctx.broadcastState(s)
}

// HandleStart starts the game once every seat is claimed
func (ctx *Context) HandleStart(w http.ResponseWriter, r *http.Request) {
	s, err := ctx.getSession(r)
	if err != nil {
		writeError(w, r, "start", err)
		return
	}
	if err := s.Start(); err != nil {
		writeError(w, r, "start", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	ctx.broadcastState(s)
}
