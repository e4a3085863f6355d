package handlers

import (
	"net/http"
)

type operativesRequest struct {
	Seats []int `json:"seats"`
}

// HandleChooseOperatives records the leader's proposed team
func (ctx *Context) HandleChooseOperatives(w http.ResponseWriter, r *http.Request) {
	s, err := ctx.getSession(r)
	if err != nil {
		writeError(w, r, "choose_operatives", err)
		return
	}
	var req operativesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, "choose_operatives", err)
		return
	}
	if err := s.ChooseOperatives(playerKey(r), req.Seats); err != nil {
		writeError(w, r, "choose_operatives", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	ctx.broadcastState(s)
}

type voteRequest struct {
	Approve *bool `json:"approve"`
}

// HandleVote records the caller's approval vote
func (ctx *Context) HandleVote(w http.ResponseWriter, r *http.Request) {
	s, err := ctx.getSession(r)
	if err != nil {
		writeError(w, r, "vote", err)
		return
	}
	var req voteRequest
	if err := decodeJSON(r, &req); err != nil || req.Approve == nil {
		writeError(w, r, "vote", errBadRequest)
		return
	}
	if err := s.VoteToApprove(playerKey(r), *req.Approve); err != nil {
		writeError(w, r, "vote", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	ctx.broadcastState(s)
}

type missionRequest struct {
	Passed *bool `json:"passed"`
}

// HandleMission records the caller's mission card
func (ctx *Context) HandleMission(w http.ResponseWriter, r *http.Request) {
	s, err := ctx.getSession(r)
	if err != nil {
		writeError(w, r, "succeed_mission", err)
		return
	}
	var req missionRequest
	if err := decodeJSON(r, &req); err != nil || req.Passed == nil {
		writeError(w, r, "succeed_mission", errBadRequest)
		return
	}
	if err := s.SucceedMission(playerKey(r), *req.Passed); err != nil {
		writeError(w, r, "succeed_mission", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	ctx.broadcastState(s)
}
