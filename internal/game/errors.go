package game

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidHeadcount    = fmt.Errorf("only %d - %d players are allowed", MinPlayers, MaxPlayers)
	ErrNoSpotsAvailable    = errors.New("no spots available")
	ErrSessionNotFound     = errors.New("session not found")
	ErrInvalidPlayer       = errors.New("invalid player")
	ErrAlreadyStarted      = errors.New("game is already started")
	ErrNotEveryoneJoined   = errors.New("not everyone has joined yet")
	ErrWrongPhase          = errors.New("wrong phase for this action")
	ErrNotLeader           = errors.New("you're not the leader")
	ErrWrongOperativeCount = errors.New("wrong number of operatives selected")
	ErrAlreadyVoted        = errors.New("player has already voted")
	ErrInvalidSeat         = errors.New("seat does not exist")
	ErrNotOperative        = errors.New("player is not on this mission")
	ErrAlreadySubmitted    = errors.New("player has already submitted a mission result")
	ErrGameOver            = errors.New("game is over")

	// ErrNameChangeAfterStart also matches ErrAlreadyStarted.
	ErrNameChangeAfterStart = fmt.Errorf("%w: names cannot change once the game has started", ErrAlreadyStarted)
)

var kinds = []struct {
	err  error
	kind string
}{
	// more specific errors first
	{ErrNameChangeAfterStart, "name_change_after_start"},
	{ErrInvalidHeadcount, "invalid_headcount"},
	{ErrNoSpotsAvailable, "no_spots_available"},
	{ErrSessionNotFound, "session_not_found"},
	{ErrInvalidPlayer, "invalid_player"},
	{ErrAlreadyStarted, "already_started"},
	{ErrNotEveryoneJoined, "not_everyone_joined"},
	{ErrWrongPhase, "wrong_phase"},
	{ErrNotLeader, "not_leader"},
	{ErrWrongOperativeCount, "wrong_operative_count"},
	{ErrAlreadyVoted, "already_voted"},
	{ErrInvalidSeat, "invalid_seat"},
	{ErrNotOperative, "not_operative"},
	{ErrAlreadySubmitted, "already_submitted"},
	{ErrGameOver, "game_over"},
}

// KindOf returns a stable label for a session error, "internal" for anything else.
func KindOf(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "internal"
}
