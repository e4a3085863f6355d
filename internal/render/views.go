// Package render turns session snapshots into the JSON shapes sent to clients.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aaronzipp/distance-resistance/internal/game"
	"github.com/aaronzipp/distance-resistance/internal/models"
)

// SeatView is one seat as shown to everyone
type SeatView struct {
	Seat    int    `json:"seat"`
	Name    string `json:"name"`
	Claimed bool   `json:"claimed"`
	Leader  bool   `json:"leader"`
}

// RoundView is one round slot
type RoundView struct {
	State      models.MissionState `json:"state"`
	Operatives []int               `json:"operatives,omitempty"`
	Approvals  []models.Approval   `json:"approvals,omitempty"`
	Submitted  int                 `json:"submitted"`
	Fails      *int                `json:"fails,omitempty"` // only once the mission resolved
}

// Session is the public state of a session
type Session struct {
	ID          string         `json:"id"`
	Headcount   int            `json:"headcount"`
	Started     bool           `json:"started"`
	Round       int            `json:"round"`
	Leader      int            `json:"leader"`
	MissionSize int            `json:"mission_size"`
	Wins        int            `json:"wins"`
	Failures    int            `json:"failures"`
	Rejections  int            `json:"rejections"`
	Outcome     models.Outcome `json:"outcome"`
	Seats       []SeatView     `json:"seats"`
	Rounds      []RoundView    `json:"rounds"`
}

// Player adds the viewer's own seat and role to the public state
type Player struct {
	Session
	Seat int               `json:"seat"`
	Name string            `json:"name"`
	Role models.PlayerType `json:"role"`
}

// SessionView builds the public view of a snapshot
func SessionView(snap game.Snapshot) Session {
	v := Session{
		ID:          snap.ID,
		Headcount:   snap.Headcount,
		Started:     snap.Started,
		Round:       snap.Round,
		Leader:      snap.Leader,
		MissionSize: snap.MissionSize(),
		Wins:        snap.Wins,
		Failures:    snap.Failures,
		Rejections:  snap.Rejections,
		Outcome:     snap.Outcome,
		Seats:       make([]SeatView, 0, len(snap.Seats)),
		Rounds:      make([]RoundView, 0, len(snap.Status)),
	}
	for _, seat := range snap.Seats {
		v.Seats = append(v.Seats, SeatView{
			Seat:    seat.Index,
			Name:    seat.Name,
			Claimed: seat.Claimed,
			Leader:  snap.Started && seat.Index == snap.Leader,
		})
	}
	for _, st := range snap.Status {
		v.Rounds = append(v.Rounds, roundView(st))
	}
	return v
}

func roundView(st models.RoundStatus) RoundView {
	rv := RoundView{
		State:      st.State,
		Operatives: st.Operatives,
		Approvals:  st.Approvals,
	}
	tally := game.TallyMission(st)
	rv.Submitted = tally.Passes + tally.Fails
	// individual cards stay hidden, only the fail count is revealed
	if st.State.Resolved() {
		fails := tally.Fails
		rv.Fails = &fails
	}
	return rv
}

// PlayerView builds the view for one player, role included
func PlayerView(snap game.Snapshot, p models.Player) Player {
	return Player{
		Session: SessionView(snap),
		Seat:    p.Seat,
		Name:    p.Name,
		Role:    p.Type,
	}
}

// JSON encodes a view for an event stream payload
func JSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return `{"error":"render failed"}`
	}
	return string(data)
}

// Summary renders a short multi-line text description, used by the simulator
func Summary(snap game.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "session %s: %d players, started=%v, round %d, leader seat %d\n",
		snap.ID, snap.Headcount, snap.Started, snap.Round, snap.Leader)
	fmt.Fprintf(&b, "  wins=%d failures=%d rejections=%d outcome=%s\n",
		snap.Wins, snap.Failures, snap.Rejections, snap.Outcome)
	for _, seat := range snap.Seats {
		fmt.Fprintf(&b, "  seat %d: %s", seat.Index, seat.Name)
		if !seat.Claimed {
			b.WriteString(" (open)")
		}
		b.WriteString("\n")
	}
	for i, st := range snap.Status {
		if st.State == models.StatePending {
			continue
		}
		fmt.Fprintf(&b, "  round %d: %s operatives=%v\n", i, st.State, st.Operatives)
	}
	return b.String()
}
