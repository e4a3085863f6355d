package game

import "github.com/aaronzipp/distance-resistance/internal/models"

// Seat is the public view of one spot at the table
type Seat struct {
	Index   int
	Name    string
	Claimed bool
}

// Snapshot is a point-in-time copy of a session's public state
type Snapshot struct {
	ID         string
	Headcount  int
	Started    bool
	Round      int
	Leader     int
	Wins       int
	Failures   int
	Rejections int
	Outcome    models.Outcome
	Seats      []Seat
	Status     []models.RoundStatus
}

// Current returns the status of the round in play
func (s Snapshot) Current() models.RoundStatus {
	return s.Status[s.Round]
}

// MissionSize is the team size the current leader must pick
func (s Snapshot) MissionSize() int {
	return MissionSize(s.Headcount, s.Round)
}

// Joined counts claimed seats
func (s Snapshot) Joined() int {
	n := 0
	for _, seat := range s.Seats {
		if seat.Claimed {
			n++
		}
	}
	return n
}
