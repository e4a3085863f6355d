package models

// PlayerType is the secret faction a player is dealt
type PlayerType int

const (
	Agent PlayerType = iota
	Spy
)

func (t PlayerType) String() string {
	switch t {
	case Agent:
		return "agent"
	case Spy:
		return "spy"
	default:
		return "unknown"
	}
}

// MarshalText lets views and logs carry the faction name instead of the ordinal
func (t PlayerType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *PlayerType) UnmarshalText(text []byte) error {
	return parseLabel(t, text, Agent, Spy)
}

// PlayerKey is the secret capability handed to a player on join.
// Every per-player call must present it.
type PlayerKey string

// String redacts the key so it can be passed to loggers safely
func (k PlayerKey) String() string {
	if len(k) <= 4 {
		return "****"
	}
	return string(k[:4]) + "****"
}

// Reveal returns the raw key; only the transport layer should need it
func (k PlayerKey) Reveal() string {
	return string(k)
}

// Player represents one participant of a session
type Player struct {
	Type PlayerType
	Key  PlayerKey
	Name string
	Seat int // assigned on join, equal to the spot index
}

// Spot is one seat at the table. Claimed flips to true exactly once.
type Spot struct {
	Key     PlayerKey
	Claimed bool
}
