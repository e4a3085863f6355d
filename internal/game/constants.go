package game

const (
	// MinPlayers is the smallest headcount a session can be created with
	MinPlayers = 5

	// MaxPlayers is the largest headcount a session can be created with
	MaxPlayers = 10

	// Rounds is the number of round slots in every session
	Rounds = 5

	// WinsNeeded is how many missions one faction must take to decide the game
	WinsNeeded = 3

	// SSEBufferSize is the default buffer size for event stream channels
	SSEBufferSize = 10

	// SSETimeoutSeconds is the default timeout for sending to one event stream client
	SSETimeoutSeconds = 1

	// RoomCodeLength is the length of generated session ids
	RoomCodeLength = 6

	// RoomCodeChars are the characters used for session ids (excluding ambiguous chars)
	RoomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)
