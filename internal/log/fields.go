package log

// Canonical field name constants for structured logging.
const (
	FieldSessionID = "session_id"
	FieldRequestID = "request_id"
	FieldComponent = "component"
	FieldEvent     = "event"

	// Game fields
	FieldSeat      = "seat"
	FieldRound     = "round"
	FieldHeadcount = "headcount"
	FieldLeader    = "leader"

	// State fields
	FieldOldState = "old_state"
	FieldNewState = "new_state"

	FieldPath   = "path"
	FieldMethod = "method"
	FieldStatus = "status"
)
