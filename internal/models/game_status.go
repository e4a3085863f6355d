package models

import "fmt"

// MissionState is the phase of a single round
type MissionState int

const (
	StatePending MissionState = iota
	StateSelectingOperatives
	StateApprovingMission
	StateRunningMission
	StateFailure
	StateVictory
)

func (s MissionState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSelectingOperatives:
		return "selecting_operatives"
	case StateApprovingMission:
		return "approving_mission"
	case StateRunningMission:
		return "running_mission"
	case StateFailure:
		return "failure"
	case StateVictory:
		return "victory"
	default:
		return "unknown"
	}
}

func (s MissionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *MissionState) UnmarshalText(text []byte) error {
	return parseLabel(s, text, StatePending, StateSelectingOperatives, StateApprovingMission,
		StateRunningMission, StateFailure, StateVictory)
}

// Resolved reports whether the round has a final mission result
func (s MissionState) Resolved() bool {
	return s == StateFailure || s == StateVictory
}

// Approval is a seat's vote on a proposed team
type Approval int

const (
	ApprovalNone Approval = iota
	ApprovalReject
	ApprovalApprove
)

func (a Approval) String() string {
	switch a {
	case ApprovalReject:
		return "reject"
	case ApprovalApprove:
		return "approve"
	default:
		return "none"
	}
}

func (a Approval) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Approval) UnmarshalText(text []byte) error {
	return parseLabel(a, text, ApprovalNone, ApprovalReject, ApprovalApprove)
}

// Outcome is the overall result of a session
type Outcome int

const (
	OutcomeUndecided Outcome = iota
	OutcomeAgentsWin
	OutcomeSpiesWin
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAgentsWin:
		return "agents_win"
	case OutcomeSpiesWin:
		return "spies_win"
	default:
		return "undecided"
	}
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(text []byte) error {
	return parseLabel(o, text, OutcomeUndecided, OutcomeAgentsWin, OutcomeSpiesWin)
}

// parseLabel sets dst to the value whose String matches text
func parseLabel[T fmt.Stringer](dst *T, text []byte, values ...T) error {
	for _, v := range values {
		if v.String() == string(text) {
			*dst = v
			return nil
		}
	}
	return fmt.Errorf("unknown %T label %q", *dst, text)
}
