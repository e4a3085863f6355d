package game

import (
	"github.com/aaronzipp/distance-resistance/internal/models"
)

// ApprovalTally is the count of a round's approval votes
type ApprovalTally struct {
	Approve int
	Reject  int
	Pending int
}

// Approved applies the tie-break: approval wins ties.
func (t ApprovalTally) Approved() bool {
	return t.Approve >= t.Reject
}

// Complete reports whether every seat has voted
func (t ApprovalTally) Complete() bool {
	return t.Pending == 0
}

// TallyApprovals counts votes. An unallocated slice counts as nobody having voted.
func TallyApprovals(approvals []models.Approval, headcount int) ApprovalTally {
	if len(approvals) == 0 {
		return ApprovalTally{Pending: headcount}
	}
	var t ApprovalTally
	for _, a := range approvals {
		switch a {
		case models.ApprovalApprove:
			t.Approve++
		case models.ApprovalReject:
			t.Reject++
		default:
			t.Pending++
		}
	}
	return t
}

// MissionTally is the count of submitted mission results
type MissionTally struct {
	Passes    int
	Fails     int
	Remaining int // distinct operatives yet to submit
}

// TallyMission counts results for a round. Duplicate seats in the team only
// count once, at their first position.
func TallyMission(round models.RoundStatus) MissionTally {
	var t MissionTally
	for i, seat := range round.Operatives {
		if operativeIndex(round.Operatives, seat) != i {
			continue
		}
		if len(round.Submitted) == 0 || !round.Submitted[i] {
			t.Remaining++
			continue
		}
		if round.Mission[i] {
			t.Passes++
		} else {
			t.Fails++
		}
	}
	return t
}

// operativeIndex returns the first position of seat in the team, or -1
func operativeIndex(operatives []int, seat int) int {
	for i, s := range operatives {
		if s == seat {
			return i
		}
	}
	return -1
}
