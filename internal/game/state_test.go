package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aaronzipp/distance-resistance/internal/models"
)

func TestTallyApprovals(t *testing.T) {
	a, r, n := models.ApprovalApprove, models.ApprovalReject, models.ApprovalNone

	tests := []struct {
		name      string
		approvals []models.Approval
		want      ApprovalTally
		approved  bool
		complete  bool
	}{
		{"unallocated", nil, ApprovalTally{Pending: 5}, true, false},
		{"partial", []models.Approval{a, n, r, n, n}, ApprovalTally{Approve: 1, Reject: 1, Pending: 3}, true, false},
		{"tie", []models.Approval{a, a, r, r}, ApprovalTally{Approve: 2, Reject: 2}, true, true},
		{"rejected", []models.Approval{a, r, r, a, r}, ApprovalTally{Approve: 2, Reject: 3}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TallyApprovals(tt.approvals, 5)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.approved, got.Approved())
			assert.Equal(t, tt.complete, got.Complete())
		})
	}
}

func TestTallyMission(t *testing.T) {
	round := models.RoundStatus{
		Operatives: []int{2, 4, 2},
		Mission:    []bool{false, true, false},
		Submitted:  []bool{true, false, false},
	}
	assert.Equal(t, MissionTally{Fails: 1, Remaining: 1}, TallyMission(round))

	round.Submitted[1] = true
	assert.Equal(t, MissionTally{Passes: 1, Fails: 1}, TallyMission(round))

	assert.Equal(t, MissionTally{Remaining: 2}, TallyMission(models.RoundStatus{Operatives: []int{0, 1}}))
}
