package models

// RoundStatus tracks one round slot of a session
type RoundStatus struct {
	State      MissionState
	Operatives []int      // seat indices chosen by the leader
	Approvals  []Approval // indexed by seat, allocated on the first vote
	Mission    []bool     // parallel to Operatives, allocated on the first submission
	Submitted  []bool     // parallel to Operatives
}

// Clone returns a deep copy safe to hand out of a locked section
func (r RoundStatus) Clone() RoundStatus {
	return RoundStatus{
		State:      r.State,
		Operatives: cloneSlice(r.Operatives),
		Approvals:  cloneSlice(r.Approvals),
		Mission:    cloneSlice(r.Mission),
		Submitted:  cloneSlice(r.Submitted),
	}
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
