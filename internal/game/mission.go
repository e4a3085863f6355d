package game

var missionSizes = [Rounds][MaxPlayers - MinPlayers + 1]int{
	{2, 2, 2, 3, 3, 3},
	{3, 3, 3, 4, 4, 4},
	{2, 4, 3, 4, 4, 4},
	{3, 3, 4, 5, 5, 5},
	{3, 4, 4, 5, 5, 5},
}

// MissionSize returns how many operatives the leader must pick.
// It panics outside headcount [5,10] and round [0,4].
func MissionSize(headcount, round int) int {
	return missionSizes[round][headcount-MinPlayers]
}

// FailsRequired returns how many fail submissions sink a mission.
// The fourth mission needs two fails once seven or more play.
func FailsRequired(headcount, round int) int {
	if round == 3 && headcount >= 7 {
		return 2
	}
	return 1
}
