package game

import (
	"math/rand/v2"
	"sync"

	"github.com/rs/zerolog"

	"github.com/aaronzipp/distance-resistance/internal/log"
	"github.com/aaronzipp/distance-resistance/internal/metrics"
	"github.com/aaronzipp/distance-resistance/internal/models"
	"github.com/aaronzipp/distance-resistance/internal/names"
)

// Deps are the collaborators a session is built with. Nil fields get defaults.
type Deps struct {
	// Shuffle permutes the seat order; the registry passes its shared RNG here
	Shuffle func(n int, swap func(i, j int))
	NewKey  func() models.PlayerKey
	Name    func() string
}

func (d Deps) withDefaults() Deps {
	if d.Shuffle == nil {
		d.Shuffle = rand.Shuffle
	}
	if d.NewKey == nil {
		d.NewKey = NewPlayerKey
	}
	if d.Name == nil {
		d.Name = func() string { return names.Fallback }
	}
	return d
}

// Session is one game instance. All methods are safe for concurrent use;
// mutating calls hold the session's write lock for their whole duration.
type Session struct {
	mu sync.RWMutex

	id         string
	headcount  int
	spots      []models.Spot
	players    map[models.PlayerKey]*models.Player
	leader     int
	round      int
	wins       int
	failures   int
	status     []models.RoundStatus
	rejections int
	started    bool
	outcome    models.Outcome

	logger zerolog.Logger
}

// NewSession deals roles for headcount players and shuffles the seat order
func NewSession(id string, headcount int, deps Deps) (*Session, error) {
	if headcount < MinPlayers || headcount > MaxPlayers {
		return nil, ErrInvalidHeadcount
	}
	deps = deps.withDefaults()

	s := &Session{
		id:        id,
		headcount: headcount,
		players:   make(map[models.PlayerKey]*models.Player, headcount),
		spots:     make([]models.Spot, 0, headcount),
		status:    make([]models.RoundStatus, Rounds),
		logger:    log.WithSession("game", id),
	}

	spies := headcount / 2
	if headcount-spies == 0 {
		spies--
	}
	for n := range headcount {
		player := &models.Player{
			Type: models.Spy,
			Key:  deps.NewKey(),
			Name: deps.Name(),
		}
		// Seats up to and including the computed split are tagged Agent.
		if n <= spies {
			player.Type = models.Agent
		}
		s.spots = append(s.spots, models.Spot{Key: player.Key})
		s.players[player.Key] = player
	}
	deps.Shuffle(len(s.spots), func(i, j int) {
		s.spots[i], s.spots[j] = s.spots[j], s.spots[i]
	})

	s.logger.Info().Int(log.FieldHeadcount, headcount).Msg("session created")
	return s, nil
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// Headcount is fixed at construction
func (s *Session) Headcount() int {
	return s.headcount
}

// Join claims the first free seat and returns the key that owns it
func (s *Session) Join() (models.PlayerKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for n := range s.spots {
		if s.spots[n].Claimed {
			continue
		}
		player, err := s.authorize(s.spots[n].Key)
		if err != nil {
			return "", err
		}
		s.spots[n].Claimed = true
		player.Seat = n
		metrics.RecordPlayerJoined()
		s.logger.Debug().Int(log.FieldSeat, n).Msg("seat claimed")
		return player.Key, nil
	}
	return "", ErrNoSpotsAvailable
}

// Start begins round 0 once every seat is claimed
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}
	for _, spot := range s.spots {
		if !spot.Claimed {
			return ErrNotEveryoneJoined
		}
	}
	s.started = true
	s.setState(models.StateSelectingOperatives)
	s.logger.Info().Int(log.FieldLeader, s.leader).Msg("game started")
	return nil
}

// ChangeName renames a player; only allowed before the game starts
func (s *Session) ChangeName(key models.PlayerKey, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrNameChangeAfterStart
	}
	player, err := s.authorize(key)
	if err != nil {
		return err
	}
	player.Name = name
	return nil
}

// ChooseOperatives records the leader's team for the current round
func (s *Session) ChooseOperatives(key models.PlayerKey, seats []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePhase(models.StateSelectingOperatives); err != nil {
		return err
	}
	player, err := s.authorize(key)
	if err != nil {
		return err
	}
	if player.Seat != s.leader {
		return ErrNotLeader
	}
	if len(seats) != MissionSize(s.headcount, s.round) {
		return ErrWrongOperativeCount
	}
	for _, seat := range seats {
		if seat < 0 || seat >= s.headcount {
			return ErrInvalidSeat
		}
	}

	cur := &s.status[s.round]
	cur.Operatives = append([]int(nil), seats...)
	s.setState(models.StateApprovingMission)
	return nil
}

// VoteToApprove records one seat's vote on the proposed team. The last vote
// resolves the proposal before returning.
func (s *Session) VoteToApprove(key models.PlayerKey, approve bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.authorize(key)
	if err != nil {
		return err
	}
	if err := s.requirePhase(models.StateApprovingMission); err != nil {
		return err
	}
	cur := &s.status[s.round]
	if len(cur.Approvals) != 0 && cur.Approvals[player.Seat] != models.ApprovalNone {
		return ErrAlreadyVoted
	}
	if len(cur.Approvals) == 0 {
		cur.Approvals = make([]models.Approval, s.headcount)
	}

	if approve {
		cur.Approvals[player.Seat] = models.ApprovalApprove
	} else {
		cur.Approvals[player.Seat] = models.ApprovalReject
	}
	metrics.RecordApprovalVote(approve)

	if tally := TallyApprovals(cur.Approvals, s.headcount); tally.Complete() {
		s.resolveApproval(tally)
	}
	return nil
}

// resolveApproval moves the round to the mission. A rejected proposal only
// bumps the rejection counter; the team still goes on the mission.
// TODO: return rejected proposals to operative selection under the next leader
// once the forced-mission rule after five rejections is settled.
func (s *Session) resolveApproval(tally ApprovalTally) {
	approved := tally.Approved()
	if !approved {
		s.rejections++
	}
	metrics.RecordProposal(approved)
	s.logger.Info().
		Int(log.FieldRound, s.round).
		Int("approve", tally.Approve).
		Int("reject", tally.Reject).
		Bool("approved", approved).
		Msg("proposal resolved")
	s.setState(models.StateRunningMission)
}

// SucceedMission records an operative's pass/fail card. Once every operative
// has submitted, the round resolves and the next one opens.
func (s *Session) SucceedMission(key models.PlayerKey, passed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.authorize(key)
	if err != nil {
		return err
	}
	if err := s.requirePhase(models.StateRunningMission); err != nil {
		return err
	}
	cur := &s.status[s.round]
	idx := operativeIndex(cur.Operatives, player.Seat)
	if idx < 0 {
		return ErrNotOperative
	}
	if len(cur.Submitted) == 0 {
		cur.Mission = make([]bool, len(cur.Operatives))
		cur.Submitted = make([]bool, len(cur.Operatives))
	}
	if cur.Submitted[idx] {
		return ErrAlreadySubmitted
	}
	cur.Mission[idx] = passed
	cur.Submitted[idx] = true

	if tally := TallyMission(*cur); tally.Remaining == 0 {
		s.resolveMission(tally)
	}
	return nil
}

func (s *Session) resolveMission(tally MissionTally) {
	if tally.Fails >= FailsRequired(s.headcount, s.round) {
		s.failures++
		s.setState(models.StateFailure)
	} else {
		s.wins++
		s.setState(models.StateVictory)
	}
	metrics.RecordMission(s.status[s.round].State.String())

	switch {
	case s.wins >= WinsNeeded:
		s.outcome = models.OutcomeAgentsWin
	case s.failures >= WinsNeeded:
		s.outcome = models.OutcomeSpiesWin
	}
	if s.outcome != models.OutcomeUndecided {
		metrics.RecordGameFinished(s.outcome.String())
		s.logger.Info().
			Int("wins", s.wins).
			Int("failures", s.failures).
			Stringer("outcome", s.outcome).
			Msg("game finished")
		return
	}

	s.round++
	s.leader = (s.leader + 1) % s.headcount
	s.setState(models.StateSelectingOperatives)
}

// Player returns a copy of the player owning key, role included
func (s *Session) Player(key models.PlayerKey) (models.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	player, err := s.authorize(key)
	if err != nil {
		return models.Player{}, err
	}
	return *player, nil
}

// Snapshot returns an immutable copy of the public session state
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		ID:         s.id,
		Headcount:  s.headcount,
		Started:    s.started,
		Round:      s.round,
		Leader:     s.leader,
		Wins:       s.wins,
		Failures:   s.failures,
		Rejections: s.rejections,
		Outcome:    s.outcome,
		Seats:      make([]Seat, len(s.spots)),
		Status:     make([]models.RoundStatus, len(s.status)),
	}
	for i, spot := range s.spots {
		seat := Seat{Index: i, Claimed: spot.Claimed}
		if p, ok := s.players[spot.Key]; ok {
			seat.Name = p.Name
		}
		snap.Seats[i] = seat
	}
	for i, st := range s.status {
		snap.Status[i] = st.Clone()
	}
	return snap
}

// authorize resolves a presented key. Caller must hold the lock.
func (s *Session) authorize(key models.PlayerKey) (*models.Player, error) {
	if key == "" {
		return nil, ErrInvalidPlayer
	}
	player, ok := s.players[key]
	if !ok {
		return nil, ErrInvalidPlayer
	}
	return player, nil
}

func (s *Session) requirePhase(want models.MissionState) error {
	if s.outcome != models.OutcomeUndecided {
		return ErrGameOver
	}
	if s.status[s.round].State != want {
		return ErrWrongPhase
	}
	return nil
}

func (s *Session) setState(next models.MissionState) {
	prev := s.status[s.round].State
	s.status[s.round].State = next
	s.logger.Debug().
		Int(log.FieldRound, s.round).
		Stringer(log.FieldOldState, prev).
		Stringer(log.FieldNewState, next).
		Msg("round state changed")
}
