package game

import (
	"math"
	"sort"
	"time"

	"trackline/internal/model"
)

// NewRoomState creates a fresh lobby with no rounds assigned.
func NewRoomState(roomID string, now time.Time) *model.RoomState {
	return &model.RoomState{
		RoomID:              roomID,
		Lifecycle:           model.LifecycleLobby,
		Phase:               model.PhaseLobby,
		PhaseStartedAt:      now,
		CurrentRoundIndex:   -1,
		Participants:        make(map[string]*model.Participant),
		GuessSubmissions:    make(map[string]*model.GuessSubmission),
		TimelineSubmissions: make(map[string]*model.TimelineSubmission),
		RoundBreakdowns:     make(map[string]*model.RoundBreakdown),
		Scores:              make(map[string]int),
		CreatedAt:           now,
	}
}

// AssignRounds sets the ordered round catalog. Only valid in the lobby;
// the list is immutable once the game starts.
func AssignRounds(s *model.RoomState, rounds []model.Round) error {
	if s.Lifecycle != model.LifecycleLobby {
		return ErrNotInLobby
	}
	s.Rounds = rounds
	return nil
}

// Join upserts a participant. Once the game is running only ids frozen
// into the allowed set may (re)join; everyone else is turned away.
func Join(s *model.RoomState, p model.Participant, now time.Time) error {
	if s.Lifecycle != model.LifecycleLobby && !s.IsAllowed(p.ID) {
		return ErrNotAllowed
	}

	if existing, ok := s.Participants[p.ID]; ok {
		existing.Name = p.Name
		existing.Color = p.Color
		existing.LastSeenAt = now
		return nil
	}

	p.JoinedAt = now
	p.LastSeenAt = now
	s.Participants[p.ID] = &p
	return nil
}

// RemoveParticipant drops a player from the room. Host action only;
// the allowed set stays frozen, so a removed player still appears in
// breakdowns for rounds scored while they were absent.
func RemoveParticipant(s *model.RoomState, playerID string) error {
	if _, ok := s.Participants[playerID]; !ok {
		return ErrPlayerNotFound
	}
	delete(s.Participants, playerID)
	return nil
}

// Heartbeat refreshes a participant's presence timestamp. The engine
// never evicts stale participants itself.
func Heartbeat(s *model.RoomState, playerID string, now time.Time) error {
	p, ok := s.Participants[playerID]
	if !ok {
		return ErrPlayerNotFound
	}
	p.LastSeenAt = now
	return nil
}

// Start moves the room from lobby into the first listen window and
// freezes the allowed player set.
func Start(s *model.RoomState, d Durations, now time.Time) error {
	if s.Lifecycle != model.LifecycleLobby {
		return ErrAlreadyRunning
	}
	if len(s.Rounds) == 0 {
		return ErrNoRounds
	}
	if len(s.Participants) == 0 {
		return ErrNoParticipants
	}

	allowed := make([]string, 0, len(s.Participants))
	for id := range s.Participants {
		allowed = append(allowed, id)
	}
	sort.Strings(allowed)

	s.AllowedPlayerIDs = allowed
	s.Lifecycle = model.LifecycleRunning
	s.CurrentRoundIndex = 0
	setPhase(s, model.PhaseListen, d.Listen, now)
	return nil
}

// SubmitGuess records a player's resolved answer for the current round.
// Valid only during an open listen window; a later submission for the
// same round overwrites the earlier one.
func SubmitGuess(s *model.RoomState, playerID, trackID, artistID string, now time.Time) error {
	round, err := openListenRound(s, playerID, now)
	if err != nil {
		return err
	}
	if trackID == "" && artistID == "" {
		return ErrEmptyGuess
	}

	s.GuessSubmissions[model.SubmissionKey(playerID, round.ID)] = &model.GuessSubmission{
		PlayerID:    playerID,
		RoundID:     round.ID,
		TrackID:     trackID,
		ArtistID:    artistID,
		SubmittedAt: now,
	}
	return nil
}

// SubmitTimeline records where the player placed the current round on
// the board. The raw index arrives as a float straight from the wire;
// non-finite values are rejected, everything else is clamped.
func SubmitTimeline(s *model.RoomState, playerID string, rawIndex float64, now time.Time) error {
	round, err := openListenRound(s, playerID, now)
	if err != nil {
		return err
	}
	if math.IsNaN(rawIndex) || math.IsInf(rawIndex, 0) {
		return ErrInvalidInsertIndex
	}

	board := BuildTimelineEntries(s.TimelineRoundIDs, s.Rounds)
	s.TimelineSubmissions[model.SubmissionKey(playerID, round.ID)] = &model.TimelineSubmission{
		PlayerID:    playerID,
		RoundID:     round.ID,
		InsertIndex: ClampInsertIndex(rawIndex, len(board)),
		SubmittedAt: now,
	}
	return nil
}

// Advance steps the phase machine once if the current deadline has
// passed. It never fails and is a no-op before the deadline, so it is
// safe to call on every request and on a periodic tick. Each call walks
// at most one transition; callers loop to catch up after long gaps.
func Advance(s *model.RoomState, d Durations, now time.Time) bool {
	switch s.Phase {
	case model.PhaseLobby, model.PhaseFinal:
		return false
	}
	if now.Before(s.PhaseEndsAt) {
		return false
	}

	switch s.Phase {
	case model.PhaseListen:
		revealCurrentRound(s)
		setPhase(s, model.PhaseReveal, d.Reveal, now)
	case model.PhaseReveal:
		if s.CurrentRoundIndex >= len(s.Rounds)-1 {
			finish(s, now)
		} else {
			setPhase(s, model.PhaseIntermission, d.Intermission, now)
		}
	case model.PhaseIntermission:
		s.CurrentRoundIndex++
		if s.CurrentRoundIndex >= len(s.Rounds) {
			finish(s, now)
		} else {
			setPhase(s, model.PhaseListen, d.Listen, now)
		}
	}
	return true
}

// revealCurrentRound scores every allowed player against the current
// round, then folds the round's true year into the timeline. The board
// is built before the fold so placements are judged against what the
// players actually saw.
func revealCurrentRound(s *model.RoomState) {
	round := s.CurrentRound()
	if round == nil {
		return
	}

	board := BuildTimelineEntries(s.TimelineRoundIDs, s.Rounds)
	breakdown := &model.RoundBreakdown{
		RoundID: round.ID,
		Players: make(map[string]model.PlayerBreakdown, len(s.AllowedPlayerIDs)),
	}

	for _, playerID := range s.AllowedPlayerIDs {
		key := model.SubmissionKey(playerID, round.ID)
		bd := ScorePlayer(round, s.GuessSubmissions[key], s.TimelineSubmissions[key], board, s.PhaseStartedAt)
		breakdown.Players[playerID] = bd
		s.Scores[playerID] += bd.Points.Total
	}

	s.RoundBreakdowns[round.ID] = breakdown
	s.TimelineRoundIDs = append(s.TimelineRoundIDs, round.ID)
}

func setPhase(s *model.RoomState, phase model.Phase, d time.Duration, now time.Time) {
	s.Phase = phase
	s.PhaseStartedAt = now
	s.PhaseEndsAt = now.Add(d)
}

func finish(s *model.RoomState, now time.Time) {
	s.CurrentRoundIndex = len(s.Rounds)
	s.Lifecycle = model.LifecycleFinished
	s.Phase = model.PhaseFinal
	s.PhaseStartedAt = now
	s.PhaseEndsAt = now
}

// openListenRound gates submissions: listen phase, before the deadline,
// by an allowed player, with an active round.
func openListenRound(s *model.RoomState, playerID string, now time.Time) (*model.Round, error) {
	if s.Phase != model.PhaseListen || !now.Before(s.PhaseEndsAt) {
		return nil, ErrPhaseClosed
	}
	if !s.IsAllowed(playerID) {
		return nil, ErrNotAllowed
	}
	round := s.CurrentRound()
	if round == nil {
		return nil, ErrNoActiveRound
	}
	return round, nil
}
