package model

import "time"

// Lifecycle is the coarse room state stored alongside the phase.
type Lifecycle string

const (
	LifecycleLobby    Lifecycle = "lobby"
	LifecycleRunning  Lifecycle = "running"
	LifecycleFinished Lifecycle = "finished"
)

// Phase is one stage of a round's lifecycle.
type Phase string

const (
	PhaseLobby        Phase = "LOBBY"
	PhaseListen       Phase = "LISTEN"
	PhaseReveal       Phase = "REVEAL"
	PhaseIntermission Phase = "INTERMISSION"
	PhaseFinal        Phase = "FINAL"
)

// RoomState is the authoritative aggregate for one room. It is owned by
// the room service, guarded by a per-room mutex, and mutated only by
// the transition functions in internal/game.
type RoomState struct {
	RoomID              string                         `json:"roomId"`
	Lifecycle           Lifecycle                      `json:"lifecycle"`
	Phase               Phase                          `json:"phase"`
	PhaseStartedAt      time.Time                      `json:"phaseStartedAt"`
	PhaseEndsAt         time.Time                      `json:"phaseEndsAt"`
	CurrentRoundIndex   int                            `json:"currentRoundIndex"`
	Rounds              []Round                        `json:"rounds"`
	Participants        map[string]*Participant        `json:"participants"`
	AllowedPlayerIDs    []string                       `json:"allowedPlayerIds"`
	GuessSubmissions    map[string]*GuessSubmission    `json:"guessSubmissions"`
	TimelineSubmissions map[string]*TimelineSubmission `json:"timelineSubmissions"`
	RoundBreakdowns     map[string]*RoundBreakdown     `json:"roundBreakdowns"`
	TimelineRoundIDs    []string                       `json:"timelineRoundIds"`
	Scores              map[string]int                 `json:"scores"`
	CreatedAt           time.Time                      `json:"createdAt"`
}

// CurrentRound returns the active round, or nil outside round bounds
// (lobby, or after the last round).
func (s *RoomState) CurrentRound() *Round {
	if s.CurrentRoundIndex < 0 || s.CurrentRoundIndex >= len(s.Rounds) {
		return nil
	}
	return &s.Rounds[s.CurrentRoundIndex]
}

// IsAllowed reports whether the player id was frozen into the allowed
// set at game start.
func (s *RoomState) IsAllowed(playerID string) bool {
	for _, id := range s.AllowedPlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

// Room is the persistent record of a room kept in MongoDB. The live
// RoomState itself stays in memory; this record tracks lifecycle edges
// for history and reporting.
type Room struct {
	Code       string     `json:"code" bson:"code"`
	PlaylistID string     `json:"playlistId" bson:"playlistId"`
	HostID     string     `json:"hostId" bson:"hostId"`
	Lifecycle  Lifecycle  `json:"lifecycle" bson:"lifecycle"`
	RoundCount int        `json:"roundCount" bson:"roundCount"`
	CreatedAt  time.Time  `json:"createdAt" bson:"createdAt"`
	StartedAt  *time.Time `json:"startedAt,omitempty" bson:"startedAt,omitempty"`
	FinishedAt *time.Time `json:"finishedAt,omitempty" bson:"finishedAt,omitempty"`
}

// RoomMeta is the Redis-cached room header used by join and websocket
// auth paths. Its TTL doubles as the room expiry mechanism.
type RoomMeta struct {
	PlaylistID string    `json:"playlistId"`
	HostID     string    `json:"hostId"`
	Lifecycle  Lifecycle `json:"lifecycle"`
	CreatedAt  time.Time `json:"createdAt"`
}

// GameResult is the archived outcome of a finished game.
type GameResult struct {
	RoomCode   string                     `json:"roomCode" bson:"roomCode"`
	PlaylistID string                     `json:"playlistId" bson:"playlistId"`
	Scores     map[string]int             `json:"scores" bson:"scores"`
	Breakdowns map[string]*RoundBreakdown `json:"breakdowns" bson:"breakdowns"`
	Players    map[string]string          `json:"players" bson:"players"` // id -> name
	FinishedAt time.Time                  `json:"finishedAt" bson:"finishedAt"`
}
