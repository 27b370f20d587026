package model

// GuessFlags records which halves of a guess were correct.
type GuessFlags struct {
	Track  bool `json:"track"`
	Artist bool `json:"artist"`
}

// Points is the per-category point split for one player in one round.
type Points struct {
	Track    int `json:"track"`
	Artist   int `json:"artist"`
	Timeline int `json:"timeline"`
	Speed    int `json:"speed"`
	Total    int `json:"total"`
}

// PlayerBreakdown is the canonical scoring result for one player.
type PlayerBreakdown struct {
	GuessCorrect    GuessFlags `json:"guessCorrect"`
	TimelineCorrect bool       `json:"timelineCorrect"`
	Points          Points     `json:"points"`
}

// RoundBreakdown holds every allowed player's breakdown for a finished
// round. Produced exactly once at the LISTEN→REVEAL transition and
// immutable afterwards.
type RoundBreakdown struct {
	RoundID string                     `json:"roundId"`
	Players map[string]PlayerBreakdown `json:"players"`
}
