package game

import "time"

// Durations configures how long each timed phase lasts. Only the
// listen window is part of the scoring model; reveal and intermission
// just pace the game.
type Durations struct {
	Listen       time.Duration
	Reveal       time.Duration
	Intermission time.Duration
}

// DefaultDurations returns the standard phase timing.
func DefaultDurations() Durations {
	return Durations{
		Listen:       45 * time.Second,
		Reveal:       15 * time.Second,
		Intermission: 8 * time.Second,
	}
}

const (
	// CategoryPoints is awarded per correct track, artist or timeline
	// answer.
	CategoryPoints = 25

	// SpeedBonusMax decays by one point per SpeedDecayStep after the
	// listen phase starts.
	SpeedBonusMax  = 25
	SpeedDecayStep = 2 * time.Second
)

// Fixed reference years always present on the timeline board.
const (
	AnchorYearEarly = 1980
	AnchorYearLate  = 2000
)
