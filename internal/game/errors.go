package game

import "errors"

// Domain errors. Every rejected operation leaves the room state
// untouched; callers map these onto transport-level responses.
var (
	// Invalid transitions
	ErrNotInLobby     = errors.New("room is not in lobby")
	ErrAlreadyRunning = errors.New("game already running")
	ErrNoRounds       = errors.New("no rounds assigned")
	ErrNoParticipants = errors.New("no participants in room")
	ErrPhaseClosed    = errors.New("submissions are closed for the current phase")

	// Authorization
	ErrNotAllowed = errors.New("player is not in the allowed set")

	// Lookups
	ErrPlayerNotFound = errors.New("player not found")
	ErrNoActiveRound  = errors.New("no active round")

	// Validation
	ErrEmptyGuess         = errors.New("guess must name a track or an artist")
	ErrInvalidInsertIndex = errors.New("insert index is not a finite number")
)
