package model

import "time"

// GuessSubmission is a player's resolved answer for one round. A later
// submission for the same (player, round) key overwrites the earlier
// one while the listen window is open.
type GuessSubmission struct {
	PlayerID    string    `json:"playerId"`
	RoundID     string    `json:"roundId"`
	TrackID     string    `json:"trackId"`
	ArtistID    string    `json:"artistId"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// TimelineSubmission is a player's placement of the current round into
// the chronological board. Same overwrite semantics as guesses.
type TimelineSubmission struct {
	PlayerID    string    `json:"playerId"`
	RoundID     string    `json:"roundId"`
	InsertIndex int       `json:"insertIndex"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// SubmissionKey builds the composite map key for submission lookups.
func SubmissionKey(playerID, roundID string) string {
	return playerID + ":" + roundID
}
