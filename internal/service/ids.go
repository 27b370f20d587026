package service

import "github.com/google/uuid"

// Short, prefixed ids in the style "p_1a2b3c4d". Full UUIDs are
// overkill for room-scoped identifiers and noisy in logs.
func randomSuffix() string {
	return uuid.New().String()[:8]
}

func newPlayerID() string { return "p_" + randomSuffix() }
func newTrackID() string  { return "tr_" + randomSuffix() }
func newArtistID() string { return "ar_" + randomSuffix() }
func newRoundID() string  { return "rd_" + randomSuffix() }
