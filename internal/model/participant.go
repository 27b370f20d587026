package model

import "time"

// Participant is a player inside a room. The ID is issued once per
// browser session and stays stable across reconnects.
type Participant struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Color      string    `json:"color"`
	JoinedAt   time.Time `json:"joinedAt"`
	LastSeenAt time.Time `json:"lastSeenAt"`
}

// PlayerSession is the server-side record of an issued player identity.
// The client persists the matching id+token locally; this record lets
// the server recognize the session after a reload.
type PlayerSession struct {
	PlayerID string    `json:"playerId"`
	RoomCode string    `json:"roomCode"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
	IssuedAt time.Time `json:"issuedAt"`
}
