package model

import "time"

// RoundView is the client-facing projection of the current round.
// Title, artist and year stay empty until the round has been revealed;
// the playback reference is only filled in for the host device.
type RoundView struct {
	ID         string `json:"id"`
	Index      int    `json:"index"`
	Title      string `json:"title,omitempty"`
	Artist     string `json:"artist,omitempty"`
	Year       int    `json:"year,omitempty"`
	SpotifyURI string `json:"spotifyUri,omitempty"`
	StartMs    int    `json:"startMs,omitempty"`
}

// Snapshot is the immutable room view sent to clients, both on the
// polling GET and over the websocket push channel.
type Snapshot struct {
	RoomID           string                     `json:"roomId"`
	Lifecycle        Lifecycle                  `json:"lifecycle"`
	Phase            Phase                      `json:"phase"`
	PhaseEndsAt      time.Time                  `json:"phaseEndsAt"`
	ServerTime       time.Time                  `json:"serverTime"`
	RoundTotal       int                        `json:"roundTotal"`
	Participants     []Participant              `json:"participants"`
	AllowedPlayerIDs []string                   `json:"allowedPlayerIds"`
	Scores           map[string]int             `json:"scores"`
	CurrentRound     *RoundView                 `json:"currentRound,omitempty"`
	RoundBreakdowns  map[string]*RoundBreakdown `json:"roundBreakdowns"`
	Timeline         []TimelineEntry            `json:"timeline"`
	SlotLabels       []string                   `json:"slotLabels"`
}
