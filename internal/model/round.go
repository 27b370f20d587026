package model

import "time"

// Track is a playable catalog entry inside a playlist.
type Track struct {
	ID         string `json:"id" bson:"id"`
	Title      string `json:"title" bson:"title"`
	ArtistID   string `json:"artistId" bson:"artistId"`
	Artist     string `json:"artist" bson:"artist"`
	Year       int    `json:"year" bson:"year"`
	SpotifyURI string `json:"spotifyUri" bson:"spotifyUri"`
	StartMs    int    `json:"startMs" bson:"startMs"`
}

// Playlist is a persistent track catalog created by a host.
type Playlist struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	HostID    string    `json:"hostId" bson:"hostId"`
	Name      string    `json:"name" bson:"name"`
	Tracks    []Track   `json:"tracks" bson:"tracks"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Round is one song to be guessed. Rounds are built from playlist
// tracks when a room is created and never mutated afterwards.
type Round struct {
	ID         string `json:"id" bson:"id"`
	TrackID    string `json:"trackId" bson:"trackId"`
	ArtistID   string `json:"artistId" bson:"artistId"`
	Title      string `json:"title" bson:"title"`
	Artist     string `json:"artist" bson:"artist"`
	Year       int    `json:"year" bson:"year"`
	SpotifyURI string `json:"spotifyUri" bson:"spotifyUri"`
	StartMs    int    `json:"startMs" bson:"startMs"`
}
