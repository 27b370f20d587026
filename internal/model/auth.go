package model

import "github.com/golang-jwt/jwt/v5"

// Token roles keep host and player tokens from standing in for each
// other even though they are signed with the same secret.
const (
	RoleHost   = "host"
	RolePlayer = "player"
)

// HostClaims identify the host device that drives playback and phase
// control for its rooms.
type HostClaims struct {
	HostID string `json:"hostId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// PlayerClaims are room-scoped: a player token is only good for the
// room it was issued in.
type PlayerClaims struct {
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for host login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the host token.
type LoginResponse struct {
	Token  string `json:"token"`
	HostID string `json:"hostId"`
}

// JoinResponse is returned when a player joins a room. The player id
// and token are persisted client-side so the session survives reloads.
type JoinResponse struct {
	PlayerID string `json:"playerId"`
	Token    string `json:"token"`
	RoomCode string `json:"roomCode"`
}
