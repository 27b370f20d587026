package service

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"trackline/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService issues and validates host and player tokens. The host is
// the device driving playback; players get room-scoped tokens at join.
type AuthService struct {
	hostUsername string
	hostPassword string
	jwtSecret    []byte
	hostID       string
	playerTTL    time.Duration
}

// NewAuthService creates an auth service from environment credentials.
func NewAuthService() *AuthService {
	username := os.Getenv("HOST_USERNAME")
	if username == "" {
		username = "host"
	}
	password := os.Getenv("HOST_PASSWORD")
	if password == "" {
		password = "changeme"
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-only-secret"
	}

	return &AuthService{
		hostUsername: username,
		hostPassword: password,
		jwtSecret:    []byte(secret),
		hostID:       "host_" + randomSuffix(),
		playerTTL:    24 * time.Hour,
	}
}

// Login validates credentials and returns a host token.
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	if username != s.hostUsername || password != s.hostPassword {
		return nil, ErrInvalidCredentials
	}

	claims := &model.HostClaims{
		HostID: s.hostID,
		Role:   model.RoleHost,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{Token: signed, HostID: s.hostID}, nil
}

// ValidateHostToken parses and checks a host token.
func (s *AuthService) ValidateHostToken(tokenString string) (*model.HostClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.HostClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.HostClaims)
	if !ok || !token.Valid || claims.Role != model.RoleHost {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IssuePlayerToken creates a room-scoped token for a player. Tokens
// outlive any realistic game but not the room's Redis expiry.
func (s *AuthService) IssuePlayerToken(roomCode, playerID string) (string, error) {
	claims := &model.PlayerClaims{
		RoomCode: roomCode,
		PlayerID: playerID,
		Role:     model.RolePlayer,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.playerTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidatePlayerToken parses and checks a player token.
func (s *AuthService) ValidatePlayerToken(tokenString string) (*model.PlayerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.PlayerClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.PlayerClaims)
	if !ok || !token.Valid || claims.Role != model.RolePlayer {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
