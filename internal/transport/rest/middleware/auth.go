package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"trackline/internal/service"
)

type contextKey string

const (
	HostIDKey   contextKey = "hostId"
	PlayerIDKey contextKey = "playerId"
	RoomCodeKey contextKey = "roomCode"
	IsHostKey   contextKey = "isHost"
)

// AuthMiddleware provides JWT authentication middleware.
type AuthMiddleware struct {
	authSvc *service.AuthService
}

// NewAuthMiddleware creates a new auth middleware.
func NewAuthMiddleware(authSvc *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// RequireHost validates a host JWT from the Authorization header.
func (m *AuthMiddleware) RequireHost(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			http.Error(w, `{"error":"missing authorization"}`, http.StatusUnauthorized)
			return
		}

		claims, err := m.authSvc.ValidateHostToken(token)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), HostIDKey, claims.HostID)
		ctx = context.WithValue(ctx, IsHostKey, true)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePlayer validates a player JWT and checks it was issued for the
// room in the URL, so a token from one room cannot act in another.
func (m *AuthMiddleware) RequirePlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			http.Error(w, `{"error":"missing authorization"}`, http.StatusUnauthorized)
			return
		}

		claims, err := m.authSvc.ValidatePlayerToken(token)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}
		if code := mux.Vars(r)["code"]; code != "" && code != claims.RoomCode {
			http.Error(w, `{"error":"token not valid for this room"}`, http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), PlayerIDKey, claims.PlayerID)
		ctx = context.WithValue(ctx, RoomCodeKey, claims.RoomCode)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoomAccess accepts either a host token or a player token bound
// to the room in the URL. Read-only room endpoints use it.
func (m *AuthMiddleware) RequireRoomAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			http.Error(w, `{"error":"missing authorization"}`, http.StatusUnauthorized)
			return
		}

		if claims, err := m.authSvc.ValidateHostToken(token); err == nil {
			ctx := context.WithValue(r.Context(), HostIDKey, claims.HostID)
			ctx = context.WithValue(ctx, IsHostKey, true)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		claims, err := m.authSvc.ValidatePlayerToken(token)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}
		if code := mux.Vars(r)["code"]; code != "" && code != claims.RoomCode {
			http.Error(w, `{"error":"token not valid for this room"}`, http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), PlayerIDKey, claims.PlayerID)
		ctx = context.WithValue(ctx, RoomCodeKey, claims.RoomCode)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetHostID extracts the host ID from context.
func GetHostID(ctx context.Context) string {
	if v := ctx.Value(HostIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// GetPlayerID extracts the player ID from context.
func GetPlayerID(ctx context.Context) string {
	if v := ctx.Value(PlayerIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// GetRoomCode extracts the token's room code from context.
func GetRoomCode(ctx context.Context) string {
	if v := ctx.Value(RoomCodeKey); v != nil {
		return v.(string)
	}
	return ""
}

// IsHost reports whether the request carried a host token.
func IsHost(ctx context.Context) bool {
	if v := ctx.Value(IsHostKey); v != nil {
		return v.(bool)
	}
	return false
}

// extractToken reads a bearer token, falling back to the token query
// param used by websocket upgrades.
func extractToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth != "" {
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}
	return r.URL.Query().Get("token")
}
