package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"trackline/internal/game"
	"trackline/internal/model"
	"trackline/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authSvc *service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login handles POST /v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.authSvc.Login(req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeServiceError maps sentinel errors from the service and game
// layers onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrRoomNotFound),
		errors.Is(err, service.ErrPlaylistNotFound),
		errors.Is(err, game.ErrPlayerNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotRoomHost),
		errors.Is(err, game.ErrNotAllowed):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, game.ErrPhaseClosed),
		errors.Is(err, game.ErrNotInLobby),
		errors.Is(err, game.ErrAlreadyRunning),
		errors.Is(err, game.ErrNoActiveRound):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrEmptyPlaylist),
		errors.Is(err, service.ErrInvalidTrack),
		errors.Is(err, service.ErrUnknownKind),
		errors.Is(err, game.ErrNoRounds),
		errors.Is(err, game.ErrNoParticipants),
		errors.Is(err, game.ErrEmptyGuess),
		errors.Is(err, game.ErrInvalidInsertIndex):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
