package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"trackline/internal/service"
	"trackline/internal/transport/rest/middleware"
)

// RoomHandler handles room endpoints.
type RoomHandler struct {
	roomSvc    *service.RoomService
	catalogSvc *service.CatalogService
}

// NewRoomHandler creates a new room handler.
func NewRoomHandler(roomSvc *service.RoomService, catalogSvc *service.CatalogService) *RoomHandler {
	return &RoomHandler{roomSvc: roomSvc, catalogSvc: catalogSvc}
}

// CreateRoomRequest is the request body for creating a room.
type CreateRoomRequest struct {
	PlaylistID string `json:"playlistId"`
	RoundCount int    `json:"roundCount,omitempty"`
}

// Create handles POST /v1/rooms.
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	if hostID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PlaylistID == "" {
		writeError(w, http.StatusBadRequest, "playlistId is required")
		return
	}

	room, err := h.roomSvc.CreateRoom(r.Context(), hostID, req.PlaylistID, req.RoundCount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"roomCode":   room.Code,
		"roundCount": room.RoundCount,
	})
}

// JoinRequest is the request body for joining a room. PlayerID is set
// when a client reconnects with an identity it already holds.
type JoinRequest struct {
	PlayerID string `json:"playerId,omitempty"`
	Name     string `json:"name"`
	Color    string `json:"color,omitempty"`
}

// Join handles POST /v1/rooms/{code}/join.
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	var req JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	resp, err := h.roomSvc.Join(r.Context(), code, req.PlayerID, req.Name, req.Color)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /v1/rooms/{code}. Hosts receive playback fields and
// revealed answers; players get the redacted view.
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	snap, err := h.roomSvc.Snapshot(r.Context(), code, middleware.IsHost(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// Start handles POST /v1/rooms/{code}/start.
func (h *RoomHandler) Start(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	hostID := middleware.GetHostID(r.Context())

	if err := h.roomSvc.StartGame(r.Context(), code, hostID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "running"})
}

// GuessRequest is the request body for submitting a song/artist guess.
// Both ids come from the suggest endpoint; either may be empty.
type GuessRequest struct {
	TrackID  string `json:"trackId,omitempty"`
	ArtistID string `json:"artistId,omitempty"`
}

// Guess handles POST /v1/rooms/{code}/guess.
func (h *RoomHandler) Guess(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	playerID := middleware.GetPlayerID(r.Context())

	var req GuessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.roomSvc.SubmitGuess(r.Context(), code, playerID, req.TrackID, req.ArtistID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

// TimelineRequest is the request body for placing the current song on
// the timeline. The index is a float so malformed client values can be
// rejected rather than silently truncated by JSON decoding.
type TimelineRequest struct {
	InsertIndex float64 `json:"insertIndex"`
}

// Timeline handles POST /v1/rooms/{code}/timeline.
func (h *RoomHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	playerID := middleware.GetPlayerID(r.Context())

	var req TimelineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.roomSvc.SubmitTimeline(r.Context(), code, playerID, req.InsertIndex); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

// Heartbeat handles POST /v1/rooms/{code}/heartbeat.
func (h *RoomHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	playerID := middleware.GetPlayerID(r.Context())

	if err := h.roomSvc.Heartbeat(r.Context(), code, playerID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Kick handles DELETE /v1/rooms/{code}/players/{playerId}.
func (h *RoomHandler) Kick(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	hostID := middleware.GetHostID(r.Context())

	if err := h.roomSvc.RemovePlayer(r.Context(), vars["code"], hostID, vars["playerId"]); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// Result handles GET /v1/rooms/{code}/result.
func (h *RoomHandler) Result(w http.ResponseWriter, r *http.Request) {
	result, err := h.roomSvc.GameResult(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Leaderboard handles GET /v1/rooms/{code}/leaderboard.
func (h *RoomHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	top := 20
	if topStr := r.URL.Query().Get("top"); topStr != "" {
		if n, err := strconv.Atoi(topStr); err == nil && n > 0 {
			top = n
		}
	}

	rows, err := h.roomSvc.TopScores(r.Context(), code, top)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"leaderboard": rows})
}

// Suggest handles GET /v1/rooms/{code}/suggest?kind=&q=&limit=.
func (h *RoomHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	playlistID, err := h.roomSvc.PlaylistIDForRoom(code)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	kind := r.URL.Query().Get("kind")
	query := r.URL.Query().Get("q")
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil {
			limit = n
		}
	}

	results, err := h.catalogSvc.Suggest(r.Context(), playlistID, kind, query, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"suggestions": results})
}
