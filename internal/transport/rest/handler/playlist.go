package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"trackline/internal/model"
	"trackline/internal/service"
	"trackline/internal/transport/rest/middleware"
)

// PlaylistHandler handles playlist endpoints.
type PlaylistHandler struct {
	catalogSvc *service.CatalogService
}

// NewPlaylistHandler creates a new playlist handler.
func NewPlaylistHandler(catalogSvc *service.CatalogService) *PlaylistHandler {
	return &PlaylistHandler{catalogSvc: catalogSvc}
}

// PlaylistRequest is the request body for creating or updating a playlist.
type PlaylistRequest struct {
	Name   string        `json:"name"`
	Tracks []model.Track `json:"tracks"`
}

// Create handles POST /v1/playlists.
func (h *PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	if hostID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req PlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	playlist, err := h.catalogSvc.CreatePlaylist(r.Context(), hostID, req.Name, req.Tracks)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, playlist)
}

// List handles GET /v1/playlists.
func (h *PlaylistHandler) List(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	if hostID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	playlists, err := h.catalogSvc.ListPlaylists(r.Context(), hostID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"playlists": playlists})
}

// Get handles GET /v1/playlists/{playlistId}.
func (h *PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	playlist, err := h.catalogSvc.GetPlaylist(r.Context(), mux.Vars(r)["playlistId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, playlist)
}

// Update handles PUT /v1/playlists/{playlistId}.
func (h *PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	playlistID := mux.Vars(r)["playlistId"]

	var req PlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	playlist, err := h.catalogSvc.UpdatePlaylist(r.Context(), hostID, playlistID, req.Name, req.Tracks)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, playlist)
}

// Delete handles DELETE /v1/playlists/{playlistId}.
func (h *PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())

	if err := h.catalogSvc.DeletePlaylist(r.Context(), hostID, mux.Vars(r)["playlistId"]); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
