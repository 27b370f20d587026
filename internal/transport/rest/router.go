package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"trackline/internal/service"
	"trackline/internal/transport/rest/handler"
	"trackline/internal/transport/rest/middleware"
	"trackline/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService    *service.AuthService
	CatalogService *service.CatalogService
	RoomService    *service.RoomService
	WSHub          *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	playlistHandler := handler.NewPlaylistHandler(c.CatalogService)
	roomHandler := handler.NewRoomHandler(c.RoomService, c.CatalogService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.RoomService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/rooms/{code}/join", roomHandler.Join).Methods("POST", "OPTIONS")

	// WebSocket routes (token in query param)
	v1.HandleFunc("/ws/rooms/{code}/host", wsHandler.HostWS).Methods("GET")
	v1.HandleFunc("/ws/rooms/{code}/player", wsHandler.PlayerWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Host routes (require host auth)
	hostRoutes := v1.NewRoute().Subrouter()
	hostRoutes.Use(authMW.RequireHost)

	hostRoutes.HandleFunc("/playlists", playlistHandler.Create).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/playlists", playlistHandler.List).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/playlists/{playlistId}", playlistHandler.Get).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/playlists/{playlistId}", playlistHandler.Update).Methods("PUT", "OPTIONS")
	hostRoutes.HandleFunc("/playlists/{playlistId}", playlistHandler.Delete).Methods("DELETE", "OPTIONS")
	hostRoutes.HandleFunc("/rooms", roomHandler.Create).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/rooms/{code}/start", roomHandler.Start).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/rooms/{code}/players/{playerId}", roomHandler.Kick).Methods("DELETE", "OPTIONS")
	hostRoutes.HandleFunc("/rooms/{code}/result", roomHandler.Result).Methods("GET", "OPTIONS")

	// Player routes (require player auth, token bound to the room)
	playerRoutes := v1.NewRoute().Subrouter()
	playerRoutes.Use(authMW.RequirePlayer)

	playerRoutes.HandleFunc("/rooms/{code}/guess", roomHandler.Guess).Methods("POST", "OPTIONS")
	playerRoutes.HandleFunc("/rooms/{code}/timeline", roomHandler.Timeline).Methods("POST", "OPTIONS")
	playerRoutes.HandleFunc("/rooms/{code}/heartbeat", roomHandler.Heartbeat).Methods("POST", "OPTIONS")

	// Shared room routes (host or room-bound player)
	roomRoutes := v1.NewRoute().Subrouter()
	roomRoutes.Use(authMW.RequireRoomAccess)

	roomRoutes.HandleFunc("/rooms/{code}", roomHandler.Get).Methods("GET", "OPTIONS")
	roomRoutes.HandleFunc("/rooms/{code}/leaderboard", roomHandler.Leaderboard).Methods("GET", "OPTIONS")
	roomRoutes.HandleFunc("/rooms/{code}/suggest", roomHandler.Suggest).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
