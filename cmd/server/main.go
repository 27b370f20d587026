package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"trackline/internal/cache"
	"trackline/internal/config"
	"trackline/internal/game"
	"trackline/internal/repository"
	"trackline/internal/service"
	"trackline/internal/transport/rest"
	"trackline/internal/transport/ws"
)

func main() {
	log.Println("started")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisURI,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories
	playlistRepo := repository.NewPlaylistRepo(db)
	roomRepo := repository.NewRoomRepo(db)
	resultRepo := repository.NewResultRepo(db)

	// Initialize caches
	roomCache := cache.NewRoomCache(rdb, cfg.RoomTTL)
	presenceCache := cache.NewPresenceCache(rdb, cfg.RoomTTL)
	leaderboard := cache.NewLeaderboardCache(rdb, cfg.RoomTTL)
	sessionCache := cache.NewSessionCache(rdb, cfg.RoomTTL)

	// Initialize services
	authSvc := service.NewAuthService()
	catalogSvc := service.NewCatalogService(playlistRepo)
	roomSvc := service.NewRoomService(catalogSvc, roomRepo, resultRepo, roomCache, presenceCache, leaderboard, sessionCache, authSvc)
	roomSvc.SetBroadcaster(wsHub)
	roomSvc.SetDurations(game.Durations{
		Listen:       time.Duration(cfg.ListenSeconds) * time.Second,
		Reveal:       time.Duration(cfg.RevealSeconds) * time.Second,
		Intermission: time.Duration(cfg.IntermissionSeconds) * time.Second,
	})

	// Drive phase transitions even when no client is polling
	go roomSvc.Run(ctx)

	// Create router with container
	container := &rest.Container{
		AuthService:    authSvc,
		CatalogService: catalogSvc,
		RoomService:    roomSvc,
		WSHub:          wsHub,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST/GET /v1/playlists")
		log.Println("  POST /v1/rooms")
		log.Println("  POST /v1/rooms/{code}/join")
		log.Println("  POST /v1/rooms/{code}/guess")
		log.Println("  POST /v1/rooms/{code}/timeline")
		log.Println("  GET  /v1/rooms/{code}/suggest")
		log.Println("  GET  /v1/rooms/{code}/leaderboard")
		log.Println("  WS  /v1/ws/rooms/{code}/host")
		log.Println("  WS  /v1/ws/rooms/{code}/player")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
