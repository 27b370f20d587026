package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime settings, read from the environment with
// development defaults.
type Config struct {
	Port     string
	MongoURI string
	MongoDB  string
	RedisURI string

	// RoomTTL is how long room keys live in Redis after the last
	// write; it doubles as the expiry for abandoned rooms.
	RoomTTL time.Duration

	ListenSeconds       int
	RevealSeconds       int
	IntermissionSeconds int
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		Port:                getEnv("PORT", "8080"),
		MongoURI:            getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:             getEnv("MONGO_DB", "trackline"),
		RedisURI:            redisAddr(getEnv("REDIS_URI", "localhost:6379")),
		RoomTTL:             time.Duration(getEnvInt("ROOM_TTL_MINUTES", 240)) * time.Minute,
		ListenSeconds:       getEnvInt("LISTEN_SECONDS", 45),
		RevealSeconds:       getEnvInt("REVEAL_SECONDS", 15),
		IntermissionSeconds: getEnvInt("INTERMISSION_SECONDS", 8),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// redisAddr strips the redis:// scheme some platforms prepend.
func redisAddr(uri string) string {
	return strings.TrimPrefix(uri, "redis://")
}
