package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"trackline/internal/model"
)

// Seeds a demo playlist so a fresh stack has something to host a game
// with. Safe to run repeatedly; each run inserts a new playlist.
func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "trackline"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	coll := client.Database(dbName).Collection("playlists")

	hostID := os.Getenv("HOST_ID")
	if hostID == "" {
		hostID = "host_demo"
	}

	now := time.Now()
	playlist := model.Playlist{
		HostID:    hostID,
		Name:      "Decades Mix",
		CreatedAt: now,
		UpdatedAt: now,
		Tracks: []model.Track{
			{ID: "tr_seed01", Title: "Bohemian Rhapsody", ArtistID: "ar_queen", Artist: "Queen", Year: 1975, SpotifyURI: "spotify:track:7tFiyTwD0nx5a1eklYtX2J", StartMs: 45000},
			{ID: "tr_seed02", Title: "Billie Jean", ArtistID: "ar_mjackson", Artist: "Michael Jackson", Year: 1983, SpotifyURI: "spotify:track:5ChkMS8OtdzJeqyybCc9R5", StartMs: 30000},
			{ID: "tr_seed03", Title: "Like a Prayer", ArtistID: "ar_madonna", Artist: "Madonna", Year: 1989, SpotifyURI: "spotify:track:1z3ugFmUKoCzGsI6jdY4Ci", StartMs: 25000},
			{ID: "tr_seed04", Title: "Smells Like Teen Spirit", ArtistID: "ar_nirvana", Artist: "Nirvana", Year: 1991, SpotifyURI: "spotify:track:5ghIJDpPoe3CfHMGu71E6T", StartMs: 20000},
			{ID: "tr_seed05", Title: "Wonderwall", ArtistID: "ar_oasis", Artist: "Oasis", Year: 1995, SpotifyURI: "spotify:track:1qPbGZqppFwLwcBC1JQ6Vr", StartMs: 15000},
			{ID: "tr_seed06", Title: "Crazy in Love", ArtistID: "ar_beyonce", Artist: "Beyoncé", Year: 2003, SpotifyURI: "spotify:track:5IVuqXILoxVWvWEPm82Jxr", StartMs: 18000},
			{ID: "tr_seed07", Title: "Rolling in the Deep", ArtistID: "ar_adele", Artist: "Adele", Year: 2010, SpotifyURI: "spotify:track:1c8gk2PeTE04A1pIDH9YMk", StartMs: 22000},
			{ID: "tr_seed08", Title: "Blinding Lights", ArtistID: "ar_weeknd", Artist: "The Weeknd", Year: 2019, SpotifyURI: "spotify:track:0VjIjW4GlUZAMYd2vXMi3b", StartMs: 28000},
		},
	}

	result, err := coll.InsertOne(ctx, playlist)
	if err != nil {
		log.Fatalf("Failed to insert playlist: %v", err)
	}

	fmt.Printf("Seeded playlist %q with %d tracks\n", playlist.Name, len(playlist.Tracks))
	fmt.Printf("Playlist ID: %v\n", result.InsertedID)
	fmt.Printf("Host ID: %s\n", hostID)
}
