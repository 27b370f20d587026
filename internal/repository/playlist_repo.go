package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"trackline/internal/model"
)

// PlaylistRepo handles MongoDB operations for track catalogs.
type PlaylistRepo interface {
	Create(ctx context.Context, playlist *model.Playlist) (string, error)
	GetByID(ctx context.Context, id string) (*model.Playlist, error)
	GetByHostID(ctx context.Context, hostID string) ([]*model.Playlist, error)
	Update(ctx context.Context, playlist *model.Playlist) error
	Delete(ctx context.Context, id string) error
}

type playlistRepo struct {
	collection *mongo.Collection
}

// NewPlaylistRepo creates a new playlist repository.
func NewPlaylistRepo(db *mongo.Database) PlaylistRepo {
	return &playlistRepo{
		collection: db.Collection("playlists"),
	}
}

func (r *playlistRepo) Create(ctx context.Context, playlist *model.Playlist) (string, error) {
	playlist.CreatedAt = time.Now()
	playlist.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, playlist)
	if err != nil {
		return "", err
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	return oid.Hex(), nil
}

func (r *playlistRepo) GetByID(ctx context.Context, id string) (*model.Playlist, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var playlist model.Playlist
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&playlist)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	playlist.ID = id
	return &playlist, nil
}

func (r *playlistRepo) GetByHostID(ctx context.Context, hostID string) ([]*model.Playlist, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"hostId": hostID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var playlists []*model.Playlist
	if err := cursor.All(ctx, &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

func (r *playlistRepo) Update(ctx context.Context, playlist *model.Playlist) error {
	oid, err := primitive.ObjectIDFromHex(playlist.ID)
	if err != nil {
		return err
	}

	playlist.UpdatedAt = time.Now()
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": playlistUpdate(playlist)})
	return err
}

// playlistUpdate builds the $set document for an update. The stored
// _id is an ObjectID while the model carries its hex string, so a full
// document replacement would be rejected as an immutable-field write;
// only the mutable fields go on the wire.
func playlistUpdate(playlist *model.Playlist) bson.M {
	return bson.M{
		"name":      playlist.Name,
		"tracks":    playlist.Tracks,
		"updatedAt": playlist.UpdatedAt,
	}
}

func (r *playlistRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
