package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"trackline/internal/model"
)

// ResultRepo archives finished games: final scores plus the full
// per-round breakdowns.
type ResultRepo interface {
	Save(ctx context.Context, result *model.GameResult) error
	GetByRoomCode(ctx context.Context, roomCode string) (*model.GameResult, error)
}

type resultRepo struct {
	collection *mongo.Collection
}

// NewResultRepo creates a new result repository.
func NewResultRepo(db *mongo.Database) ResultRepo {
	return &resultRepo{
		collection: db.Collection("game_results"),
	}
}

func (r *resultRepo) Save(ctx context.Context, result *model.GameResult) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"roomCode": result.RoomCode}, result, opts)
	return err
}

func (r *resultRepo) GetByRoomCode(ctx context.Context, roomCode string) (*model.GameResult, error) {
	var result model.GameResult
	err := r.collection.FindOne(ctx, bson.M{"roomCode": roomCode}).Decode(&result)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}
