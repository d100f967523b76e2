package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fjod/go_food/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoFavoriteRepository struct {
	collection *mongo.Collection
}

func NewMongoFavoriteRepository(db *mongo.Database) FavoriteRepository {
	return &mongoFavoriteRepository{collection: db.Collection("favorites")}
}

// AddFavorite is idempotent: marking the same food twice keeps the first timestamp.
func (m *mongoFavoriteRepository) AddFavorite(ctx context.Context, userID, foodID string) error {
	filter := bson.M{"user_id": userID, "food_id": foodID}
	update := bson.M{"$setOnInsert": bson.M{"created_at": time.Now()}}

	_, err := m.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (m *mongoFavoriteRepository) RemoveFavorite(ctx context.Context, userID, foodID string) error {
	if _, err := m.collection.DeleteOne(ctx, bson.M{"user_id": userID, "food_id": foodID}); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

func (m *mongoFavoriteRepository) ListFavorites(ctx context.Context, userID string) ([]*domain.Favorite, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := m.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer cursor.Close(ctx)

	favorites := make([]*domain.Favorite, 0)
	if err := cursor.All(ctx, &favorites); err != nil {
		return nil, fmt.Errorf("failed to decode favorites: %w", err)
	}
	return favorites, nil
}

func (m *mongoFavoriteRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "food_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := m.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create favorite indexes: %w", err)
	}
	return nil
}
