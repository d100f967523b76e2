package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fjod/go_food/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoFoodRepository struct {
	collection *mongo.Collection
}

func NewMongoFoodRepository(db *mongo.Database) FoodRepository {
	return &mongoFoodRepository{collection: db.Collection("foods")}
}

// ListFoods returns the catalog sorted by name, optionally narrowed to one category.
func (m *mongoFoodRepository) ListFoods(ctx context.Context, category string) ([]*domain.Food, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}

	cursor, err := m.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list foods: %w", err)
	}
	defer cursor.Close(ctx)

	foods := make([]*domain.Food, 0)
	if err := cursor.All(ctx, &foods); err != nil {
		return nil, fmt.Errorf("failed to decode foods: %w", err)
	}
	return foods, nil
}

func (m *mongoFoodRepository) GetFood(ctx context.Context, id string) (*domain.Food, error) {
	var food domain.Food
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&food)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrFoodNotFound
		}
		return nil, fmt.Errorf("failed to get food: %w", err)
	}
	return &food, nil
}

func (m *mongoFoodRepository) CreateFood(ctx context.Context, food *domain.Food) error {
	if _, err := m.collection.InsertOne(ctx, food); err != nil {
		return fmt.Errorf("failed to create food: %w", err)
	}
	return nil
}

func (m *mongoFoodRepository) UpdateFood(ctx context.Context, food *domain.Food) error {
	update := bson.M{
		"$set": bson.M{
			"name":        food.Name,
			"description": food.Description,
			"price":       food.Price,
			"image_url":   food.ImageURL,
			"category":    food.Category,
		},
	}
	result, err := m.collection.UpdateOne(ctx, bson.M{"_id": food.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update food: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrFoodNotFound
	}
	return nil
}

func (m *mongoFoodRepository) DeleteFood(ctx context.Context, id string) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete food: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrFoodNotFound
	}
	return nil
}

func (m *mongoFoodRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}}},
	}
	if _, err := m.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create food indexes: %w", err)
	}
	return nil
}
