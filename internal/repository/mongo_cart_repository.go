package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_food/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoCartRepository struct {
	collection *mongo.Collection
}

func NewMongoCartRepository(db *mongo.Database) CartRepository {
	return &mongoCartRepository{
		collection: db.Collection("carts"),
	}
}

func (m *mongoCartRepository) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart domain.Cart

	err := m.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return &cart, nil
}

// upsertAttempts bounds retries when a concurrent first write races the unique user_id index.
const upsertAttempts = 3

// UpsertLine replaces the line for line.FoodID or appends it, creating the cart if needed.
// Each step is a single atomic update, so concurrent calls never leave two lines for one food.
func (m *mongoCartRepository) UpsertLine(ctx context.Context, userID string, line domain.CartLine) error {
	var err error
	for attempt := 0; attempt < upsertAttempts; attempt++ {
		var replaced bool
		replaced, err = m.replaceLine(ctx, userID, line)
		if err != nil {
			return err
		}
		if replaced {
			return nil
		}

		err = m.appendLine(ctx, userID, line)
		if err == nil {
			return nil
		}
		// either the line appeared since replaceLine or another request created the cart
		if !mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("failed to add cart item: %w", err)
		}
	}
	return fmt.Errorf("failed to add cart item after %d attempts: %w", upsertAttempts, err)
}

func (m *mongoCartRepository) replaceLine(ctx context.Context, userID string, line domain.CartLine) (bool, error) {
	filter := bson.M{"user_id": userID, "items.food_id": line.FoodID}
	update := bson.M{
		"$set": bson.M{
			"items.$[elem]": line,
			"updated_at":    time.Now(),
		},
		"$inc": bson.M{"revision": 1},
	}
	arrayFilters := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"elem.food_id": line.FoodID}},
	})

	result, err := m.collection.UpdateOne(ctx, filter, update, arrayFilters)
	if err != nil {
		return false, fmt.Errorf("failed to replace cart item: %w", err)
	}
	return result.MatchedCount > 0, nil
}

// appendLine pushes the line onto a cart that does not hold the food yet. When no such
// cart exists the upsert inserts one, which fails on the unique user_id index if the
// cart is there but already holds the food.
func (m *mongoCartRepository) appendLine(ctx context.Context, userID string, line domain.CartLine) error {
	filter := bson.M{
		"user_id":       userID,
		"items.food_id": bson.M{"$ne": line.FoodID},
	}
	update := bson.M{
		"$push": bson.M{"items": line},
		"$set":  bson.M{"updated_at": time.Now()},
		"$inc":  bson.M{"revision": 1},
	}
	_, err := m.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (m *mongoCartRepository) UpdateLineQuantity(ctx context.Context, userID, foodID string, quantity int) error {
	filter := bson.M{
		"user_id":       userID,
		"items.food_id": foodID,
	}
	update := bson.M{
		"$set": bson.M{
			"items.$[elem].quantity": quantity,
			"updated_at":             time.Now(),
		},
	}
	arrayFilters := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"elem.food_id": foodID}},
	})

	result, err := m.collection.UpdateOne(ctx, filter, update, arrayFilters)
	if err != nil {
		return fmt.Errorf("failed to update item quantity: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (m *mongoCartRepository) RemoveLine(ctx context.Context, userID, foodID string) error {
	filter := bson.M{"user_id": userID, "items.food_id": foodID}
	update := bson.M{
		"$pull": bson.M{"items": bson.M{"food_id": foodID}},
		"$set":  bson.M{"updated_at": time.Now()},
		"$inc":  bson.M{"revision": 1},
	}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to remove item: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrItemNotFound
	}
	return nil
}

// DeleteCart drops every line of the cart in one write.
func (m *mongoCartRepository) DeleteCart(ctx context.Context, userID string) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrCartNotFound
	}
	return nil
}

func (m *mongoCartRepository) DeleteCartAtRevision(ctx context.Context, userID string, revision int64) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"user_id": userID, "revision": revision})
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrCartChanged
	}
	return nil
}

func (m *mongoCartRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(90 * 24 * 60 * 60), // 90 days TTL
		},
	}

	if _, err := m.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create cart indexes: %w", err)
	}
	return nil
}
