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

// userDocument keeps the profile and the saved shipping address of one user together.
type userDocument struct {
	UserID          string                  `bson:"_id"`
	Profile         *domain.UserProfile     `bson:"profile,omitempty"`
	ShippingAddress *domain.ShippingAddress `bson:"shipping_address,omitempty"`
}

type mongoProfileRepository struct {
	collection *mongo.Collection
}

func NewMongoProfileRepository(db *mongo.Database) ProfileRepository {
	return &mongoProfileRepository{collection: db.Collection("users")}
}

func (m *mongoProfileRepository) findUser(ctx context.Context, userID string) (*userDocument, error) {
	var doc userDocument
	err := m.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &doc, nil
}

func (m *mongoProfileRepository) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	doc, err := m.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if doc == nil || doc.Profile == nil {
		return nil, ErrProfileNotFound
	}
	doc.Profile.UserID = userID
	return doc.Profile, nil
}

func (m *mongoProfileRepository) SaveProfile(ctx context.Context, profile *domain.UserProfile) error {
	update := bson.M{"$set": bson.M{"profile": profile}}
	_, err := m.collection.UpdateOne(ctx, bson.M{"_id": profile.UserID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func (m *mongoProfileRepository) GetShippingAddress(ctx context.Context, userID string) (*domain.ShippingAddress, error) {
	doc, err := m.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if doc == nil || doc.ShippingAddress == nil {
		return nil, ErrAddressNotFound
	}
	return doc.ShippingAddress, nil
}

func (m *mongoProfileRepository) SaveShippingAddress(ctx context.Context, userID string, addr domain.ShippingAddress) error {
	update := bson.M{"$set": bson.M{"shipping_address": addr}}
	_, err := m.collection.UpdateOne(ctx, bson.M{"_id": userID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save shipping address: %w", err)
	}
	return nil
}
