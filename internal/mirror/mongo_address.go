package mirror

import (
	"context"
	"fmt"
	"time"

	"github.com/danjocayabyab/Furnihive-sub000/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoAddressBook struct {
	collection *mongo.Collection
}

func NewMongoAddressBook(db *mongo.Database) AddressBook {
	return &mongoAddressBook{
		collection: db.Collection("saved_addresses"),
	}
}

func (m *mongoAddressBook) List(ctx context.Context, buyerID string) ([]domain.SavedAddress, error) {
	filter := bson.M{"buyer_id": buyerID, "deleted": false}
	opts := options.Find().SetSort(bson.D{
		{Key: "is_default", Value: -1},
		{Key: "created_at", Value: 1},
	})

	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer cursor.Close(ctx)

	var out []domain.SavedAddress
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode addresses: %w", err)
	}

	return out, nil
}

func (m *mongoAddressBook) Create(ctx context.Context, addr domain.SavedAddress) error {
	now := time.Now()
	addr.CreatedAt = now
	addr.UpdatedAt = now
	addr.Deleted = false

	// the buyer's first live address becomes the default
	count, err := m.collection.CountDocuments(ctx, bson.M{"buyer_id": addr.BuyerID, "deleted": false})
	if err != nil {
		return fmt.Errorf("failed to count addresses: %w", err)
	}
	if count == 0 {
		addr.IsDefault = true
	}

	if _, err := m.collection.InsertOne(ctx, addr); err != nil {
		return fmt.Errorf("failed to create address: %w", err)
	}

	return nil
}

func (m *mongoAddressBook) Rename(ctx context.Context, buyerID, addressID, label string) error {
	filter := bson.M{"_id": addressID, "buyer_id": buyerID, "deleted": false}
	update := bson.M{"$set": bson.M{"label": label, "updated_at": time.Now()}}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to rename address: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrAddressNotFound
	}

	return nil
}

func (m *mongoAddressBook) SoftDelete(ctx context.Context, buyerID, addressID string) error {
	filter := bson.M{"_id": addressID, "buyer_id": buyerID, "deleted": false}
	update := bson.M{"$set": bson.M{"deleted": true, "is_default": false, "updated_at": time.Now()}}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrAddressNotFound
	}

	return nil
}

func (m *mongoAddressBook) SetDefault(ctx context.Context, buyerID, addressID string) error {
	// clear any current default first so at most one row carries the flag
	clear := bson.M{"$set": bson.M{"is_default": false, "updated_at": time.Now()}}
	if _, err := m.collection.UpdateMany(ctx, bson.M{"buyer_id": buyerID, "is_default": true}, clear); err != nil {
		return fmt.Errorf("failed to clear default address: %w", err)
	}

	filter := bson.M{"_id": addressID, "buyer_id": buyerID, "deleted": false}
	update := bson.M{"$set": bson.M{"is_default": true, "updated_at": time.Now()}}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to set default address: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrAddressNotFound
	}

	return nil
}
