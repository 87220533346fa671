package mirror

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danjocayabyab/Furnihive-sub000/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoCartMirror struct {
	collection *mongo.Collection
}

func NewMongoCartMirror(db *mongo.Database) CartMirror {
	return &mongoCartMirror{
		collection: db.Collection("carts"),
	}
}

func (m *mongoCartMirror) ListCartLines(ctx context.Context, ownerKey string) ([]domain.CartItem, error) {
	var cart domain.Cart

	filter := bson.M{"owner_key": ownerKey}
	err := m.collection.FindOne(ctx, filter).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return cart.Items, nil
}

func (m *mongoCartMirror) UpsertCartLine(ctx context.Context, ownerKey string, item domain.CartItem) error {
	now := time.Now()
	if item.AddedAt.IsZero() {
		item.AddedAt = now
	}

	filter := bson.M{"owner_key": ownerKey}

	var existing domain.Cart
	err := m.collection.FindOne(ctx, filter).Decode(&existing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			cart := &domain.Cart{
				OwnerKey:  ownerKey,
				Items:     []domain.CartItem{item},
				CreatedAt: now,
				UpdatedAt: now,
			}
			if _, err = m.collection.InsertOne(ctx, cart); err != nil {
				return fmt.Errorf("failed to create cart with line: %w", err)
			}
			return nil
		}
		return fmt.Errorf("failed to check existing cart: %w", err)
	}

	lineExists := false
	for _, line := range existing.Items {
		if line.ProductID == item.ProductID {
			lineExists = true
			break
		}
	}

	if lineExists {
		update := bson.M{
			"$set": bson.M{
				"items.$[elem]": item,
				"updated_at":    now,
			},
		}
		arrayFilters := options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{
				bson.M{"elem.product_id": item.ProductID},
			},
		})
		if _, err = m.collection.UpdateOne(ctx, filter, update, arrayFilters); err != nil {
			return fmt.Errorf("failed to update existing line: %w", err)
		}
	} else {
		update := bson.M{
			"$push": bson.M{"items": item},
			"$set":  bson.M{"updated_at": now},
		}
		if _, err = m.collection.UpdateOne(ctx, filter, update); err != nil {
			return fmt.Errorf("failed to add new line: %w", err)
		}
	}

	return nil
}

func (m *mongoCartMirror) DeleteCartLine(ctx context.Context, ownerKey string, productID string) error {
	filter := bson.M{"owner_key": ownerKey}
	update := bson.M{
		"$pull": bson.M{
			"items": bson.M{"product_id": productID},
		},
		"$set": bson.M{"updated_at": time.Now()},
	}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to remove line: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrCartNotFound
	}

	return nil
}

func (m *mongoCartMirror) DeleteCart(ctx context.Context, ownerKey string) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"owner_key": ownerKey})
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrCartNotFound
	}

	return nil
}

// EnsureIndexes creates the indexes the mirror collections rely on. Called
// once at startup; CreateMany is idempotent for existing indexes.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	cartIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner_key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(90 * 24 * 60 * 60), // 90 days TTL
		},
	}
	if _, err := db.Collection("carts").Indexes().CreateMany(ctx, cartIndexes); err != nil {
		return fmt.Errorf("failed to create cart indexes: %w", err)
	}

	addressIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "buyer_id", Value: 1}, {Key: "deleted", Value: 1}},
		},
	}
	if _, err := db.Collection("saved_addresses").Indexes().CreateMany(ctx, addressIndexes); err != nil {
		return fmt.Errorf("failed to create address indexes: %w", err)
	}

	return nil
}
