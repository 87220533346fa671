package mirror

import (
	"context"
	"fmt"

	"github.com/danjocayabyab/Furnihive-sub000/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoVoucherCatalog struct {
	collection *mongo.Collection
}

func NewMongoVoucherCatalog(db *mongo.Database) VoucherCatalog {
	return &mongoVoucherCatalog{
		collection: db.Collection("vouchers"),
	}
}

func (m *mongoVoucherCatalog) ListVouchers(ctx context.Context) ([]domain.Voucher, error) {
	cursor, err := m.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list vouchers: %w", err)
	}
	defer cursor.Close(ctx)

	var out []domain.Voucher
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode vouchers: %w", err)
	}

	return out, nil
}
