// Package events publishes order lifecycle events for downstream consumers
// (seller notifications, analytics). Publishing is best effort: the checkout
// flow never blocks on it.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/danjocayabyab/Furnihive-sub000/internal/domain"
	"github.com/segmentio/kafka-go"
)

const orderPlacedTopic = "order-placed"

type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers ...string) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  orderPlacedTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w}
}

func (p *Publisher) OrderPlaced(ctx context.Context, o domain.Order) error {
	payload, err := orderPlacedPayload(o)
	if err != nil {
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(o.ID),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("write order-placed message: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func orderPlacedPayload(o domain.Order) ([]byte, error) {
	payload := map[string]interface{}{
		"order_id":     o.ID,
		"buyer_id":     o.BuyerID,
		"total_amount": o.TotalAmount,
		"item_count":   o.ItemCount,
		"status":       o.Status,
		"placed_at":    o.CreatedAt.UTC().Format(time.RFC3339),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal order-placed payload: %w", err)
	}
	return data, nil
}
