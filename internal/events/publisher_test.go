package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/danjocayabyab/Furnihive-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderPlacedPayload(t *testing.T) {
	placed := time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)
	o := domain.Order{
		ID:          "order-1",
		BuyerID:     "buyer-1",
		TotalAmount: 54450,
		ItemCount:   3,
		Status:      domain.OrderPending,
		CreatedAt:   placed,
	}

	data, err := orderPlacedPayload(o)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "order-1", got["order_id"])
	assert.Equal(t, "buyer-1", got["buyer_id"])
	assert.Equal(t, float64(54450), got["total_amount"])
	assert.Equal(t, "PENDING", got["status"])
	assert.Equal(t, "2025-06-15T09:30:00Z", got["placed_at"])
}
