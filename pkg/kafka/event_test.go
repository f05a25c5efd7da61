package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	type payload struct {
		ShopID string `json:"shop_id"`
		Total  int64  `json:"total"`
	}

	event, err := NewEvent("pricing.cart_priced", "quote-1", "cart_quote", "pricing-service", payload{
		ShopID: "shop-1",
		Total:  4999,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "pricing.cart_priced", event.EventType)
	assert.Equal(t, "quote-1", event.AggregateID)
	assert.Equal(t, "cart_quote", event.AggregateType)
	assert.Equal(t, 1, event.Version)
	assert.False(t, event.Timestamp.IsZero())

	var decoded payload
	require.NoError(t, event.UnmarshalData(&decoded))
	assert.Equal(t, "shop-1", decoded.ShopID)
	assert.Equal(t, int64(4999), decoded.Total)
}

func TestEvent_MarshalRoundTrip(t *testing.T) {
	event, err := NewEvent("pricing.total_clamped", "quote-2", "cart_quote", "pricing-service", map[string]int64{"deficit": 250})
	require.NoError(t, err)
	event.WithCorrelationID("req-7")

	data, err := event.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"correlation_id":"req-7"`)
	assert.Contains(t, string(data), `"deficit":250`)
}
