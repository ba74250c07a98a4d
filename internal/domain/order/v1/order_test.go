package orderv1

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_IsOpen(t *testing.T) {
	open := []Status{StatusNew, StatusSubmitted, StatusPartiallyFilled, StatusCancelPending, StatusUpdateSubmitted}
	for _, s := range open {
		assert.True(t, s.IsOpen(), string(s))
	}

	closed := []Status{StatusFilled, StatusCanceled, StatusInvalid, Status("unknown")}
	for _, s := range closed {
		assert.False(t, s.IsOpen(), string(s))
	}
}

func TestOrder_BrokerIDs(t *testing.T) {
	order := &Order{ID: 1}

	_, ok := order.PrimaryBrokerID()
	assert.False(t, ok)

	order.AddBrokerID("place-1")
	order.AddBrokerID("replace-1")

	id, ok := order.PrimaryBrokerID()
	require.True(t, ok)
	assert.Equal(t, "place-1", id)

	ids := order.BrokerIDs()
	assert.Equal(t, []string{"place-1", "replace-1"}, ids)

	// the returned slice is a copy
	ids[0] = "mutated"
	id, _ = order.PrimaryBrokerID()
	assert.Equal(t, "place-1", id)
}

func TestOrder_SignedQuantity(t *testing.T) {
	buy := &Order{Side: SideBuy, Quantity: decimal.NewFromInt(100)}
	assert.True(t, buy.SignedQuantity().Equal(decimal.NewFromInt(100)))

	sell := &Order{Side: SideSell, Quantity: decimal.NewFromInt(100)}
	assert.True(t, sell.SignedQuantity().Equal(decimal.NewFromInt(-100)))
}
