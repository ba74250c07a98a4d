package orderstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderv1 "github.com/quantclip/fix-brokerage/internal/domain/order/v1"
)

func TestStore_GetByBrokerID(t *testing.T) {
	s := NewStore()

	order := &orderv1.Order{ID: 1}
	s.Add(order)

	// broker ids arrive after insertion, one per outbound request
	order.AddBrokerID("place-1")
	order.AddBrokerID("replace-1")

	found, ok := s.GetByBrokerID("place-1")
	require.True(t, ok)
	assert.Equal(t, int64(1), found.ID)

	found, ok = s.GetByBrokerID("replace-1")
	require.True(t, ok)
	assert.Equal(t, int64(1), found.ID)

	_, ok = s.GetByBrokerID("unknown")
	assert.False(t, ok)
}

func TestStore_GetByID(t *testing.T) {
	s := NewStore()
	s.Add(&orderv1.Order{ID: 1})

	_, ok := s.GetByID(1)
	assert.True(t, ok)

	_, ok = s.GetByID(2)
	assert.False(t, ok)
}

func TestStore_Remove(t *testing.T) {
	s := NewStore()
	order := &orderv1.Order{ID: 1}
	s.Add(order)
	order.AddBrokerID("place-1")

	s.Remove(1)

	_, ok := s.GetByID(1)
	assert.False(t, ok)
	_, ok = s.GetByBrokerID("place-1")
	assert.False(t, ok)
}
