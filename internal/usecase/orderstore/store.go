// Package orderstore keeps the orders the trading system has routed
// through the adapter, indexed for broker-id correlation.
package orderstore

import (
	"sync"

	orderv1 "github.com/quantclip/fix-brokerage/internal/domain/order/v1"
)

// Store is an in-memory order registry. Broker ids accumulate on orders
// after insertion, so lookups walk the id chains rather than a
// write-time index.
type Store struct {
	mu     sync.RWMutex
	orders map[int64]*orderv1.Order
}

var _ orderv1.Provider = (*Store)(nil)

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{orders: make(map[int64]*orderv1.Order)}
}

// Add registers an order. An existing order with the same id is
// replaced.
func (s *Store) Add(order *orderv1.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = order
}

// GetByID returns the order with the given internal id.
func (s *Store) GetByID(id int64) (*orderv1.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.orders[id]
	return order, ok
}

// GetByBrokerID returns the order that was assigned the given ClOrdID
// on any of its outbound requests.
func (s *Store) GetByBrokerID(brokerID string) (*orderv1.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, order := range s.orders {
		for _, id := range order.BrokerIDs() {
			if id == brokerID {
				return order, true
			}
		}
	}
	return nil, false
}

// Remove drops an order from the registry.
func (s *Store) Remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.orders, id)
}
