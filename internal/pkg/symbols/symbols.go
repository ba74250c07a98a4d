// Package symbols resolves instrument identity and routing destination
// for outbound order requests.
package symbols

import (
	"sync"

	orderv1 "github.com/quantclip/fix-brokerage/internal/domain/order/v1"
)

// Mapper resolves the execution destination for orders. An explicit venue
// on the order wins, then the instrument's primary listing venue, then
// the configured default destination.
type Mapper struct {
	mu              sync.RWMutex
	listings        map[string]string
	defaultExchange string
}

// NewMapper creates a Mapper with the given fallback destination.
func NewMapper(defaultExchange string) *Mapper {
	return &Mapper{
		listings:        make(map[string]string),
		defaultExchange: defaultExchange,
	}
}

// SetPrimaryVenue records the primary listing venue for an instrument.
func (m *Mapper) SetPrimaryVenue(isin, venue string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listings[isin] = venue
}

// Destination returns the venue code to stamp on the outbound request.
func (m *Mapper) Destination(order *orderv1.Order) string {
	if order.Exchange != "" {
		return order.Exchange
	}
	m.mu.RLock()
	venue, ok := m.listings[order.ISIN]
	m.mu.RUnlock()
	if ok {
		return venue
	}
	return m.defaultExchange
}

// ValidISIN reports whether the given string is a well-formed ISIN:
// two letter country code, nine alphanumeric characters, and a valid
// check digit.
func ValidISIN(isin string) bool {
	if len(isin) != 12 {
		return false
	}
	if !isLetter(isin[0]) || !isLetter(isin[1]) {
		return false
	}
	for i := 2; i < 11; i++ {
		if !isLetter(isin[i]) && !isDigit(isin[i]) {
			return false
		}
	}
	if !isDigit(isin[11]) {
		return false
	}
	return checkDigit(isin[:11]) == int(isin[11]-'0')
}

func isLetter(c byte) bool { return c >= 'A' && c <= 'Z' }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }

// checkDigit computes the Luhn check digit over the digit expansion of
// the first eleven characters (letters expand to 10..35).
func checkDigit(body string) int {
	var digits []int
	for i := 0; i < len(body); i++ {
		c := body[i]
		if isDigit(c) {
			digits = append(digits, int(c-'0'))
		} else {
			v := int(c-'A') + 10
			digits = append(digits, v/10, v%10)
		}
	}

	sum := 0
	double := true
	for i := len(digits) - 1; i >= 0; i-- {
		d := digits[i]
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return (10 - sum%10) % 10
}
