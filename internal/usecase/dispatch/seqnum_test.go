package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseExpectedSeqNum(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected int
		ok       bool
	}{
		{
			name:     "plain hint",
			text:     "MsgSeqNum too low, expected 128 but received 1",
			expected: 128,
			ok:       true,
		},
		{
			name:     "quoted hint",
			text:     "sequence number too low, expected '42'",
			expected: 42,
			ok:       true,
		},
		{
			name:     "case insensitive",
			text:     "Expected 7, got 3",
			expected: 7,
			ok:       true,
		},
		{
			name: "no hint",
			text: "logout requested by counterparty",
		},
		{
			name: "empty text",
			text: "",
		},
		{
			name: "zero is not usable",
			text: "expected 0",
		},
		{
			name: "word without number",
			text: "expected sequence number missing",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n, ok := ParseExpectedSeqNum(tc.text)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.expected, n)
			}
		})
	}
}
