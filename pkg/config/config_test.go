package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "fix-brokerage", cfg.App.Name)
	assert.Equal(t, "127.0.0.1", cfg.FIX.Host)
	assert.Equal(t, 5080, cfg.FIX.Port)
	assert.Equal(t, 30, cfg.FIX.HeartbeatInterval)
	assert.Equal(t, 60, cfg.FIX.ConnectTimeout)
	assert.Equal(t, 15, cfg.FIX.MaxSenderSuffix)
	assert.Equal(t, "SMART", cfg.FIX.DefaultExchange)
	assert.False(t, cfg.EventKafka.Enabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.EventKafka.Brokers)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("FIX_HOST", "fix.example.com")
	t.Setenv("FIX_PORT", "9876")
	t.Setenv("FIX_SENDER_COMP_ID", "CLIENT")
	t.Setenv("FIX_TARGET_COMP_ID", "BROKER")
	t.Setenv("EVENT_KAFKA_ENABLED", "true")
	t.Setenv("EVENT_KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "fix.example.com", cfg.FIX.Host)
	assert.Equal(t, 9876, cfg.FIX.Port)
	assert.Equal(t, "CLIENT", cfg.FIX.SenderCompID)
	assert.Equal(t, "BROKER", cfg.FIX.TargetCompID)
	assert.True(t, cfg.EventKafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.EventKafka.Brokers)
}

func TestFIXConfig_SessionSenderCompID(t *testing.T) {
	cfg := FIXConfig{SenderCompID: "CLIENT", MaxSenderSuffix: 3}

	tests := []struct {
		name     string
		attempt  int
		expected string
	}{
		{name: "first attempt uses the plain id", attempt: 0, expected: "CLIENT"},
		{name: "first retry", attempt: 1, expected: "CLIENT-0"},
		{name: "second retry", attempt: 2, expected: "CLIENT-1"},
		{name: "third retry", attempt: 3, expected: "CLIENT-2"},
		{name: "wraps after the configured maximum", attempt: 4, expected: "CLIENT-0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, cfg.SessionSenderCompID(tc.attempt))
		})
	}
}

func TestFIXConfig_SessionSenderCompID_ZeroMax(t *testing.T) {
	cfg := FIXConfig{SenderCompID: "CLIENT"}
	assert.Equal(t, "CLIENT-0", cfg.SessionSenderCompID(1))
	assert.Equal(t, "CLIENT-0", cfg.SessionSenderCompID(2))
}
