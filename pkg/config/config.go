package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	App        AppConfig        `envPrefix:"APP_"`
	FIX        FIXConfig        `envPrefix:"FIX_"`
	EventKafka EventKafkaConfig `envPrefix:"EVENT_KAFKA_"`
}

// AppConfig represents the application configuration.
type AppConfig struct {
	Name        string `env:"NAME" envDefault:"fix-brokerage"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

// FIXConfig carries the session settings for the order-routing counterparty.
type FIXConfig struct {
	Host              string `env:"HOST" envDefault:"127.0.0.1"`
	Port              int    `env:"PORT" envDefault:"5080"`
	SenderCompID      string `env:"SENDER_COMP_ID"`
	TargetCompID      string `env:"TARGET_COMP_ID"`
	Account           string `env:"ACCOUNT"`
	OnBehalfOfCompID  string `env:"ON_BEHALF_OF_COMP_ID"`
	HeartbeatInterval int    `env:"HEARTBEAT_INTERVAL" envDefault:"30"`
	ReconnectInterval int    `env:"RECONNECT_INTERVAL" envDefault:"5"`
	LogonTimeout      int    `env:"LOGON_TIMEOUT" envDefault:"5"`
	ConnectTimeout    int    `env:"CONNECT_TIMEOUT" envDefault:"60"`
	DataDictionary    string `env:"DATA_DICTIONARY" envDefault:"spec/FIX42.xml"`
	LogRawMessages    bool   `env:"LOG_RAW_MESSAGES" envDefault:"false"`
	MaxSenderSuffix   int    `env:"MAX_SENDER_SUFFIX" envDefault:"15"`
	DefaultExchange   string `env:"DEFAULT_EXCHANGE" envDefault:"SMART"`
}

// EventKafkaConfig represents the order-event topic configuration.
type EventKafkaConfig struct {
	Enabled bool     `env:"ENABLED" envDefault:"false"`
	Brokers []string `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic   string   `env:"TOPIC" envDefault:"order-events"`
}

// Load loads the configuration from the environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// BeginString is the FIX protocol version spoken with the counterparty.
const BeginString = "FIX.4.2"

// SessionSenderCompID returns the sender comp id for a given connection
// attempt. The first attempt uses the plain configured id; later attempts
// append an incremental suffix to find a free connection point, wrapping
// once MaxSenderSuffix is exceeded.
func (c FIXConfig) SessionSenderCompID(attempt int) string {
	if attempt <= 0 {
		return c.SenderCompID
	}
	suffix := (attempt - 1) % c.maxSuffix()
	return fmt.Sprintf("%s-%d", c.SenderCompID, suffix)
}

func (c FIXConfig) maxSuffix() int {
	if c.MaxSenderSuffix <= 0 {
		return 1
	}
	return c.MaxSenderSuffix
}
