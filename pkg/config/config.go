package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/questdb"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/redis"
)

// Stream sources.
const (
	StreamWebsocket = "websocket"
	StreamKafka     = "kafka"
)

// Registry backends.
const (
	RegistryMemory = "memory"
	RegistryRedis  = "redis"
)

// Config represents the application configuration.
type Config struct {
	App             AppConfig         `envPrefix:"APP_"`
	Candlestick     CandlestickConfig `envPrefix:"CANDLESTICK_"`
	Stream          StreamConfig      `envPrefix:"STREAM_"`
	Websocket       WebsocketConfig   `envPrefix:"WEBSOCKET_"`
	QuoteKafka      KafkaConfig       `envPrefix:"QUOTE_KAFKA_"`
	InstrumentKafka KafkaConfig       `envPrefix:"INSTRUMENT_KAFKA_"`
	Registry        RegistryConfig    `envPrefix:"REGISTRY_"`
	Redis           redis.Config      `envPrefix:"REDIS_"`
	QuestDB         questdb.Config    `envPrefix:"QUESTDB_"`
	Archive         ArchiveConfig     `envPrefix:"ARCHIVE_"`
	HTTP            HTTPConfig        `envPrefix:"HTTP_"`
}

// AppConfig represents the application configuration.
type AppConfig struct {
	Name        string `env:"NAME" envDefault:"candlestick-service"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Port        int    `env:"PORT" envDefault:"9000"`
	GRPCPort    int    `env:"GRPC_PORT" envDefault:"9080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	LogOutputPaths []string `env:"LOG_OUTPUT_PATHS" envSeparator:"," envDefault:"stderr"`
	LogTimeKey     string   `env:"LOG_TIME_KEY" envDefault:"ts"`
	LogLevelKey    string   `env:"LOG_LEVEL_KEY" envDefault:"level"`
	// frames between the caller and zap; 1 skips the logger.Logger wrapper
	LogCallerSkip int `env:"LOG_CALLER_SKIP" envDefault:"1"`
}

// IsDevelopment reports whether the service runs in the development environment.
func (a AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// CandlestickConfig controls the aggregation window.
type CandlestickConfig struct {
	Window time.Duration `env:"WINDOW" envDefault:"30m"`
}

// StreamConfig selects where quote and instrument events come from.
type StreamConfig struct {
	Source string `env:"SOURCE" envDefault:"websocket"`
}

// WebsocketConfig describes the partner feed endpoints.
type WebsocketConfig struct {
	BaseURL          string        `env:"BASE_URL" envDefault:"ws://localhost:8032"`
	QuotesPath       string        `env:"QUOTES_PATH" envDefault:"/quotes"`
	InstrumentsPath  string        `env:"INSTRUMENTS_PATH" envDefault:"/instruments"`
	HandshakeTimeout time.Duration `env:"HANDSHAKE_TIMEOUT" envDefault:"10s"`
	MinBackoff       time.Duration `env:"MIN_BACKOFF" envDefault:"500ms"`
	MaxBackoff       time.Duration `env:"MAX_BACKOFF" envDefault:"30s"`
}

// KafkaConfig represents a single topic consumer configuration.
type KafkaConfig struct {
	Brokers       []string      `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic         string        `env:"TOPIC"`
	ConsumerGroup string        `env:"CONSUMER_GROUP" envDefault:"candlestick-service"`
	MaxWait       time.Duration `env:"MAX_WAIT" envDefault:"1s"`
}

// RegistryConfig selects the instrument registry backend.
type RegistryConfig struct {
	Backend string `env:"BACKEND" envDefault:"memory"`
}

// ArchiveConfig tunes the QuestDB quote archive writer.
type ArchiveConfig struct {
	BufferSize    int           `env:"BUFFER_SIZE" envDefault:"4096"`
	BatchSize     int           `env:"BATCH_SIZE" envDefault:"500"`
	FlushInterval time.Duration `env:"FLUSH_INTERVAL" envDefault:"1s"`
}

// HTTPConfig holds settings for the candlestick HTTP API.
type HTTPConfig struct {
	RateLimit       float64       `env:"RATE_LIMIT" envDefault:"200"`
	RateBurst       int           `env:"RATE_BURST" envDefault:"400"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load loads the configuration from the environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	return Parse()
}

// Parse reads the configuration from the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.QuoteKafka.Topic == "" {
		cfg.QuoteKafka.Topic = "quotes"
	}
	if cfg.InstrumentKafka.Topic == "" {
		cfg.InstrumentKafka.Topic = "instruments"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Stream.Source {
	case StreamWebsocket, StreamKafka:
	default:
		return fmt.Errorf("unsupported stream source %q", c.Stream.Source)
	}

	switch c.Registry.Backend {
	case RegistryMemory, RegistryRedis:
	default:
		return fmt.Errorf("unsupported registry backend %q", c.Registry.Backend)
	}

	if c.Candlestick.Window < time.Minute {
		return fmt.Errorf("candlestick window must be at least one minute, got %s", c.Candlestick.Window)
	}

	return nil
}
