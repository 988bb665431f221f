package websocket

import (
	"strings"

	instrumentconsumer "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/instrument-consumer/v1"
	quoteconsumer "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/quote-consumer/v1"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/config"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/logger"
)

// QuoteStream reads quote events from the partner's quotes endpoint.
type QuoteStream struct {
	*feed[quoteconsumer.QuoteEvent]
}

var _ quoteconsumer.QuoteConsumer = (*QuoteStream)(nil)

// NewQuoteStream creates a QuoteStream for <BaseURL><QuotesPath>.
func NewQuoteStream(config config.WebsocketConfig, logger logger.Interface) *QuoteStream {
	return &QuoteStream{
		feed: newFeed[quoteconsumer.QuoteEvent](join(config.BaseURL, config.QuotesPath), "websocket:quotes", options(config), logger),
	}
}

// InstrumentStream reads instrument events from the partner's instruments endpoint.
type InstrumentStream struct {
	*feed[instrumentconsumer.InstrumentEvent]
}

var _ instrumentconsumer.InstrumentConsumer = (*InstrumentStream)(nil)

// NewInstrumentStream creates an InstrumentStream for <BaseURL><InstrumentsPath>.
func NewInstrumentStream(config config.WebsocketConfig, logger logger.Interface) *InstrumentStream {
	return &InstrumentStream{
		feed: newFeed[instrumentconsumer.InstrumentEvent](join(config.BaseURL, config.InstrumentsPath), "websocket:instruments", options(config), logger),
	}
}

func options(config config.WebsocketConfig) Options {
	return Options{
		HandshakeTimeout: config.HandshakeTimeout,
		MinBackoff:       config.MinBackoff,
		MaxBackoff:       config.MaxBackoff,
	}
}

func join(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
