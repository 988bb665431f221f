package v1

import (
	"context"
)

//go:generate mockgen -source=consumer.go -destination=mock/consumer_mock.go -package=mock

// QuoteConsumer delivers quote events from a partner feed.
type QuoteConsumer interface {
	Start(ctx context.Context) error
	Stop() error
	Subscribe(handler func(ctx context.Context, event *QuoteEvent) error) error
}
