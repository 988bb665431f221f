package v1

import (
	"context"
)

//go:generate mockgen -source=consumer.go -destination=mock/consumer_mock.go -package=mock

// InstrumentConsumer delivers instrument lifecycle events from a partner feed.
type InstrumentConsumer interface {
	Start(ctx context.Context) error
	Stop() error
	Subscribe(handler func(ctx context.Context, event *InstrumentEvent) error) error
}
