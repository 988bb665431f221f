package instrument

import (
	"context"

	instrumentconsumer "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/instrument-consumer/v1"
	v1 "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/instrument/v1"
)

//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock

// Usecase is the interface for the instrument usecase.
type Usecase interface {
	HandleEvent(ctx context.Context, event *instrumentconsumer.InstrumentEvent) error
	IsActive(ctx context.Context, isin string) (bool, error)
	ListActive(ctx context.Context) ([]*v1.Instrument, error)
}
