package instrument

import (
	"context"
	"strings"

	"github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/instrument"
	instrumentconsumer "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/instrument-consumer/v1"
	v1 "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/instrument/v1"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/clock"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/errors"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/logger"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/metrics"
)

// Usecase is the usecase for instrument lifecycle events.
type Usecase struct {
	instrumentRepository v1.InstrumentRepository
	clock                clock.Clock
	metrics              *metrics.Metrics
	logger               logger.Interface
}

var _ instrument.Usecase = (*Usecase)(nil)

// NewUsecase creates a new instrument usecase.
func NewUsecase(instrumentRepository v1.InstrumentRepository, clock clock.Clock, metrics *metrics.Metrics, logger logger.Interface) *Usecase {
	return &Usecase{
		instrumentRepository: instrumentRepository,
		clock:                clock,
		metrics:              metrics,
		logger:               logger,
	}
}

// HandleEvent applies an ADD or DELETE event. DELETE only deactivates the
// instrument; candles already aggregated for it are kept.
func (u *Usecase) HandleEvent(ctx context.Context, event *instrumentconsumer.InstrumentEvent) error {
	if event == nil {
		return errors.NewErrorDetails("instrument event is empty", string(errors.MalformedEvent), "event")
	}

	// keys are opaque: quotes and queries match them byte for byte
	isin := event.Data.ISIN
	if strings.TrimSpace(isin) == "" {
		return errors.NewErrorDetails("isin must not be empty", string(errors.InvalidISIN), "isin")
	}

	switch event.Type {
	case instrumentconsumer.EventTypeAdd:
		err := u.instrumentRepository.Add(ctx, &v1.Instrument{
			ISIN:        isin,
			Description: event.Data.Description,
			AddedAt:     u.clock.Now(),
		})
		if err != nil {
			return errors.TracerFromError(err)
		}
	case instrumentconsumer.EventTypeDelete:
		if err := u.instrumentRepository.Remove(ctx, isin); err != nil {
			return errors.TracerFromError(err)
		}
	default:
		return errors.NewErrorDetailsWithObject("unknown instrument event type", string(errors.UnknownEventType), "type", event.Type)
	}

	u.metrics.InstrumentEvents.WithLabelValues(event.Type).Inc()
	u.logger.InfoContext(ctx, "instrument event applied",
		logger.Field{Key: "action", Value: "handle_instrument_event"},
		logger.Field{Key: "type", Value: event.Type},
		logger.Field{Key: "isin", Value: isin},
	)

	return nil
}

// IsActive reports whether isin has been added and not deleted since.
func (u *Usecase) IsActive(ctx context.Context, isin string) (bool, error) {
	if isin == "" {
		return false, nil
	}
	ok, err := u.instrumentRepository.Exists(ctx, isin)
	if err != nil {
		return false, errors.TracerFromError(err)
	}
	return ok, nil
}

// ListActive returns every active instrument.
func (u *Usecase) ListActive(ctx context.Context) ([]*v1.Instrument, error) {
	instruments, err := u.instrumentRepository.List(ctx)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	return instruments, nil
}
