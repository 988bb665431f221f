package candlestick

import (
	"context"
	"time"

	"github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/candlestick"
	v1 "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/candlestick/v1"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/instrument"
	quoteconsumer "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/quote-consumer/v1"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/clock"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/errors"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/logger"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/metrics"
)

// Usecase is the usecase for candlesticks.
type Usecase struct {
	store             *Store
	instrumentUsecase instrument.Usecase
	archive           candlestick.ArchiveRepository
	clock             clock.Clock
	metrics           *metrics.Metrics
	logger            logger.Interface
}

var _ candlestick.Usecase = (*Usecase)(nil)

// NewUsecase creates a new candlestick usecase. archive may be nil.
func NewUsecase(
	store *Store,
	instrumentUsecase instrument.Usecase,
	archive candlestick.ArchiveRepository,
	clock clock.Clock,
	metrics *metrics.Metrics,
	logger logger.Interface,
) *Usecase {
	return &Usecase{
		store:             store,
		instrumentUsecase: instrumentUsecase,
		archive:           archive,
		clock:             clock,
		metrics:           metrics,
		logger:            logger,
	}
}

// HandleQuote records a quote for an active instrument, stamped with the current time.
// Quotes for instruments that are not active are dropped without error.
func (u *Usecase) HandleQuote(ctx context.Context, event *quoteconsumer.QuoteEvent) error {
	if event == nil {
		return errors.NewErrorDetails("quote event is empty", string(errors.MalformedEvent), "event")
	}
	if event.Type != quoteconsumer.EventTypeQuote {
		u.metrics.QuotesDropped.WithLabelValues(metrics.DropInvalid).Inc()
		return errors.NewErrorDetailsWithObject("unexpected quote event type", string(errors.UnknownEventType), "type", event.Type)
	}

	isin := event.Data.ISIN
	active, err := u.instrumentUsecase.IsActive(ctx, isin)
	if err != nil {
		return errors.TracerFromError(err)
	}
	if !active {
		u.metrics.QuotesDropped.WithLabelValues(metrics.DropInactive).Inc()
		u.logger.DebugContext(ctx, "dropping quote for inactive instrument",
			logger.Field{Key: "action", Value: "handle_quote"},
			logger.Field{Key: "isin", Value: isin},
		)
		return nil
	}

	quote := v1.Quote{ISIN: isin, Price: event.Data.Price, ObservedAt: u.clock.Now()}

	outcome, err := u.store.RecordQuote(quote.ISIN, quote.Price, quote.ObservedAt)
	if err != nil {
		reason := metrics.DropInvalid
		if errors.Is(err, ErrOutOfOrderQuote) {
			reason = metrics.DropOutOfOrder
		}
		u.metrics.QuotesDropped.WithLabelValues(reason).Inc()
		return errors.TracerFromError(err)
	}

	if outcome == Opened {
		u.metrics.QuotesRecorded.WithLabelValues(metrics.OutcomeOpened).Inc()
	} else {
		u.metrics.QuotesRecorded.WithLabelValues(metrics.OutcomeFolded).Inc()
	}

	if u.archive != nil {
		if err := u.archive.Append(ctx, quote); err != nil {
			u.metrics.ArchiveFailures.Inc()
			u.logger.ErrorContext(ctx, errors.TracerFromError(err),
				logger.Field{Key: "action", Value: "archive_quote"},
				logger.Field{Key: "isin", Value: isin},
			)
		}
	}

	return nil
}

// GetCandlesticks returns the gap-filled minute series for isin ending at asOf.
// A zero asOf means now.
func (u *Usecase) GetCandlesticks(ctx context.Context, isin string, asOf time.Time) ([]v1.Candle, error) {
	if isin == "" {
		return nil, ErrInvalidISIN
	}
	if asOf.IsZero() {
		asOf = u.clock.Now()
	}

	start := time.Now()
	candles := u.store.QuerySeries(isin, asOf)
	u.metrics.QueryDuration.Observe(time.Since(start).Seconds())
	u.metrics.SeriesQueried.Inc()

	return candles, nil
}
