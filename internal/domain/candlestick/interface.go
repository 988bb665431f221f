package candlestick

import (
	"context"
	"time"

	v1 "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/candlestick/v1"
	quoteconsumer "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/quote-consumer/v1"
)

//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock

// Usecase is the interface for the candlestick usecase.
type Usecase interface {
	HandleQuote(ctx context.Context, event *quoteconsumer.QuoteEvent) error
	GetCandlesticks(ctx context.Context, isin string, asOf time.Time) ([]v1.Candle, error)
}

// ArchiveRepository appends accepted quotes to long-term storage. It is never read back.
type ArchiveRepository interface {
	Append(ctx context.Context, quote v1.Quote) error
}
