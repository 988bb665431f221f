package bootstrap

import (
	candlestickDomain "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/candlestick"
	instrumentDomain "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/instrument"
	candlestickUc "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/usecase/candlestick"
	instrumentUc "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/usecase/instrument"
)

// Usecase is the usecase registry for the candlestick service.
type Usecase struct {
	CandlestickUsecase candlestickDomain.Usecase
	InstrumentUsecase  instrumentDomain.Usecase
}

// registerUsecase registers the usecase.
func (b *Bootstrap) registerUsecase() {
	b.Usecase.InstrumentUsecase = instrumentUc.NewUsecase(b.Repository.InstrumentRepository, b.Clock, b.Metrics, b.Logger)

	// a nil *quote.Repository must not become a non-nil interface
	var archive candlestickDomain.ArchiveRepository
	if b.Repository.QuoteArchive != nil {
		archive = b.Repository.QuoteArchive
	}

	store := candlestickUc.NewStore(&candlestickUc.Options{Window: b.Config.Candlestick.Window})
	b.Usecase.CandlestickUsecase = candlestickUc.NewUsecase(store, b.Usecase.InstrumentUsecase, archive, b.Clock, b.Metrics, b.Logger)
}
