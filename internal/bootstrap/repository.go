package bootstrap

import (
	instrumentDomain "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/instrument/v1"
	memoryInstrument "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/infrastructure/memory/instrument"
	quoteInfra "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/infrastructure/questdb/quote"
	redisInstrument "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/infrastructure/redis/instrument"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/config"
)

// Repository is the repository registry for the candlestick service.
type Repository struct {
	InstrumentRepository instrumentDomain.InstrumentRepository
	// QuoteArchive is nil unless QuestDB is configured.
	QuoteArchive *quoteInfra.Repository
}

// registerRepository registers the repository.
func (b *Bootstrap) registerRepository() {
	switch {
	case b.Config.Registry.Backend == config.RegistryRedis && b.Redis != nil:
		b.Repository.InstrumentRepository = redisInstrument.NewRepository(b.Redis, b.Config.Redis.PrefixKey, b.Logger)
	default:
		b.Repository.InstrumentRepository = memoryInstrument.NewRepository()
	}

	if b.QuestDB != nil {
		b.Repository.QuoteArchive = quoteInfra.NewRepository(
			b.QuestDB,
			quoteInfra.Options{
				BufferSize:    b.Config.Archive.BufferSize,
				BatchSize:     b.Config.Archive.BatchSize,
				FlushInterval: b.Config.Archive.FlushInterval,
			},
			b.Metrics,
			b.Logger,
		)
	}
}
