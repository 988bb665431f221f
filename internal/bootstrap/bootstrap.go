package bootstrap

import (
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/clock"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/config"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/logger"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/metrics"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/questdb"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/redis"
)

// Bootstrap holds the wired repositories and usecases of the candlestick service.
type Bootstrap struct {
	Usecase    Usecase
	Repository Repository
	Logger     logger.Interface
	Clock      clock.Clock
	Metrics    *metrics.Metrics
	Config     config.Config

	Redis   redis.Client
	QuestDB questdb.QuestDBClient
}

// BootstrapConfig is the config for the bootstrap. Redis is required only for
// the redis registry backend and QuestDB only when the archive is enabled.
type BootstrapConfig struct {
	Config  config.Config
	Logger  logger.Interface
	Clock   clock.Clock
	Metrics *metrics.Metrics
	Redis   redis.Client
	QuestDB questdb.QuestDBClient
}

// Init initializes the bootstrap.
func (b *Bootstrap) Init(cfg BootstrapConfig) Bootstrap {
	b.Config = cfg.Config
	b.Logger = cfg.Logger
	b.Clock = cfg.Clock
	b.Metrics = cfg.Metrics
	b.Redis = cfg.Redis
	b.QuestDB = cfg.QuestDB

	if b.Clock == nil {
		b.Clock = clock.System()
	}
	if b.Metrics == nil {
		b.Metrics = metrics.NewNop()
	}

	b.registerRepository()
	b.registerUsecase()

	return *b
}
