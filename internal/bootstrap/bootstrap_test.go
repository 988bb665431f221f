package bootstrap

import (
	"context"
	"testing"
	"time"

	instrumentconsumer "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/instrument-consumer/v1"
	quoteconsumer "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/quote-consumer/v1"
	memoryInstrument "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/infrastructure/memory/instrument"
	redisInstrument "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/infrastructure/redis/instrument"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/clock"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/config"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/logger"
	questdb_mock "github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/questdb/mock"
	redis_mock "github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/redis/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func baseConfig() config.Config {
	cfg := config.Config{}
	cfg.Candlestick.Window = 30 * time.Minute
	cfg.Registry.Backend = config.RegistryMemory
	cfg.Redis.PrefixKey = "candlestick:"
	return cfg
}

func TestBootstrap_Init(t *testing.T) {
	testCases := []struct {
		name     string
		cfg      func() config.Config
		withDeps func(ctrl *gomock.Controller, b *BootstrapConfig)
		assertFn func(t *testing.T, b Bootstrap)
	}{
		{
			name: "memory registry without archive",
			cfg:  baseConfig,
			assertFn: func(t *testing.T, b Bootstrap) {
				assert.IsType(t, &memoryInstrument.Repository{}, b.Repository.InstrumentRepository)
				assert.Nil(t, b.Repository.QuoteArchive)
				assert.NotNil(t, b.Usecase.CandlestickUsecase)
				assert.NotNil(t, b.Usecase.InstrumentUsecase)
			},
		},
		{
			name: "redis registry",
			cfg: func() config.Config {
				cfg := baseConfig()
				cfg.Registry.Backend = config.RegistryRedis
				return cfg
			},
			withDeps: func(ctrl *gomock.Controller, b *BootstrapConfig) {
				b.Redis = redis_mock.NewMockClient(ctrl)
			},
			assertFn: func(t *testing.T, b Bootstrap) {
				assert.IsType(t, &redisInstrument.Repository{}, b.Repository.InstrumentRepository)
			},
		},
		{
			name: "redis registry without a client falls back to memory",
			cfg: func() config.Config {
				cfg := baseConfig()
				cfg.Registry.Backend = config.RegistryRedis
				return cfg
			},
			assertFn: func(t *testing.T, b Bootstrap) {
				assert.IsType(t, &memoryInstrument.Repository{}, b.Repository.InstrumentRepository)
			},
		},
		{
			name: "questdb enables the archive",
			cfg:  baseConfig,
			withDeps: func(ctrl *gomock.Controller, b *BootstrapConfig) {
				b.QuestDB = questdb_mock.NewMockQuestDBClient(ctrl)
			},
			assertFn: func(t *testing.T, b Bootstrap) {
				assert.NotNil(t, b.Repository.QuoteArchive)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			bc := BootstrapConfig{Config: tc.cfg(), Logger: logger.NewNopLogger()}
			if tc.withDeps != nil {
				tc.withDeps(ctrl, &bc)
			}

			b := &Bootstrap{}
			tc.assertFn(t, b.Init(bc))
		})
	}
}

func TestBootstrap_QuoteFlow(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewManual(time.Date(2024, 5, 6, 9, 30, 5, 0, time.UTC))

	b := &Bootstrap{}
	wired := b.Init(BootstrapConfig{Config: baseConfig(), Logger: logger.NewNopLogger(), Clock: clk})

	instruments := wired.Usecase.InstrumentUsecase
	candles := wired.Usecase.CandlestickUsecase

	quote := func(isin string, price float64) {
		require.NoError(t, candles.HandleQuote(ctx, &quoteconsumer.QuoteEvent{
			Type: quoteconsumer.EventTypeQuote,
			Data: quoteconsumer.QuoteData{ISIN: isin, Price: price},
		}))
	}

	// quotes before ADD are dropped
	quote("DE000BASF111", 9)

	require.NoError(t, instruments.HandleEvent(ctx, &instrumentconsumer.InstrumentEvent{
		Type: instrumentconsumer.EventTypeAdd,
		Data: instrumentconsumer.InstrumentData{ISIN: "DE000BASF111", Description: "BASF SE"},
	}))

	quote("DE000BASF111", 10)
	clk.Advance(20 * time.Second)
	quote("DE000BASF111", 12)
	clk.Advance(2 * time.Minute)
	quote("DE000BASF111", 11)

	got, err := candles.GetCandlesticks(ctx, "DE000BASF111", time.Time{})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, 10.0, got[0].OpenPrice)
	assert.Equal(t, 12.0, got[0].HighPrice)
	assert.Equal(t, 12.0, got[0].ClosingPrice)

	// gap minute carries the previous close
	assert.Equal(t, 12.0, got[1].OpenPrice)
	assert.Equal(t, 12.0, got[1].LowPrice)

	assert.Equal(t, 11.0, got[2].OpenPrice)
	assert.Equal(t, time.Date(2024, 5, 6, 9, 32, 0, 0, time.UTC), got[2].OpenTimestamp)

	// DELETE stops ingestion but keeps history
	require.NoError(t, instruments.HandleEvent(ctx, &instrumentconsumer.InstrumentEvent{
		Type: instrumentconsumer.EventTypeDelete,
		Data: instrumentconsumer.InstrumentData{ISIN: "DE000BASF111"},
	}))
	quote("DE000BASF111", 99)

	got, err = candles.GetCandlesticks(ctx, "DE000BASF111", time.Time{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 11.0, got[2].ClosingPrice)
}

func TestBootstrap_PaddedISINMatchesVerbatim(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewManual(time.Date(2024, 5, 6, 9, 30, 5, 0, time.UTC))

	b := &Bootstrap{}
	wired := b.Init(BootstrapConfig{Config: baseConfig(), Logger: logger.NewNopLogger(), Clock: clk})

	const padded = "DE000BASF111 "
	require.NoError(t, wired.Usecase.InstrumentUsecase.HandleEvent(ctx, &instrumentconsumer.InstrumentEvent{
		Type: instrumentconsumer.EventTypeAdd,
		Data: instrumentconsumer.InstrumentData{ISIN: padded},
	}))
	require.NoError(t, wired.Usecase.CandlestickUsecase.HandleQuote(ctx, &quoteconsumer.QuoteEvent{
		Type: quoteconsumer.EventTypeQuote,
		Data: quoteconsumer.QuoteData{ISIN: padded, Price: 42},
	}))

	got, err := wired.Usecase.CandlestickUsecase.GetCandlesticks(ctx, padded, time.Time{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 42.0, got[0].ClosingPrice)

	// the trimmed key is a different instrument
	got, err = wired.Usecase.CandlestickUsecase.GetCandlesticks(ctx, "DE000BASF111", time.Time{})
	require.NoError(t, err)
	assert.Empty(t, got)
}
