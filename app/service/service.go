package service

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/internal/bootstrap"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/internal/consumer"
	instrumentconsumer "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/instrument-consumer/v1"
	quoteconsumer "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/quote-consumer/v1"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/internal/rest"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/internal/stream/websocket"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/clock"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/config"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/errors"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/grpclib/health"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/httplib/healthcheck"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/logger"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/metrics"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/questdb"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/redis"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
)

// Service runs the candlestick feeds, the HTTP API and the gRPC health server.
type Service struct {
	Config    config.Config
	Bootstrap bootstrap.Bootstrap

	logger  logger.Interface
	redis   redis.Client
	questdb *questdb.Client

	quotes      quoteconsumer.QuoteConsumer
	instruments instrumentconsumer.InstrumentConsumer

	httpServer *http.Server
	grpcServer *grpc.Server
	health     *health.Server

	wg sync.WaitGroup
}

// New wires every component. Nothing is started until Start.
func New(ctx context.Context, cfg config.Config, log logger.Interface) (*Service, error) {
	s := &Service{
		Config: cfg,
		logger: log,
	}

	if err := s.initRedis(ctx); err != nil {
		return nil, err
	}
	if err := s.initQuestDB(ctx); err != nil {
		return nil, err
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	b := &bootstrap.Bootstrap{}
	bc := bootstrap.BootstrapConfig{
		Config:  cfg,
		Logger:  log,
		Clock:   clock.System(),
		Metrics: m,
		Redis:   s.redis,
	}
	if s.questdb != nil {
		bc.QuestDB = s.questdb
	}
	s.Bootstrap = b.Init(bc)

	s.initGRPC()
	s.initFeeds()
	if err := s.subscribe(); err != nil {
		return nil, err
	}

	s.initHTTP()

	return s, nil
}

func (s *Service) initRedis(ctx context.Context) error {
	if s.Config.Registry.Backend != config.RegistryRedis {
		return nil
	}

	cfg := s.Config.Redis
	if err := cfg.Validate(); err != nil {
		return err
	}

	client := redis.NewClient(s.logger, &cfg)
	if err := client.Connect(ctx); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "connect_redis"})
		return err
	}
	s.redis = client

	return nil
}

func (s *Service) initQuestDB(ctx context.Context) error {
	if !s.Config.QuestDB.Enabled {
		return nil
	}

	client, err := questdb.NewClient(ctx, s.Config.QuestDB)
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "init_questdb"})
		return err
	}
	s.questdb = client

	return nil
}

func (s *Service) initFeeds() {
	switch s.Config.Stream.Source {
	case config.StreamKafka:
		s.quotes = consumer.NewQuoteConsumer(s.Config.QuoteKafka, s.logger)
		s.instruments = consumer.NewInstrumentConsumer(s.Config.InstrumentKafka, s.logger)
	default:
		quotes := websocket.NewQuoteStream(s.Config.Websocket, s.logger)
		instruments := websocket.NewInstrumentStream(s.Config.Websocket, s.logger)
		// per-feed gRPC health, e.g. Check{Service: "websocket:quotes"}
		quotes.ReportStatus(s.health)
		instruments.ReportStatus(s.health)
		s.quotes = quotes
		s.instruments = instruments
	}
}

func (s *Service) subscribe() error {
	if err := s.instruments.Subscribe(s.Bootstrap.Usecase.InstrumentUsecase.HandleEvent); err != nil {
		return err
	}

	return s.quotes.Subscribe(s.Bootstrap.Usecase.CandlestickUsecase.HandleQuote)
}

func (s *Service) initHTTP() {
	if !s.Config.App.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := rest.NewRouter(
		rest.NewCandlestickHandler(s.Bootstrap.Usecase.CandlestickUsecase, s.logger),
		rest.NewInstrumentHandler(s.Bootstrap.Usecase.InstrumentUsecase, s.logger),
		s.logger,
		rest.RouterOptions{
			RateLimit: s.Config.HTTP.RateLimit,
			RateBurst: s.Config.HTTP.RateBurst,
		},
	)

	checks := map[string]healthcheck.Check{}
	if s.redis != nil {
		checks["redis"] = s.redis.Ping
	}
	if s.questdb != nil {
		checks["questdb"] = s.questdb.Ping
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Config.App.Port),
		Handler:      healthcheck.New(checks).Handler(router),
		ReadTimeout:  s.Config.HTTP.ReadTimeout,
		WriteTimeout: s.Config.HTTP.WriteTimeout,
	}
}

func (s *Service) initGRPC() {
	s.grpcServer = grpc.NewServer()
	s.health = health.NewServer()
	s.health.Register(s.grpcServer)

	if s.Config.App.IsDevelopment() {
		reflection.Register(s.grpcServer)
	}
}

// Start launches every component in the background. Cancelling ctx stops the
// feeds and lets the quote archive drain.
func (s *Service) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.Config.App.GRPCPort))
	if err != nil {
		return errors.NewTracer("grpc_listen_error").Wrap(err)
	}

	s.run(ctx, "instrument_feed", func() error { return s.instruments.Start(ctx) })
	s.run(ctx, "quote_feed", func() error { return s.quotes.Start(ctx) })
	if archive := s.Bootstrap.Repository.QuoteArchive; archive != nil {
		s.run(ctx, "quote_archive", func() error { return archive.Run(ctx) })
	}
	s.run(ctx, "grpc_server", func() error { return s.grpcServer.Serve(lis) })
	s.run(ctx, "http_server", func() error {
		if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	s.health.InitService("")

	s.logger.InfoContext(ctx, "Candlestick service started",
		logger.Field{Key: "action", Value: "start_service"},
		logger.Field{Key: "http_port", Value: s.Config.App.Port},
		logger.Field{Key: "grpc_port", Value: s.Config.App.GRPCPort},
		logger.Field{Key: "stream_source", Value: s.Config.Stream.Source},
		logger.Field{Key: "registry_backend", Value: s.Config.Registry.Backend},
	)

	return nil
}

func (s *Service) run(ctx context.Context, name string, fn func() error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := fn(); err != nil {
			s.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: name})
		}
	}()
}

// Stop shuts every component down and waits for background work until ctx expires.
func (s *Service) Stop(ctx context.Context) error {
	s.health.Shutdown()

	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	keep(s.httpServer.Shutdown(ctx))
	keep(s.quotes.Stop())
	keep(s.instruments.Stop())
	s.grpcServer.GracefulStop()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		keep(ctx.Err())
	}

	if s.redis != nil {
		keep(s.redis.Disconnect(ctx))
	}
	if s.questdb != nil {
		s.questdb.Close()
	}

	return firstErr
}
