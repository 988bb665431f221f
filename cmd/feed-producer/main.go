package main

import (
	"context"
	"encoding/json"
	"flag"
	"math/rand/v2"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/logger"
	"github.com/segmentio/kafka-go"
)

func main() {
	var (
		brokers         = flag.String("brokers", "localhost:9092", "Kafka broker addresses (comma-separated)")
		quoteTopic      = flag.String("quote-topic", "quotes", "Kafka topic for quote events")
		instrumentTopic = flag.String("instrument-topic", "instruments", "Kafka topic for instrument events")
		instruments     = flag.Int("instruments", 10, "Number of instruments to announce")
		quotes          = flag.Int("quotes", 10000, "Number of quotes to publish, 0 publishes until interrupted")
		delay           = flag.Duration("delay", 100*time.Millisecond, "Delay between quotes")
		basePrice       = flag.Float64("base-price", 100, "Average starting price")
		step            = flag.Float64("step", 0.5, "Maximum price move per quote, in percent")
		seed            = flag.Uint64("seed", uint64(time.Now().UnixNano()), "Random seed")
	)
	flag.Parse()

	log, err := logger.NewLogger(logger.WithDevelopment())
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	addrs := strings.Split(*brokers, ",")
	instrumentWriter := newWriter(addrs, *instrumentTopic)
	defer instrumentWriter.Close()
	quoteWriter := newWriter(addrs, *quoteTopic)
	defer quoteWriter.Close()

	rng := rand.New(rand.NewPCG(*seed, *seed>>1))
	runID := uuid.NewString()

	adds := generateInstruments(rng, *instruments)
	isins := make([]string, 0, len(adds))
	for _, add := range adds {
		if err := publish(ctx, instrumentWriter, runID, add.Data.ISIN, add); err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "publish_instrument"}, logger.Field{Key: "isin", Value: add.Data.ISIN})
			return
		}
		isins = append(isins, add.Data.ISIN)
	}
	log.Info("Announced instruments", logger.Field{Key: "count", Value: len(isins)}, logger.Field{Key: "run_id", Value: runID})

	w := newWalker(rng, isins, *basePrice, *step)
	ticker := time.NewTicker(*delay)
	defer ticker.Stop()

	sent := 0
	for *quotes == 0 || sent < *quotes {
		select {
		case <-ctx.Done():
			log.Info("Interrupted", logger.Field{Key: "quotes_sent", Value: sent})
			return
		case <-ticker.C:
		}

		isin := isins[rng.IntN(len(isins))]
		event := w.next(isin)
		if err := publish(ctx, quoteWriter, runID, isin, event); err != nil {
			log.Warn("Failed to send quote", logger.Field{Key: "isin", Value: isin}, logger.Field{Key: "error", Value: err.Error()})
			continue
		}
		sent++

		if sent%100 == 0 {
			log.Info("Sent quotes", logger.Field{Key: "quotes_sent", Value: sent}, logger.Field{Key: "last_isin", Value: isin}, logger.Field{Key: "last_price", Value: event.Data.Price})
		}
	}

	log.Info("Successfully sent all quotes", logger.Field{Key: "quotes_sent", Value: sent})
}

func newWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
}

// publish writes event keyed by isin so one instrument stays on one partition.
func publish(ctx context.Context, writer *kafka.Writer, runID, isin string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(isin),
		Value: payload,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "run-id", Value: []byte(runID)},
			{Key: "event-id", Value: []byte(uuid.NewString())},
		},
	})
}
