package consumer

import (
	quoteconsumer "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/quote-consumer/v1"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/config"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// QuoteConsumer is the consumer for the quotes topic.
type QuoteConsumer struct {
	*consumer[quoteconsumer.QuoteEvent]
}

var _ quoteconsumer.QuoteConsumer = (*QuoteConsumer)(nil)

// NewQuoteConsumer creates a new QuoteConsumer.
func NewQuoteConsumer(config config.KafkaConfig, logger logger.Interface) *QuoteConsumer {
	return &QuoteConsumer{
		consumer: newConsumer[quoteconsumer.QuoteEvent](newReader(config, kafka.LastOffset), "kafka:"+config.Topic, logger),
	}
}

func newReader(config config.KafkaConfig, startOffset int64) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     config.Brokers,
		Topic:       config.Topic,
		GroupID:     config.ConsumerGroup,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     config.MaxWait,
		StartOffset: startOffset,
	})
}
