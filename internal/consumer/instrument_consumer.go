package consumer

import (
	instrumentconsumer "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/instrument-consumer/v1"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/config"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// InstrumentConsumer is the consumer for the instruments topic.
type InstrumentConsumer struct {
	*consumer[instrumentconsumer.InstrumentEvent]
}

var _ instrumentconsumer.InstrumentConsumer = (*InstrumentConsumer)(nil)

// NewInstrumentConsumer creates a new InstrumentConsumer. A new consumer group
// replays the topic from the beginning so the active set is rebuilt.
func NewInstrumentConsumer(config config.KafkaConfig, logger logger.Interface) *InstrumentConsumer {
	return &InstrumentConsumer{
		consumer: newConsumer[instrumentconsumer.InstrumentEvent](newReader(config, kafka.FirstOffset), "kafka:"+config.Topic, logger),
	}
}
