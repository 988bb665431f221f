package consumer

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/errors"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/logger"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/util"
	"github.com/segmentio/kafka-go"
)

// messageReader is the part of *kafka.Reader the consumers use.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var errNoHandler = stderrors.New("consumer: no handler subscribed")

// defaultRetryBackoff is the pause after a failed fetch, so a broker outage
// does not turn Start into a busy loop.
const defaultRetryBackoff = 500 * time.Millisecond

// consumer decodes JSON messages of type T from one topic and hands them to
// the subscribed handler. Offsets are committed after the handler returns,
// whether or not it failed, so a bad message never stalls the partition.
type consumer[T any] struct {
	reader       messageReader
	logger       logger.Interface
	source       string
	retryBackoff time.Duration

	mu      sync.RWMutex
	handler func(ctx context.Context, event *T) error
}

func newConsumer[T any](reader messageReader, source string, log logger.Interface) *consumer[T] {
	return &consumer[T]{
		reader:       reader,
		source:       source,
		logger:       log,
		retryBackoff: defaultRetryBackoff,
	}
}

// Subscribe sets the handler invoked for each decoded event.
func (c *consumer[T]) Subscribe(handler func(ctx context.Context, event *T) error) error {
	if handler == nil {
		return errNoHandler
	}
	c.mu.Lock()
	c.handler = handler
	c.mu.Unlock()
	return nil
}

// Start consumes until ctx is cancelled or the reader is closed.
func (c *consumer[T]) Start(ctx context.Context) error {
	c.mu.RLock()
	handler := c.handler
	c.mu.RUnlock()
	if handler == nil {
		return errNoHandler
	}

	c.logger.InfoContext(ctx, "starting consumer",
		logger.Field{Key: "action", Value: "consumer_start"},
		logger.Field{Key: "source", Value: c.source},
	)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || stderrors.Is(err, io.EOF) {
				c.logger.InfoContext(ctx, "consumer stopped",
					logger.Field{Key: "action", Value: "consumer_stop"},
					logger.Field{Key: "source", Value: c.source},
				)
				return nil
			}
			c.logger.ErrorContext(ctx, errors.TracerFromError(err),
				logger.Field{Key: "action", Value: "fetch_message"},
				logger.Field{Key: "source", Value: c.source},
			)

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.retryBackoff):
			}
			continue
		}

		c.handle(ctx, msg, handler)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.ErrorContext(ctx, errors.TracerFromError(err),
				logger.Field{Key: "action", Value: "commit_message"},
				logger.Field{Key: "source", Value: c.source},
			)
		}
	}
}

func (c *consumer[T]) handle(ctx context.Context, msg kafka.Message, handler func(ctx context.Context, event *T) error) {
	eventID := msg.Topic + "/" + strconv.Itoa(msg.Partition) + "/" + strconv.FormatInt(msg.Offset, 10)
	ctx = util.WithEventID(util.WithSource(ctx, c.source), eventID)

	var event T
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.WarnContext(ctx, "skipping malformed message",
			logger.Field{Key: "action", Value: "unmarshal_event"},
			logger.Field{Key: "code", Value: errors.MalformedEvent.String()},
			logger.Field{Key: "error", Value: err.Error()},
		)
		return
	}

	if err := handler(ctx, &event); err != nil {
		c.logger.ErrorContext(ctx, err,
			logger.Field{Key: "action", Value: "handle_event"},
			logger.Field{Key: "code", Value: errors.CodeOf(err).String()},
		)
	}
}

// Stop closes the underlying reader, which also ends a running Start.
func (c *consumer[T]) Stop() error {
	c.logger.Info("stopping consumer",
		logger.Field{Key: "action", Value: "consumer_stop"},
		logger.Field{Key: "source", Value: c.source},
	)
	return c.reader.Close()
}
