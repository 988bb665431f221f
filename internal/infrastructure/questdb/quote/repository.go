package quote

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/candlestick"
	v1 "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/candlestick/v1"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/errors"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/logger"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/metrics"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/questdb"
)

const columnsPerRow = 3

var (
	// ErrBufferFull is returned by Append when the writer cannot keep up.
	ErrBufferFull = errors.NewErrorDetails("quote archive buffer is full", string(errors.GeneralRepositoryError), "quote")
	// ErrStopped is returned by Append once Run has returned.
	ErrStopped = errors.NewErrorDetails("quote archive writer is stopped", string(errors.GeneralRepositoryError), "quote")
)

// Options tunes the background writer.
type Options struct {
	BufferSize    int
	BatchSize     int
	FlushInterval time.Duration
}

// DefaultOptions returns the writer defaults.
func DefaultOptions() Options {
	return Options{
		BufferSize:    4096,
		BatchSize:     500,
		FlushInterval: time.Second,
	}
}

// Repository archives accepted quotes into the QuestDB quotes table.
// Append only enqueues; Run owns the connection and writes in batches.
type Repository struct {
	client  questdb.QuestDBClient
	opts    Options
	queue   chan v1.Quote
	metrics *metrics.Metrics
	logger  logger.Interface

	mu      sync.RWMutex
	stopped bool
}

var _ candlestick.ArchiveRepository = (*Repository)(nil)

// NewRepository creates a new quote archive repository.
func NewRepository(client questdb.QuestDBClient, opts Options, m *metrics.Metrics, log logger.Interface) *Repository {
	def := DefaultOptions()
	if opts.BufferSize <= 0 {
		opts.BufferSize = def.BufferSize
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = def.BatchSize
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = def.FlushInterval
	}

	return &Repository{
		client:  client,
		opts:    opts,
		queue:   make(chan v1.Quote, opts.BufferSize),
		metrics: m,
		logger:  log,
	}
}

// Append enqueues quote for the next batch. It never blocks.
func (r *Repository) Append(_ context.Context, quote v1.Quote) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.stopped {
		return ErrStopped
	}

	select {
	case r.queue <- quote:
		return nil
	default:
		return ErrBufferFull
	}
}

// Run flushes queued quotes every FlushInterval or once BatchSize is reached.
// On context cancellation the remaining queue is flushed before returning.
func (r *Repository) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.opts.FlushInterval)
	defer ticker.Stop()

	batch := make([]v1.Quote, 0, r.opts.BatchSize)
	flush := func(ctx context.Context) {
		if len(batch) == 0 {
			return
		}
		if err := r.StoreBatch(ctx, batch); err != nil {
			r.metrics.ArchiveFailures.Add(float64(len(batch)))
			r.logger.Error(err,
				logger.Field{Key: "action", Value: "archive_flush"},
				logger.Field{Key: "quotes", Value: len(batch)},
			)
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
			r.mu.Lock()
			r.stopped = true
			r.mu.Unlock()

			for len(r.queue) > 0 {
				batch = append(batch, <-r.queue)
				if len(batch) >= r.opts.BatchSize {
					r.drainFlush(ctx, flush)
				}
			}
			r.drainFlush(ctx, flush)
			return nil
		case quote := <-r.queue:
			batch = append(batch, quote)
			if len(batch) >= r.opts.BatchSize {
				flush(ctx)
			}
		case <-ticker.C:
			flush(ctx)
		}
	}
}

// drainFlush runs a final flush detached from the cancelled run context.
func (r *Repository) drainFlush(ctx context.Context, flush func(context.Context)) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.opts.FlushInterval)
	defer cancel()
	flush(ctx)
}

// StoreBatch writes quotes with a single multi-row INSERT.
func (r *Repository) StoreBatch(ctx context.Context, quotes []v1.Quote) error {
	if len(quotes) == 0 {
		return nil
	}

	query, args := buildInsert(quotes)
	if err := r.client.Exec(ctx, query, args...); err != nil {
		return errors.NewTracer("quote_store_batch_error").Wrap(err)
	}

	return nil
}

func buildInsert(quotes []v1.Quote) (string, []any) {
	var sb strings.Builder
	sb.WriteString("INSERT INTO quotes (isin, price, observed_at) VALUES ")

	args := make([]any, 0, len(quotes)*columnsPerRow)
	for i, q := range quotes {
		if i > 0 {
			sb.WriteString(", ")
		}
		n := i * columnsPerRow
		fmt.Fprintf(&sb, "($%d, $%d, $%d)", n+1, n+2, n+3)
		args = append(args, q.ISIN, q.Price, q.ObservedAt.UTC())
	}

	return sb.String(), args
}
