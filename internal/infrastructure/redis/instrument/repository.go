package instrument

import (
	"context"
	"encoding/json"
	"slices"
	"strings"

	v1 "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/instrument/v1"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/errors"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/logger"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/redis"
)

const hashName = "instruments"

// Repository keeps active instruments in a Redis hash keyed by ISIN, so the
// active set survives restarts and can be shared by several replicas.
type Repository struct {
	key         string
	redisclient redis.Client
	logger      logger.Interface
}

var _ v1.InstrumentRepository = (*Repository)(nil)

// NewRepository creates a Redis backed instrument repository. Keys are
// prefixed with prefix, e.g. "candlestick:instruments".
func NewRepository(redisclient redis.Client, prefix string, logger logger.Interface) *Repository {
	return &Repository{
		key:         prefix + hashName,
		redisclient: redisclient,
		logger:      logger,
	}
}

// Add marks the instrument active.
func (r *Repository) Add(ctx context.Context, instrument *v1.Instrument) error {
	buf, err := json.Marshal(instrument)
	if err != nil {
		return errors.NewTracer("instrument_marshal_error").Wrap(err)
	}

	err = r.retry(ctx, "add_instrument", func() error {
		_, err := r.redisclient.HSet(ctx, r.key, map[string]any{instrument.ISIN: buf})
		return err
	})
	if err != nil {
		r.logger.ErrorContext(ctx, err,
			logger.Field{Key: "action", Value: "add_instrument"},
			logger.Field{Key: "isin", Value: instrument.ISIN},
		)
		return errors.NewTracer("instrument_store_error").Wrap(err)
	}
	return nil
}

// Remove deactivates isin.
func (r *Repository) Remove(ctx context.Context, isin string) error {
	err := r.retry(ctx, "remove_instrument", func() error {
		_, err := r.redisclient.HDel(ctx, r.key, isin)
		return err
	})
	if err != nil {
		r.logger.ErrorContext(ctx, err,
			logger.Field{Key: "action", Value: "remove_instrument"},
			logger.Field{Key: "isin", Value: isin},
		)
		return errors.NewTracer("instrument_remove_error").Wrap(err)
	}
	return nil
}

// Exists reports whether isin is active.
func (r *Repository) Exists(ctx context.Context, isin string) (bool, error) {
	var ok bool
	err := r.retry(ctx, "exists_instrument", func() error {
		var err error
		ok, err = r.redisclient.HExists(ctx, r.key, isin)
		return err
	})
	if err != nil {
		return false, errors.NewTracer("instrument_exists_error").Wrap(err)
	}
	return ok, nil
}

// List returns the active instruments ordered by ISIN. Entries that fail to
// decode are logged and skipped.
func (r *Repository) List(ctx context.Context) ([]*v1.Instrument, error) {
	var values map[string]string
	err := r.retry(ctx, "list_instruments", func() error {
		var err error
		values, err = r.redisclient.HGetAll(ctx, r.key)
		return err
	})
	if err != nil {
		return nil, errors.NewTracer("instrument_list_error").Wrap(err)
	}

	out := make([]*v1.Instrument, 0, len(values))
	for isin, raw := range values {
		var inst v1.Instrument
		if err := json.Unmarshal([]byte(raw), &inst); err != nil {
			r.logger.WarnContext(ctx, "skipping undecodable instrument",
				logger.Field{Key: "action", Value: "list_instruments"},
				logger.Field{Key: "isin", Value: isin},
				logger.Field{Key: "error", Value: err.Error()},
			)
			continue
		}
		out = append(out, &inst)
	}

	slices.SortFunc(out, func(a, b *v1.Instrument) int {
		return strings.Compare(a.ISIN, b.ISIN)
	})
	return out, nil
}

// retry runs op a second time when it failed because Redis stopped answering
// and Reconnect brought the connection back.
func (r *Repository) retry(ctx context.Context, action string, op func() error) error {
	err := op()
	if err == nil || r.redisclient.Ping(ctx) == nil {
		return err
	}

	r.logger.WarnContext(ctx, "redis connection lost, reconnecting",
		logger.Field{Key: "action", Value: action},
		logger.Field{Key: "error", Value: err.Error()},
	)
	if !r.redisclient.Reconnect(ctx) {
		return err
	}

	return op()
}
