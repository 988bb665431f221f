package candlestick

import (
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	v1 "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/candlestick/v1"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/errors"
)

// Outcome tells whether a recorded quote opened a new candle or was folded into the current one.
type Outcome int

const (
	// Opened means the quote started a new candle.
	Opened Outcome = iota + 1
	// Folded means the quote updated the newest candle in place.
	Folded
)

var (
	// ErrInvalidISIN is returned for empty instrument keys.
	ErrInvalidISIN = errors.NewErrorDetails("isin must not be empty", string(errors.InvalidISIN), "isin")
	// ErrInvalidPrice is returned for NaN or infinite prices.
	ErrInvalidPrice = errors.NewErrorDetails("price must be a finite number", string(errors.InvalidPrice), "price")
	// ErrOutOfOrderQuote is returned when a quote's minute precedes the newest stored candle.
	ErrOutOfOrderQuote = errors.NewErrorDetails("quote is older than the newest candle", string(errors.OutOfOrderQuote), "observedAt")
)

// Store keeps a rolling window of one-minute candles per instrument.
//
// The key map is guarded by mu. Each series has its own lock, so writers on
// different instruments never contend once their series exists. A reader of
// one series sees it either fully before or fully after any write.
type Store struct {
	mu     sync.RWMutex
	series map[string]*series
	window time.Duration
}

// series holds stored candles ascending by OpenTimestamp, one per minute at most.
// Retention evicts from the front in place, so the backing array is reused.
type series struct {
	mu      sync.RWMutex
	candles []v1.Candle
}

// NewStore creates an empty store. A nil opts uses DefaultStoreOptions.
func NewStore(opts *Options) *Store {
	if opts == nil {
		opts = DefaultStoreOptions()
	}
	window := opts.Window.Truncate(v1.CandleWidth)
	if window < v1.CandleWidth {
		window = DefaultStoreOptions().Window
	}

	return &Store{
		series: make(map[string]*series),
		window: window,
	}
}

// Window returns the retention window.
func (s *Store) Window() time.Duration {
	return s.window
}

// RecordQuote folds price into the candle for observedAt's minute, opening a
// new candle when the newest one has already closed, and evicts candles that
// opened at or before one window before that minute.
func (s *Store) RecordQuote(isin string, price float64, observedAt time.Time) (Outcome, error) {
	if strings.TrimSpace(isin) == "" {
		return 0, ErrInvalidISIN
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, ErrInvalidPrice
	}

	bucket := v1.Bucket(observedAt)
	ser := s.getOrCreate(isin)

	ser.mu.Lock()
	defer ser.mu.Unlock()

	var outcome Outcome
	if n := len(ser.candles); n == 0 {
		ser.candles = append(ser.candles, v1.NewCandle(bucket, price))
		outcome = Opened
	} else {
		last := &ser.candles[n-1]
		switch {
		case bucket.Before(last.OpenTimestamp):
			return 0, ErrOutOfOrderQuote
		case !last.CloseTimestamp.After(bucket):
			ser.candles = append(ser.candles, v1.NewCandle(bucket, price))
			outcome = Opened
		default:
			last.Fold(price)
			outcome = Folded
		}
	}

	ser.evictThrough(bucket.Add(-s.window))

	return outcome, nil
}

// QuerySeries rebuilds the minute series from one window before asOf's minute
// up to asOf's minute, both inclusive. Minutes without a stored candle repeat
// the previous candle's closing price; minutes before the first stored candle
// in range are omitted. Unknown instruments yield an empty slice.
func (s *Store) QuerySeries(isin string, asOf time.Time) []v1.Candle {
	ser := s.get(isin)
	if ser == nil {
		return []v1.Candle{}
	}

	end := v1.Bucket(asOf)
	start := end.Add(-s.window)

	ser.mu.RLock()
	defer ser.mu.RUnlock()

	// skip stored candles older than the range
	i, _ := slices.BinarySearchFunc(ser.candles, start, func(c v1.Candle, t time.Time) int {
		return c.OpenTimestamp.Compare(t)
	})

	out := make([]v1.Candle, 0, int(s.window/v1.CandleWidth)+1)
	var lastSeen *v1.Candle
	for t := start; !t.After(end); t = t.Add(v1.CandleWidth) {
		if i < len(ser.candles) && ser.candles[i].OpenTimestamp.Equal(t) {
			out = append(out, ser.candles[i])
			lastSeen = &ser.candles[i]
			i++
			continue
		}
		if lastSeen != nil {
			out = append(out, lastSeen.FlatAt(t))
		}
	}

	return out
}

// Instruments returns the keys that currently hold a series.
func (s *Store) Instruments() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.series))
	for k := range s.series {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (s *Store) get(isin string) *series {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.series[isin]
}

func (s *Store) getOrCreate(isin string) *series {
	if ser := s.get(isin); ser != nil {
		return ser
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// another writer may have created it between the two locks
	if ser, ok := s.series[isin]; ok {
		return ser
	}
	ser := &series{
		candles: make([]v1.Candle, 0, int(s.window/v1.CandleWidth)+1),
	}
	s.series[isin] = ser
	return ser
}

// evictThrough drops every candle whose OpenTimestamp is at or before cutoff.
// Callers hold ser.mu.
func (ser *series) evictThrough(cutoff time.Time) {
	n := 0
	for n < len(ser.candles) && !ser.candles[n].OpenTimestamp.After(cutoff) {
		n++
	}
	if n > 0 {
		ser.candles = slices.Delete(ser.candles, 0, n)
	}
}
