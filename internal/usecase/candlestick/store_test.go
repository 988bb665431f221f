package candlestick

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	v1 "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/candlestick/v1"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testISIN = "DE000BASF111"

var base = time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)

func minute(m int) time.Time {
	return base.Add(time.Duration(m) * time.Minute)
}

func stored(s *Store, isin string) []v1.Candle {
	ser := s.get(isin)
	if ser == nil {
		return nil
	}
	ser.mu.RLock()
	defer ser.mu.RUnlock()
	return append([]v1.Candle(nil), ser.candles...)
}

func record(t *testing.T, s *Store, price float64, at time.Time) Outcome {
	t.Helper()
	outcome, err := s.RecordQuote(testISIN, price, at)
	require.NoError(t, err)
	return outcome
}

func TestStore_QuerySeries_UnknownInstrument(t *testing.T) {
	s := NewStore(nil)

	got := s.QuerySeries("X1", minute(0))

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStore_SingleQuote(t *testing.T) {
	s := NewStore(nil)

	assert.Equal(t, Opened, record(t, s, 100, minute(0).Add(17*time.Second)))

	got := s.QuerySeries(testISIN, minute(0).Add(40*time.Second))
	require.Len(t, got, 1)
	assert.Equal(t, v1.Candle{
		OpenTimestamp:  minute(0),
		CloseTimestamp: minute(1),
		OpenPrice:      100,
		HighPrice:      100,
		LowPrice:       100,
		ClosingPrice:   100,
	}, got[0])
}

func TestStore_FoldWithinMinute(t *testing.T) {
	s := NewStore(nil)

	assert.Equal(t, Opened, record(t, s, 100, minute(0).Add(1*time.Second)))
	assert.Equal(t, Folded, record(t, s, 120, minute(0).Add(20*time.Second)))
	assert.Equal(t, Folded, record(t, s, 90, minute(0).Add(59*time.Second)))

	got := s.QuerySeries(testISIN, minute(0))
	require.Len(t, got, 1)
	assert.Equal(t, 100.0, got[0].OpenPrice)
	assert.Equal(t, 120.0, got[0].HighPrice)
	assert.Equal(t, 90.0, got[0].LowPrice)
	assert.Equal(t, 90.0, got[0].ClosingPrice)
}

func TestStore_GapFill(t *testing.T) {
	s := NewStore(nil)
	record(t, s, 100, minute(0))

	got := s.QuerySeries(testISIN, minute(2).Add(5*time.Second))

	require.Len(t, got, 3)
	for i, m := range []int{1, 2} {
		c := got[i+1]
		assert.Equal(t, minute(m), c.OpenTimestamp)
		assert.Equal(t, minute(m+1), c.CloseTimestamp)
		assert.Equal(t, 100.0, c.OpenPrice)
		assert.Equal(t, 100.0, c.HighPrice)
		assert.Equal(t, 100.0, c.LowPrice)
		assert.Equal(t, 100.0, c.ClosingPrice)
	}
}

func TestStore_GapFillCarriesClosingPriceOnly(t *testing.T) {
	s := NewStore(nil)
	record(t, s, 100, minute(0))
	record(t, s, 150, minute(0).Add(10*time.Second))
	record(t, s, 110, minute(0).Add(20*time.Second))
	record(t, s, 200, minute(3))

	got := s.QuerySeries(testISIN, minute(4))

	require.Len(t, got, 5)
	assert.Equal(t, v1.Candle{OpenTimestamp: minute(1), CloseTimestamp: minute(2), OpenPrice: 110, HighPrice: 110, LowPrice: 110, ClosingPrice: 110}, got[1])
	assert.Equal(t, v1.Candle{OpenTimestamp: minute(2), CloseTimestamp: minute(3), OpenPrice: 110, HighPrice: 110, LowPrice: 110, ClosingPrice: 110}, got[2])
	assert.Equal(t, 200.0, got[3].OpenPrice)
	assert.Equal(t, 200.0, got[4].ClosingPrice)
	assert.Equal(t, minute(4), got[4].OpenTimestamp)
}

func TestStore_Retention(t *testing.T) {
	testCases := []struct {
		name     string
		quotes   []time.Time
		queryAt  time.Time
		assertFn func(t *testing.T, storedCandles, queried []v1.Candle)
	}{
		{
			name:    "quotes forty minutes apart evict the first candle",
			quotes:  []time.Time{minute(0), minute(40)},
			queryAt: minute(40),
			assertFn: func(t *testing.T, storedCandles, queried []v1.Candle) {
				require.Len(t, storedCandles, 1)
				assert.Equal(t, minute(40), storedCandles[0].OpenTimestamp)
				require.Len(t, queried, 1)
				assert.Equal(t, minute(40), queried[0].OpenTimestamp)
			},
		},
		{
			name:    "candle exactly one window old is evicted",
			quotes:  []time.Time{minute(0), minute(30)},
			queryAt: minute(30),
			assertFn: func(t *testing.T, storedCandles, queried []v1.Candle) {
				require.Len(t, storedCandles, 1)
				assert.Equal(t, minute(30), storedCandles[0].OpenTimestamp)
			},
		},
		{
			name:    "candle one minute inside the window is kept",
			quotes:  []time.Time{minute(1), minute(30)},
			queryAt: minute(30),
			assertFn: func(t *testing.T, storedCandles, queried []v1.Candle) {
				require.Len(t, storedCandles, 2)
				require.Len(t, queried, 30)
				assert.Equal(t, minute(1), queried[0].OpenTimestamp)
				assert.Equal(t, minute(30), queried[29].OpenTimestamp)
			},
		},
		{
			name:    "reads never prune",
			quotes:  []time.Time{minute(0)},
			queryAt: minute(45),
			assertFn: func(t *testing.T, storedCandles, queried []v1.Candle) {
				require.Len(t, storedCandles, 1)
				assert.Empty(t, queried)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewStore(nil)
			for i, at := range tc.quotes {
				record(t, s, float64(100+i), at)
			}
			queried := s.QuerySeries(testISIN, tc.queryAt)
			tc.assertFn(t, stored(s, testISIN), queried)
		})
	}
}

func TestStore_FullWindowQuery(t *testing.T) {
	s := NewStore(nil)
	for m := 0; m <= 40; m++ {
		record(t, s, float64(m), minute(m))
	}

	got := s.QuerySeries(testISIN, minute(40).Add(30*time.Second))

	require.Len(t, got, 30)
	assert.Equal(t, minute(11), got[0].OpenTimestamp)
	assert.Equal(t, minute(40), got[29].OpenTimestamp)

	// querying later than the last write walks forward with flat candles
	got = s.QuerySeries(testISIN, minute(45))
	require.Len(t, got, 31)
	assert.Equal(t, minute(15), got[0].OpenTimestamp)
	assert.Equal(t, minute(45), got[30].OpenTimestamp)
	assert.Equal(t, 40.0, got[30].OpenPrice)
}

func TestStore_QueryIgnoresCandlesBeforeRange(t *testing.T) {
	s := NewStore(nil)
	record(t, s, 100, minute(0))
	record(t, s, 101, minute(10))

	got := s.QuerySeries(testISIN, minute(35))

	require.Len(t, got, 26)
	assert.Equal(t, minute(10), got[0].OpenTimestamp)
	assert.Equal(t, 101.0, got[25].ClosingPrice)
}

func TestStore_OutOfOrderQuoteIsRejected(t *testing.T) {
	s := NewStore(nil)
	record(t, s, 100, minute(5))
	before := stored(s, testISIN)

	_, err := s.RecordQuote(testISIN, 42, minute(4).Add(59*time.Second))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfOrderQuote))
	assert.Equal(t, errors.OutOfOrderQuote, errors.CodeOf(err))
	assert.Equal(t, before, stored(s, testISIN))

	// same minute is still accepted
	assert.Equal(t, Folded, record(t, s, 99, minute(5).Add(30*time.Second)))
}

func TestStore_InvalidInput(t *testing.T) {
	testCases := []struct {
		name  string
		isin  string
		price float64
		want  error
	}{
		{name: "empty isin", isin: "", price: 1, want: ErrInvalidISIN},
		{name: "blank isin", isin: "   ", price: 1, want: ErrInvalidISIN},
		{name: "NaN price", isin: testISIN, price: math.NaN(), want: ErrInvalidPrice},
		{name: "positive infinity", isin: testISIN, price: math.Inf(1), want: ErrInvalidPrice},
		{name: "negative infinity", isin: testISIN, price: math.Inf(-1), want: ErrInvalidPrice},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewStore(nil)
			_, err := s.RecordQuote(tc.isin, tc.price, minute(0))
			assert.ErrorIs(t, err, tc.want)
			assert.Empty(t, s.Instruments())
		})
	}
}

func TestStore_CustomWindow(t *testing.T) {
	s := NewStore(&Options{Window: 5 * time.Minute})
	assert.Equal(t, 5*time.Minute, s.Window())

	for m := 0; m <= 10; m++ {
		record(t, s, float64(m), minute(m))
	}

	assert.Len(t, stored(s, testISIN), 5)
	got := s.QuerySeries(testISIN, minute(12))
	require.Len(t, got, 6)
	assert.Equal(t, minute(7), got[0].OpenTimestamp)
}

func TestNewStore_InvalidWindowFallsBackToDefault(t *testing.T) {
	assert.Equal(t, 30*time.Minute, NewStore(&Options{Window: 10 * time.Second}).Window())
	assert.Equal(t, 30*time.Minute, NewStore(&Options{}).Window())
	assert.Equal(t, 2*time.Minute, NewStore(&Options{Window: 150 * time.Second}).Window())
}

func TestStore_EvictionReusesBackingArray(t *testing.T) {
	s := NewStore(nil)
	record(t, s, 1, minute(0))
	ser := s.get(testISIN)
	initialCap := cap(ser.candles)

	for m := 1; m < 500; m++ {
		record(t, s, float64(m), minute(m))
	}

	assert.Equal(t, initialCap, cap(ser.candles))
	assert.Len(t, ser.candles, 30)
}

func TestStore_Instruments(t *testing.T) {
	s := NewStore(nil)
	_, _ = s.RecordQuote("B", 1, minute(0))
	_, _ = s.RecordQuote("A", 1, minute(0))
	_, _ = s.RecordQuote("B", 2, minute(1))

	assert.Equal(t, []string{"A", "B"}, s.Instruments())
}

// randomised walk over the properties every series must keep
func TestStore_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	s := NewStore(nil)
	at := base

	folded := map[time.Time][]float64{}
	for range 2000 {
		at = at.Add(time.Duration(rng.IntN(40)) * time.Second)
		if rng.IntN(50) == 0 {
			at = at.Add(time.Duration(rng.IntN(40)) * time.Minute)
		}
		price := 50 + rng.Float64()*100
		record(t, s, price, at)
		folded[v1.Bucket(at)] = append(folded[v1.Bucket(at)], price)

		candles := stored(s, testISIN)
		cutoff := v1.Bucket(at).Add(-30 * time.Minute)
		for i, c := range candles {
			assert.Equal(t, c.OpenTimestamp.Add(time.Minute), c.CloseTimestamp)
			assert.True(t, c.OpenTimestamp.After(cutoff), "retained candle %s is too old", c.OpenTimestamp)
			if i > 0 {
				assert.True(t, c.OpenTimestamp.After(candles[i-1].OpenTimestamp), "series not strictly ascending")
			}
			assert.LessOrEqual(t, c.LowPrice, c.OpenPrice)
			assert.LessOrEqual(t, c.OpenPrice, c.HighPrice)
			assert.LessOrEqual(t, c.LowPrice, c.ClosingPrice)
			assert.LessOrEqual(t, c.ClosingPrice, c.HighPrice)
			for _, p := range folded[c.OpenTimestamp] {
				assert.LessOrEqual(t, c.LowPrice, p)
				assert.GreaterOrEqual(t, c.HighPrice, p)
			}
		}

		q := s.QuerySeries(testISIN, at)
		assert.LessOrEqual(t, len(q), 31)
		for i := 1; i < len(q); i++ {
			assert.Equal(t, q[i-1].OpenTimestamp.Add(time.Minute), q[i].OpenTimestamp)
		}
		assert.Equal(t, q, s.QuerySeries(testISIN, at))
	}
}

func TestStore_ConcurrentWritersSameInstrument(t *testing.T) {
	s := NewStore(nil)
	const writers, perWriter = 16, 250

	var wg sync.WaitGroup
	for w := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perWriter {
				price := float64(w*perWriter + i)
				_, err := s.RecordQuote(testISIN, price, minute(0).Add(time.Duration(i%60)*time.Second))
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	candles := stored(s, testISIN)
	require.Len(t, candles, 1)
	assert.Equal(t, 0.0, candles[0].LowPrice)
	assert.Equal(t, float64(writers*perWriter-1), candles[0].HighPrice)
}

func TestStore_ConcurrentReadersAndWriters(t *testing.T) {
	s := NewStore(nil)
	isins := []string{"A", "B", "C", "D"}

	var wg sync.WaitGroup
	for _, isin := range isins {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for m := range 120 {
				_, err := s.RecordQuote(isin, float64(m), minute(m))
				assert.NoError(t, err)
			}
		}()
		go func() {
			defer wg.Done()
			for m := range 120 {
				q := s.QuerySeries(isin, minute(m))
				assert.LessOrEqual(t, len(q), 31)
				for i := 1; i < len(q); i++ {
					assert.True(t, q[i].OpenTimestamp.After(q[i-1].OpenTimestamp))
				}
			}
		}()
	}
	wg.Wait()

	for _, isin := range isins {
		got := s.QuerySeries(isin, minute(119))
		require.Len(t, got, 30, isin)
		assert.Equal(t, 119.0, got[29].ClosingPrice)
	}
}

func TestStore_QueryReturnsCopies(t *testing.T) {
	s := NewStore(nil)
	record(t, s, 100, minute(0))

	got := s.QuerySeries(testISIN, minute(0))
	got[0].ClosingPrice = -1

	assert.Equal(t, 100.0, s.QuerySeries(testISIN, minute(0))[0].ClosingPrice)
}

func BenchmarkStore_RecordQuote(b *testing.B) {
	s := NewStore(nil)
	isins := make([]string, 64)
	for i := range isins {
		isins[i] = fmt.Sprintf("ISIN%08d", i)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			_, _ = s.RecordQuote(isins[i%len(isins)], float64(i), minute(i/1000))
			i++
		}
	})
}

func BenchmarkStore_QuerySeries(b *testing.B) {
	s := NewStore(nil)
	for m := range 30 {
		_, _ = s.RecordQuote(testISIN, float64(m), minute(m*2))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.QuerySeries(testISIN, minute(60))
	}
}
