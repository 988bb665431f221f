package main

import (
	"math"
	"math/rand/v2"
	"strings"

	instrumentconsumer "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/instrument-consumer/v1"
	quoteconsumer "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/quote-consumer/v1"
)

const isinCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// generateISIN creates a random ISIN-shaped key: country code, nine
// alphanumerics, one digit.
func generateISIN(rng *rand.Rand) string {
	var sb strings.Builder
	sb.WriteString("XX")
	for range 9 {
		sb.WriteByte(isinCharset[rng.IntN(len(isinCharset))])
	}
	sb.WriteByte(byte('0' + rng.IntN(10)))
	return sb.String()
}

// generateInstruments creates count ADD events with distinct ISINs.
func generateInstruments(rng *rand.Rand, count int) []instrumentconsumer.InstrumentEvent {
	seen := make(map[string]struct{}, count)
	events := make([]instrumentconsumer.InstrumentEvent, 0, count)

	for len(events) < count {
		isin := generateISIN(rng)
		if _, ok := seen[isin]; ok {
			continue
		}
		seen[isin] = struct{}{}

		events = append(events, instrumentconsumer.InstrumentEvent{
			Type: instrumentconsumer.EventTypeAdd,
			Data: instrumentconsumer.InstrumentData{
				ISIN:        isin,
				Description: "simulated instrument " + isin,
			},
		})
	}

	return events
}

// walker produces a random-walk price per instrument.
type walker struct {
	rng    *rand.Rand
	step   float64
	prices map[string]float64
}

func newWalker(rng *rand.Rand, isins []string, basePrice, step float64) *walker {
	prices := make(map[string]float64, len(isins))
	for _, isin := range isins {
		prices[isin] = basePrice * (0.5 + rng.Float64())
	}
	return &walker{rng: rng, step: step, prices: prices}
}

// next moves isin's price by up to ±step percent, rounded to four decimals
// and kept positive.
func (w *walker) next(isin string) quoteconsumer.QuoteEvent {
	price := w.prices[isin]
	price *= 1 + (w.rng.Float64()*2-1)*w.step/100
	price = math.Round(price*1e4) / 1e4
	if price <= 0 {
		price = 0.0001
	}
	w.prices[isin] = price

	return quoteconsumer.QuoteEvent{
		Type: quoteconsumer.EventTypeQuote,
		Data: quoteconsumer.QuoteData{ISIN: isin, Price: price},
	}
}
