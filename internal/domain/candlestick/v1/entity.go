package v1

import (
	"time"
)

// CandleWidth is the fixed bucket width of every candle.
const CandleWidth = time.Minute

// Candle is the OHLC summary of one one-minute bucket.
type Candle struct {
	OpenTimestamp  time.Time
	CloseTimestamp time.Time
	OpenPrice      float64
	HighPrice      float64
	LowPrice       float64
	ClosingPrice   float64
}

// NewCandle opens a candle for bucket with all four prices set to price.
func NewCandle(bucket time.Time, price float64) Candle {
	return Candle{
		OpenTimestamp:  bucket,
		CloseTimestamp: bucket.Add(CandleWidth),
		OpenPrice:      price,
		HighPrice:      price,
		LowPrice:       price,
		ClosingPrice:   price,
	}
}

// Fold applies a later quote from the same bucket. OpenPrice is left untouched.
func (c *Candle) Fold(price float64) {
	c.ClosingPrice = price
	c.HighPrice = max(c.HighPrice, price)
	c.LowPrice = min(c.LowPrice, price)
}

// FlatAt returns a gap-fill candle at bucket carrying c's closing price in all four prices.
func (c Candle) FlatAt(bucket time.Time) Candle {
	return NewCandle(bucket, c.ClosingPrice)
}

// Quote is a single price observation for an instrument.
type Quote struct {
	ISIN       string
	Price      float64
	ObservedAt time.Time
}

// Bucket truncates t to the start of its minute in UTC.
func Bucket(t time.Time) time.Time {
	return t.UTC().Truncate(CandleWidth)
}
