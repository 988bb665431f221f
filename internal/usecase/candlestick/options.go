package candlestick

import "time"

// Options represents configuration options for the Store.
type Options struct {
	// Window is how far back candles are retained and how far back a query reaches.
	Window time.Duration
}

// DefaultStoreOptions returns the default store options.
func DefaultStoreOptions() *Options {
	return &Options{
		Window: 30 * time.Minute,
	}
}
