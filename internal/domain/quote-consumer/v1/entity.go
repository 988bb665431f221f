package v1

// EventTypeQuote is the only quote event type.
const EventTypeQuote = "QUOTE"

// QuoteEvent is a raw quote event as published by the partner feed.
type QuoteEvent struct {
	Type string    `json:"type"`
	Data QuoteData `json:"data"`
}

// QuoteData carries the quoted instrument and price.
type QuoteData struct {
	ISIN  string  `json:"isin"`
	Price float64 `json:"price"`
}
