package v1

// Instrument event types.
const (
	EventTypeAdd    = "ADD"
	EventTypeDelete = "DELETE"
)

// InstrumentEvent is a raw instrument lifecycle event as published by the partner feed.
type InstrumentEvent struct {
	Type string         `json:"type"`
	Data InstrumentData `json:"data"`
}

// InstrumentData identifies the instrument an event refers to.
type InstrumentData struct {
	ISIN        string `json:"isin"`
	Description string `json:"description"`
}
