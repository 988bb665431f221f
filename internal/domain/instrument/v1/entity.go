package v1

import (
	"time"
)

// Instrument is an instrument currently listed by the partner.
type Instrument struct {
	ISIN        string    `json:"isin"`
	Description string    `json:"description"`
	AddedAt     time.Time `json:"addedAt"`
}
