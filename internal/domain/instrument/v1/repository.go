package v1

import (
	"context"
)

//go:generate mockgen -source=repository.go -destination=mock/repository_mock.go -package=mock

// InstrumentRepository keeps the set of active instruments.
type InstrumentRepository interface {
	Add(ctx context.Context, instrument *Instrument) error
	Remove(ctx context.Context, isin string) error
	Exists(ctx context.Context, isin string) (bool, error)
	List(ctx context.Context) ([]*Instrument, error)
}
