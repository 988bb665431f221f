package instrument

import (
	"context"
	"slices"
	"strings"
	"sync"

	v1 "github.com/muhammadchandra19/exchange/services/candlestick-service/internal/domain/instrument/v1"
)

// Repository keeps active instruments in process memory.
type Repository struct {
	mu          sync.RWMutex
	instruments map[string]v1.Instrument
}

var _ v1.InstrumentRepository = (*Repository)(nil)

// NewRepository creates an empty in-memory instrument repository.
func NewRepository() *Repository {
	return &Repository{
		instruments: make(map[string]v1.Instrument),
	}
}

// Add marks the instrument active, replacing any previous description.
func (r *Repository) Add(ctx context.Context, instrument *v1.Instrument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instruments[instrument.ISIN] = *instrument
	return nil
}

// Remove deactivates isin. Removing an unknown isin is a no-op.
func (r *Repository) Remove(ctx context.Context, isin string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.instruments, isin)
	return nil
}

// Exists reports whether isin is active.
func (r *Repository) Exists(ctx context.Context, isin string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.instruments[isin]
	return ok, nil
}

// List returns the active instruments ordered by ISIN.
func (r *Repository) List(ctx context.Context) ([]*v1.Instrument, error) {
	r.mu.RLock()
	out := make([]*v1.Instrument, 0, len(r.instruments))
	for _, inst := range r.instruments {
		out = append(out, &inst)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b *v1.Instrument) int {
		return strings.Compare(a.ISIN, b.ISIN)
	})
	return out, nil
}
