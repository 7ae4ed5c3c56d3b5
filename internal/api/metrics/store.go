package metrics

import (
	"context"
	"time"

	"github.com/charactercatalog/catalog-api/internal/core/domain"
	"github.com/charactercatalog/catalog-api/internal/core/ports"
)

// InstrumentedStore records timing, errors and collection size for every
// call to the wrapped store.
type InstrumentedStore struct {
	next    ports.CharacterStore
	backend string
}

// InstrumentStore wraps store so its operations are observed under the
// given backend label.
func InstrumentStore(backend string, store ports.CharacterStore) *InstrumentedStore {
	return &InstrumentedStore{next: store, backend: backend}
}

func (s *InstrumentedStore) Load(ctx context.Context) ([]domain.Character, error) {
	start := time.Now()
	chars, err := s.next.Load(ctx)
	s.observe("load", start, err)
	if err == nil {
		CharactersStored.Set(float64(len(chars)))
	}
	return chars, err
}

func (s *InstrumentedStore) Save(ctx context.Context, chars []domain.Character) error {
	start := time.Now()
	err := s.next.Save(ctx, chars)
	s.observe("save", start, err)
	if err == nil {
		CharactersStored.Set(float64(len(chars)))
	}
	return err
}

// Ping forwards to the wrapped store when it supports pinging.
func (s *InstrumentedStore) Ping(ctx context.Context) error {
	if p, ok := s.next.(ports.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (s *InstrumentedStore) observe(op string, start time.Time, err error) {
	StoreOperationDuration.WithLabelValues(s.backend, op).Observe(time.Since(start).Seconds())
	if err != nil {
		StoreErrorsTotal.WithLabelValues(s.backend, op).Inc()
	}
}
