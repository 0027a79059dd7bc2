package snapshot

import (
	"fmt"
	"sync"

	"clima-etl/internal/weather"
)

// MemoryStore satisfies the Store contract without touching disk. The
// read-back validation works against any medium, so tests and ephemeral
// deployments can swap this in for the file store.
type MemoryStore struct {
	mu  sync.RWMutex
	rec *weather.WeatherRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Write(rec weather.WeatherRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := rec
	s.rec = &cp
	return nil
}

func (s *MemoryStore) Read() (weather.WeatherRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.rec == nil {
		return weather.WeatherRecord{}, fmt.Errorf("%w: no snapshot recorded", weather.ErrIORead)
	}
	if err := s.rec.Validate(); err != nil {
		return *s.rec, err
	}
	return *s.rec, nil
}
