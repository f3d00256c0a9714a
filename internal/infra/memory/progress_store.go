package memory

import (
	"context"
	"encoding/json"
	"sync"

	"adaptive-assessment-service/internal/domain"
)

// ProgressStore is an in-memory implementation of app.ProgressStore. It keeps
// the encoded snapshot so callers never share maps with the stored copy.
type ProgressStore struct {
	mu   sync.RWMutex
	data []byte
}

func NewProgressStore() *ProgressStore {
	return &ProgressStore{}
}

func (s *ProgressStore) Load(_ context.Context) (domain.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return domain.Progress{}, domain.ErrProgressNotFound
	}
	var p domain.Progress
	if err := json.Unmarshal(s.data, &p); err != nil {
		return domain.Progress{}, err
	}
	return p, nil
}

func (s *ProgressStore) Save(_ context.Context, progress domain.Progress) error {
	data, err := json.Marshal(progress)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

func (s *ProgressStore) Delete(_ context.Context) error {
	s.mu.Lock()
	s.data = nil
	s.mu.Unlock()
	return nil
}
