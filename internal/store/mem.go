package store

import (
	"context"
	"sync"

	"github.com/dgallion1/manweave/internal/manual"
)

// MemStore is an in-memory page store, for tests and for hosts that embed
// their manual content.
type MemStore struct {
	mu    sync.Mutex
	pages map[string]string
}

func NewMemStore(pages map[string]string) *MemStore {
	copied := make(map[string]string, len(pages))
	for id, body := range pages {
		copied[id] = body
	}
	return &MemStore{pages: copied}
}

func (s *MemStore) Load(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	body, ok := s.pages[id]
	if !ok {
		return "", &manual.NotFoundError{ID: id}
	}
	return body, nil
}

// Put adds or replaces a page body.
func (s *MemStore) Put(id, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[id] = body
}
