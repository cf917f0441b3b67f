package statestore

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore keeps transactions in process memory. The go-cache
// janitor reaps abandoned entries in the background; TakeIfValid still
// checks age itself so a physically present entry past the window is
// NotFound.
type MemoryStore struct {
	mu    sync.Mutex
	cache *gocache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(TTL, 10*time.Minute),
	}
}

func (s *MemoryStore) Put(ctx context.Context, state, codeVerifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Set(state, Transaction{
		CodeVerifier: codeVerifier,
		CreatedAt:    NowFunc(),
	}, gocache.DefaultExpiration)
	return nil
}

func (s *MemoryStore) TakeIfValid(ctx context.Context, state string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.cache.Get(state)
	if !ok {
		return "", ErrNotFound
	}
	s.cache.Delete(state)

	txn, ok := v.(Transaction)
	if !ok {
		return "", ErrNotFound
	}
	if NowFunc().Sub(txn.CreatedAt) > TTL {
		return "", ErrNotFound
	}
	return txn.CodeVerifier, nil
}
