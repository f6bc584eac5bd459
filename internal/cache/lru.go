package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// LRUStore é o cache em memória do processo.
type LRUStore struct {
	lru *expirable.LRU[string, []byte]
}

func NewLRUStore(size int, ttl time.Duration) *LRUStore {
	if size <= 0 {
		size = 128
	}
	return &LRUStore{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (s *LRUStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.lru.Get(key)
	return v, ok, nil
}

func (s *LRUStore) Set(_ context.Context, key string, value []byte) error {
	s.lru.Add(key, value)
	return nil
}
