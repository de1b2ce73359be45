package menu

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// Source loads a full menu snapshot from wherever the shop keeps it
// (Google Sheets, a local YAML file, a test fixture).
type Source interface {
	Load(ctx context.Context) (*Catalog, error)
}

// Service owns the current catalog snapshot. Refresh replaces the snapshot
// atomically; readers keep the last good one if a refresh fails.
type Service struct {
	mu      sync.RWMutex
	src     Source
	current *Catalog
}

func NewService(src Source) *Service {
	return &Service{src: src}
}

// Snapshot returns the current catalog. Callers must hold the returned
// pointer for the duration of one interaction instead of re-reading it.
func (s *Service) Snapshot() (*Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNoCatalog
	}
	return s.current, nil
}

// Refresh loads a new snapshot and swaps it in. On failure the previous
// snapshot stays in place.
func (s *Service) Refresh(ctx context.Context) error {
	c, err := s.src.Load(ctx)
	if err != nil {
		return fmt.Errorf("load menu: %w", err)
	}
	s.mu.Lock()
	s.current = c
	s.mu.Unlock()
	log.Printf("menu refreshed: %d drinks, %d milks, %d syrups",
		len(c.drinks), len(c.milks), len(c.syrups))
	return nil
}
