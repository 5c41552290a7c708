package service

import (
	"context"
	"sync"
)

// MemoryGuard is the single-instance in-flight guard.
type MemoryGuard struct {
	mu   sync.Mutex
	held map[string]string
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{held: map[string]string{}}
}

func (g *MemoryGuard) Begin(_ context.Context, key, state string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.held[key]; ok {
		return false, nil
	}
	g.held[key] = state
	return true, nil
}

func (g *MemoryGuard) End(_ context.Context, key string) {
	g.mu.Lock()
	delete(g.held, key)
	g.mu.Unlock()
}

func (g *MemoryGuard) Current(_ context.Context, key string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.held[key], nil
}
