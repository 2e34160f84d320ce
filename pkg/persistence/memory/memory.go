// Package memory provides an in-process Medium, used for tests and throwaway sessions.
package memory

import (
	"context"
	"sync"
)

// Medium keeps values in a map. It is safe for concurrent use.
type Medium struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMedium creates an empty in-memory medium.
func NewMedium() *Medium {
	return &Medium{values: make(map[string]string)}
}

func (m *Medium) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]

	return value, ok, nil
}

func (m *Medium) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value

	return nil
}

func (m *Medium) HealthCheck(_ context.Context) error {
	return nil
}

func (m *Medium) Close(_ context.Context) error {
	return nil
}
