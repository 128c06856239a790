package store

import (
	"context"
	"sync"

	"charsheet/pkg/geom"
)

// Memory is an in-process Store.
type Memory struct {
	mu        sync.RWMutex
	namespace string
	records   map[string]map[string]geom.Geometry
	closed    bool
}

func NewMemory(namespace string) *Memory {
	return &Memory{namespace: namespace, records: make(map[string]map[string]geom.Geometry)}
}

func (m *Memory) Get(ctx context.Context, entityID, key string) (geom.Geometry, bool, error) {
	if err := validate(ctx, entityID, key); err != nil {
		return geom.Geometry{}, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return geom.Geometry{}, false, ErrClosed
	}
	g, ok := m.records[m.entityKey(entityID)][key]
	return g, ok, nil
}

func (m *Memory) Set(ctx context.Context, entityID, key string, g geom.Geometry) error {
	if err := validate(ctx, entityID, key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	ek := m.entityKey(entityID)
	if m.records[ek] == nil {
		m.records[ek] = make(map[string]geom.Geometry)
	}
	m.records[ek][key] = g
	return nil
}

func (m *Memory) Delete(ctx context.Context, entityID, key string) error {
	if err := validate(ctx, entityID, key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.records[m.entityKey(entityID)], key)
	return nil
}

func (m *Memory) List(ctx context.Context, entityID string) (map[string]geom.Geometry, error) {
	if err := validate(ctx, entityID, "*"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	out := make(map[string]geom.Geometry)
	for k, g := range m.records[m.entityKey(entityID)] {
		out[k] = g
	}
	return out, nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *Memory) entityKey(entityID string) string {
	return m.namespace + "/" + entityID
}
