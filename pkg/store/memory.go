package store

import (
	"context"
	"sync"
)

// Memory is the in-process Store. It is the default backend and the fake the
// workflow tests run against.
type Memory struct {
	mu      sync.RWMutex
	slots   map[Slot][]byte
	nextSub int
	subs    map[Slot]map[int]func()
}

func NewMemory() *Memory {
	return &Memory{
		slots: make(map[Slot][]byte),
		subs:  make(map[Slot]map[int]func()),
	}
}

var _ Store = (*Memory)(nil)

func (m *Memory) Get(ctx context.Context, slot Slot) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.slots[slot]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (m *Memory) Set(ctx context.Context, slot Slot, data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)

	m.mu.Lock()
	m.slots[slot] = cp
	watchers := m.watchers(slot)
	m.mu.Unlock()

	// notifications run off the caller's path, like a cross-tab storage event
	for _, fn := range watchers {
		go fn()
	}
	return nil
}

func (m *Memory) Delete(ctx context.Context, slot Slot) error {
	m.mu.Lock()
	delete(m.slots, slot)
	watchers := m.watchers(slot)
	m.mu.Unlock()

	for _, fn := range watchers {
		go fn()
	}
	return nil
}

func (m *Memory) Subscribe(slot Slot, fn func()) (cancel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.subs[slot] == nil {
		m.subs[slot] = make(map[int]func())
	}
	id := m.nextSub
	m.nextSub++
	m.subs[slot][id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs[slot], id)
	}
}

// watchers must be called with mu held.
func (m *Memory) watchers(slot Slot) []func() {
	fns := make([]func(), 0, len(m.subs[slot]))
	for _, fn := range m.subs[slot] {
		fns = append(fns, fn)
	}
	return fns
}
