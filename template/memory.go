package template

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Memory is a Repository held in process memory.
type Memory struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*Template
}

// NewMemory returns an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{items: make(map[uuid.UUID]*Template)}
}

func (m *Memory) Get(ctx context.Context, id uuid.UUID) (*Template, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound.With(idAttr(id))
	}

	return t.clone(), nil
}

func (m *Memory) List(ctx context.Context) ([]*Template, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()

	list := make([]*Template, 0, len(m.items))
	for _, t := range m.items {
		list = append(list, t.clone())
	}

	m.mu.RUnlock()

	sortByName(list)

	return list, nil
}

func (m *Memory) Add(ctx context.Context, t *Template) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[t.ID] = t.clone()

	return nil
}

func (m *Memory) UpdateBody(ctx context.Context, id uuid.UUID, body string) error {
	return m.update(ctx, id, func(t *Template) { t.Body = body })
}

func (m *Memory) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	return m.update(ctx, id, func(t *Template) { t.Name = name })
}

func (m *Memory) update(ctx context.Context, id uuid.UUID, fn func(*Template)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.items[id]; ok {
		fn(t)
	}

	return nil
}

func (m *Memory) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, id)

	return nil
}
