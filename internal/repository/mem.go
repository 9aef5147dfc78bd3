package repository

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// MemRepo is an in-process store with the same contract as Repo. It is
// selected with STORE_DRIVER=memory and backs the endpoint tests.
type MemRepo[T any] struct {
	t    Table[T]
	mu   sync.RWMutex
	rows map[int64]T
	last int64
}

// NewMemRepo returns an empty in-memory store for the table described by t.
func NewMemRepo[T any](t Table[T]) *MemRepo[T] {
	return &MemRepo[T]{t: t, rows: map[int64]T{}}
}

func (m *MemRepo[T]) Table() Table[T] { return m.t }

func (m *MemRepo[T]) Ping(context.Context) error { return nil }

func (m *MemRepo[T]) FindAll(context.Context) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]int64, 0, len(m.rows))
	for id := range m.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.rows[id])
	}
	return out, nil
}

func (m *MemRepo[T]) FindByID(_ context.Context, id int64) (*T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.rows[id]
	if !ok {
		return nil, &NotFoundError{Entity: m.t.Entity, ID: id}
	}
	return &v, nil
}

func (m *MemRepo[T]) FindFirstBy(ctx context.Context, column string, value any) (*T, error) {
	i := m.t.column(column)
	if i < 0 {
		return nil, fmt.Errorf("%w %q on %s", ErrUnknownColumn, column, m.t.Name)
	}
	all, _ := m.FindAll(ctx)
	for k := range all {
		field := reflect.ValueOf(m.t.Fields(&all[k])[i]).Elem().Interface()
		if field == value {
			return &all[k], nil
		}
	}
	return nil, &NotFoundError{Entity: m.t.Entity}
}

func (m *MemRepo[T]) ExistsByID(_ context.Context, id int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.rows[id]
	return ok, nil
}

func (m *MemRepo[T]) Insert(_ context.Context, e *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last++
	*m.t.ID(e) = m.last
	m.rows[m.last] = *e
	return nil
}

func (m *MemRepo[T]) Update(_ context.Context, e *T) error {
	id := *m.t.ID(e)
	if id == 0 {
		return ErrMissingID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if id > m.last {
		m.last = id
	}
	m.rows[id] = *e
	return nil
}

func (m *MemRepo[T]) Save(ctx context.Context, e *T) error {
	if *m.t.ID(e) == 0 {
		return m.Insert(ctx, e)
	}
	return m.Update(ctx, e)
}

func (m *MemRepo[T]) DeleteByID(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}
