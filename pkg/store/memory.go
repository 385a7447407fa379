package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/agentstation/confkit/pkg/errors"
)

// Memory is a concurrent safe Store kept in process. Records are stored
// encoded so that callers never share memory with the store.
type Memory[R Record] struct {
	mu       sync.RWMutex
	resource string
	records  map[string][]byte
	keys     map[string]string
}

// NewMemory creates an empty in-memory store. resource names the records in
// error messages.
func NewMemory[R Record](resource string) *Memory[R] {
	return &Memory[R]{
		resource: resource,
		records:  make(map[string][]byte),
		keys:     make(map[string]string),
	}
}

// GetByID implements Store.
func (m *Memory[R]) GetByID(ctx context.Context, id string) (R, bool, error) {
	if err := ctx.Err(); err != nil {
		var zero R
		return zero, false, errors.WrapStore("get", m.resource, err)
	}
	m.mu.RLock()
	data, ok := m.records[id]
	m.mu.RUnlock()
	return m.decode(data, ok)
}

// GetByKey implements Store.
func (m *Memory[R]) GetByKey(ctx context.Context, key string) (R, bool, error) {
	if err := ctx.Err(); err != nil {
		var zero R
		return zero, false, errors.WrapStore("get", m.resource, err)
	}
	m.mu.RLock()
	data, ok := m.records[m.keys[key]]
	m.mu.RUnlock()
	return m.decode(data, ok)
}

// GetByKeys implements Store.
func (m *Memory[R]) GetByKeys(ctx context.Context, keys []string) ([]R, error) {
	result := make([]R, 0, len(keys))
	for _, key := range keys {
		r, ok, err := m.GetByKey(ctx, key)
		if err != nil {
			return nil, err
		}
		if ok {
			result = append(result, r)
		}
	}
	return result, nil
}

// Insert implements Store.
func (m *Memory[R]) Insert(ctx context.Context, r R) error {
	if err := ctx.Err(); err != nil {
		return errors.WrapStore("insert", m.resource, err)
	}
	data, err := json.Marshal(r)
	if err != nil {
		return errors.WrapStore("insert", m.resource, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id, key := r.RecordID(), r.RecordKey()
	if _, exists := m.records[id]; exists {
		return errors.NewDuplicateIDError(m.resource, id)
	}
	if _, taken := m.keys[key]; taken {
		return errors.NewDuplicateKeyError(m.resource, key)
	}
	m.records[id] = data
	m.keys[key] = id
	return nil
}

// Update implements Store.
func (m *Memory[R]) Update(ctx context.Context, id string, r R) error {
	if err := ctx.Err(); err != nil {
		return errors.WrapStore("update", m.resource, err)
	}
	if err := CheckUpdate(m.resource, id, r); err != nil {
		return err
	}
	data, err := json.Marshal(r)
	if err != nil {
		return errors.WrapStore("update", m.resource, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	old, exists := m.records[id]
	if !exists {
		return errors.NewNotFoundError(m.resource, id)
	}
	key := r.RecordKey()
	if owner, taken := m.keys[key]; taken && owner != id {
		return errors.NewDuplicateKeyError(m.resource, key)
	}

	var previous R
	if err := json.Unmarshal(old, &previous); err == nil && previous.RecordKey() != key {
		delete(m.keys, previous.RecordKey())
	}
	m.records[id] = data
	m.keys[key] = id
	return nil
}

// ListAll implements Store.
func (m *Memory[R]) ListAll(ctx context.Context) ([]R, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapStore("list", m.resource, err)
	}

	m.mu.RLock()
	keys := make([]string, 0, len(m.keys))
	for key := range m.keys {
		keys = append(keys, key)
	}
	m.mu.RUnlock()

	sort.Strings(keys)
	return m.GetByKeys(ctx, keys)
}

// DeleteByID implements Store.
func (m *Memory[R]) DeleteByID(ctx context.Context, id string) (R, bool, error) {
	if err := ctx.Err(); err != nil {
		var zero R
		return zero, false, errors.WrapStore("delete", m.resource, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.records[id]
	r, found, err := m.decode(data, ok)
	if !found || err != nil {
		return r, found, err
	}
	delete(m.records, id)
	if m.keys[r.RecordKey()] == id {
		delete(m.keys, r.RecordKey())
	}
	return r, true, nil
}

// Len returns the number of records.
func (m *Memory[R]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

func (m *Memory[R]) decode(data []byte, ok bool) (R, bool, error) {
	var r R
	if !ok {
		return r, false, nil
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return r, false, errors.WrapStore("decode", m.resource, err)
	}
	return r, true, nil
}
