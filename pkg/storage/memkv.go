package storage

import (
	"bytes"
	"sort"
	"sync"
)

var (
	_ KV      = (*memKV)(nil)
	_ KVBatch = (*memBatch)(nil)
)

type memKV struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func newMemKV() *memKV {
	return &memKV{objects: make(map[string][]byte)}
}

func (m *memKV) Get(key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.objects[string(key)]
	if !ok {
		return nil, ErrNotFound
	}

	return d, nil
}

func (m *memKV) Set(key, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.objects[string(key)] = v

	return nil
}

func (m *memKV) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	m.mu.RLock()
	snapshot := make(map[string][]byte)
	for k, v := range m.objects {
		if bytes.HasPrefix([]byte(k), prefix) {
			snapshot[k] = v
		}
	}
	m.mu.RUnlock()

	return iterateSorted(snapshot, fn)
}

func (m *memKV) NewBatch() KVBatch {
	return &memBatch{parent: m, pending: make(map[string][]byte)}
}

func (m *memKV) Close() error {
	return nil
}

type memBatch struct {
	parent  *memKV
	pending map[string][]byte
}

func (b *memBatch) Get(key []byte) ([]byte, error) {
	if v, ok := b.pending[string(key)]; ok {
		return v, nil
	}

	return b.parent.Get(key)
}

func (b *memBatch) Set(key, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)

	b.pending[string(key)] = v

	return nil
}

func (b *memBatch) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	merged := make(map[string][]byte)

	if err := b.parent.Iterate(prefix, func(k, v []byte) error {
		merged[string(k)] = v
		return nil
	}); err != nil {
		return err
	}

	for k, v := range b.pending {
		if bytes.HasPrefix([]byte(k), prefix) {
			merged[k] = v
		}
	}

	return iterateSorted(merged, fn)
}

func (b *memBatch) Commit() error {
	b.parent.mu.Lock()
	defer b.parent.mu.Unlock()

	for k, v := range b.pending {
		b.parent.objects[k] = v
	}
	b.pending = make(map[string][]byte)

	return nil
}

func (b *memBatch) Close() error {
	b.pending = nil
	return nil
}

func iterateSorted(objs map[string][]byte, fn func(key, value []byte) error) error {
	keys := make([]string, 0, len(objs))
	for k := range objs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := fn([]byte(k), objs[k]); err != nil {
			return err
		}
	}

	return nil
}
