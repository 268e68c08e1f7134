package kvstore

import (
	"sync"

	"github.com/topoprobe/campaign/internal/model"
)

// Memory is an in-memory key-value store. We use it for tests.
//
// The zero value is ready to use.
type Memory struct {
	// m is the underlying map.
	m map[string][]byte

	// mu provides mutual exclusion
	mu sync.Mutex
}

var _ model.KeyValueStore = &Memory{}

// Get returns a copy of the specified key's value. In case of error,
// the error type is such that errors.Is(err, ErrNoSuchKey).
func (kvs *Memory) Get(key string) ([]byte, error) {
	kvs.mu.Lock()
	defer kvs.mu.Unlock()
	value, ok := kvs.m[key]
	if !ok {
		return nil, ErrNoSuchKey
	}
	return append([]byte{}, value...), nil
}

// Set sets a copy of the value into the key-value store.
func (kvs *Memory) Set(key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	kvs.mu.Lock()
	defer kvs.mu.Unlock()
	if kvs.m == nil {
		kvs.m = make(map[string][]byte)
	}
	kvs.m[key] = append([]byte{}, value...)
	return nil
}

// Len returns the number of keys in the store.
func (kvs *Memory) Len() int {
	kvs.mu.Lock()
	defer kvs.mu.Unlock()
	return len(kvs.m)
}
