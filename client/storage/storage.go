// Package storage abstracts the browser's localStorage/sessionStorage and their
// native stand-ins behind one string key-value contract.
package storage

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnavailable marks any failure to reach the backing store. Callers recover
// from it locally and never surface it to the user.
var ErrUnavailable = errors.New("storage unavailable")

// Store is a string key-value store scoped to an origin (durable) or a
// browsing session.
type Store interface {
	// Get returns the value and whether the key was present.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// Unavailable wraps err so that errors.Is(err, ErrUnavailable) holds.
func Unavailable(op, key string, err error) error {
	return fmt.Errorf("%w: %s %q: %v", ErrUnavailable, op, key, err)
}

// Memory is an in-process Store. Fail forces every call to return
// ErrUnavailable, which mimics disabled or full browser storage.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
	Fail bool
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Fail {
		return "", false, Unavailable("get", key, errors.New("disabled"))
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return Unavailable("set", key, errors.New("disabled"))
	}
	m.data[key] = value
	return nil
}

func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return Unavailable("remove", key, errors.New("disabled"))
	}
	delete(m.data, key)
	return nil
}

// Len reports the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
