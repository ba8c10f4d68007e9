package com

import (
	"errors"
	"sync"
)

// Map defines a concurrent-safe map structure.
type Map[K comparable, V any] struct {
	m  map[K]V
	mu sync.Mutex
}

var ErrNotFound = errors.New("not found")

func NewMap[K comparable, V any]() Map[K, V] { return Map[K, V]{m: make(map[K]V, 10)} }

func (m *Map[K, _]) Has(key K) bool     { _, err := m.Find(key); return err == nil }
func (m *Map[_, _]) IsEmpty() bool      { return m.Len() == 0 }
func (m *Map[_, _]) Len() int           { m.mu.Lock(); defer m.mu.Unlock(); return len(m.m) }
func (m *Map[K, V]) Put(key K, value V) { m.mu.Lock(); m.m[key] = value; m.mu.Unlock() }

// Pop removes a value by its key and returns it,
// ErrNotFound means that nothing was removed.
func (m *Map[K, V]) Pop(key K) (value V, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.m[key]
	if !ok {
		return value, ErrNotFound
	}
	delete(m.m, key)
	return v, nil
}

// Find searches for the first match by a specified key value,
// returns ErrNotFound otherwise.
func (m *Map[K, V]) Find(key K) (value V, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.m[key]; ok {
		return v, nil
	}
	return value, ErrNotFound
}

// Values returns a copy of all the values.
func (m *Map[K, V]) Values() []V {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]V, 0, len(m.m))
	for _, v := range m.m {
		out = append(out, v)
	}
	return out
}

type NetClient[K comparable] interface {
	Disconnect()
	Id() K
}

// NetMap is a map of network clients keyed by their ids.
type NetMap[K comparable, T NetClient[K]] struct{ Map[K, T] }

func NewNetMap[K comparable, T NetClient[K]]() NetMap[K, T] {
	return NetMap[K, T]{Map: NewMap[K, T]()}
}

func (m *NetMap[K, T]) Add(client T) { m.Put(client.Id(), client) }
