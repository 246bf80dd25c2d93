package typedi

import (
	"reflect"
	"sort"
	"sync"
)

// instanceStore holds a container's two stores: the type-keyed instance
// cache and the string-keyed value store. One lock guards both so that
// clear is observed atomically.
type instanceStore struct {
	mu sync.RWMutex

	instances map[reflect.Type]cacheEntry
	order     []reflect.Type
	values    map[string]any

	// closed rejects writes once the container has been closed
	closed bool
}

// cacheEntry is a cached singleton. owned is true when the container
// constructed the instance itself and is therefore responsible for disposing it.
type cacheEntry struct {
	instance any
	owned    bool
}

func newInstanceStore() *instanceStore {
	return &instanceStore{
		instances: make(map[reflect.Type]cacheEntry),
		values:    make(map[string]any),
	}
}

func (s *instanceStore) getInstance(t reflect.Type) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.instances[t]
	return entry.instance, ok
}

// setInstance caches instance under t. It reports false, storing nothing,
// when the store has been closed.
func (s *instanceStore) setInstance(t reflect.Type, instance any, owned bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	if _, exists := s.instances[t]; exists {
		s.removeOrder(t)
	}

	s.instances[t] = cacheEntry{instance: instance, owned: owned}
	s.order = append(s.order, t)
	return true
}

func (s *instanceStore) hasInstance(t reflect.Type) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.instances[t]
	return ok
}

func (s *instanceStore) deleteInstance(t reflect.Type) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.instances[t]; !exists {
		return
	}

	delete(s.instances, t)
	s.removeOrder(t)
}

// removeOrder drops t from the insertion order. Callers hold mu.
func (s *instanceStore) removeOrder(t reflect.Type) {
	for i, existing := range s.order {
		if existing == t {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

func (s *instanceStore) getValue(token string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[token]
	return v, ok
}

func (s *instanceStore) setValue(token string, value any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	s.values[token] = value
	return true
}

func (s *instanceStore) hasValue(token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.values[token]
	return ok
}

func (s *instanceStore) deleteValue(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, token)
}

// clear empties both stores and returns the instances the container owned,
// in the order they were cached.
func (s *instanceStore) clear() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drain()
}

// close is clear that also rejects every later write, so an instance still
// under construction cannot land in the store after its contents were
// handed out for disposal.
func (s *instanceStore) close() []any {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return s.drain()
}

// drain empties both stores. Callers hold mu.
func (s *instanceStore) drain() []any {
	owned := make([]any, 0, len(s.order))
	for _, t := range s.order {
		if entry := s.instances[t]; entry.owned {
			owned = append(owned, entry.instance)
		}
	}

	s.instances = make(map[reflect.Type]cacheEntry)
	s.order = nil
	s.values = make(map[string]any)

	return owned
}

// types returns the cached types in insertion order.
func (s *instanceStore) types() []reflect.Type {
	s.mu.RLock()
	defer s.mu.RUnlock()

	types := make([]reflect.Type, len(s.order))
	copy(types, s.order)
	return types
}

// tokens returns the stored tokens, sorted.
func (s *instanceStore) tokens() []string {
	s.mu.RLock()
	tokens := make([]string, 0, len(s.values))
	for token := range s.values {
		tokens = append(tokens, token)
	}
	s.mu.RUnlock()

	sort.Strings(tokens)
	return tokens
}
