// Package orderedmap provides a typed, insertion-ordered map. Storage is
// delegated to github.com/wk8/go-ordered-map; this package only adds the
// generic surface used by namespaces, registries and config merges.
package orderedmap

import (
	wk8 "github.com/wk8/go-ordered-map"
)

// OrderedMap keeps key-value pairs in insertion order. Overwriting an
// existing key keeps its original position.
type OrderedMap[K comparable, V any] struct {
	store *wk8.OrderedMap
}

// Iterator points at one pair of an OrderedMap. Next moves away from the
// end the iterator was started from, Prev moves back towards it.
type Iterator[K comparable, V any] struct {
	Key     *K
	Value   V
	pair    *wk8.Pair
	forward bool
}

// NewOrderedMap creates an empty OrderedMap
func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{store: wk8.New()}
}

// Set stores val under key, keeping the position of an existing key
func (o *OrderedMap[K, V]) Set(key K, val V) {
	o.store.Set(key, val)
}

// Get returns the value for key and whether it was present
func (o *OrderedMap[K, V]) Get(key K) (V, bool) {
	v, ok := o.store.Get(key)
	if !ok {
		return *new(V), false
	}
	val, _ := v.(V)
	return val, true
}

// Has reports whether key is present
func (o *OrderedMap[K, V]) Has(key K) bool {
	_, ok := o.store.Get(key)
	return ok
}

// Delete removes key. Deleting a missing key is a no-op.
func (o *OrderedMap[K, V]) Delete(key K) {
	o.store.Delete(key)
}

// Count returns the number of keys
func (o *OrderedMap[K, V]) Count() int {
	return o.store.Len()
}

// Keys returns the keys in insertion order
func (o *OrderedMap[K, V]) Keys() []K {
	keys := make([]K, 0, o.store.Len())
	for p := o.store.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key.(K))
	}
	return keys
}

// Front returns an iterator at the oldest pair, or nil when empty
func (o *OrderedMap[K, V]) Front() *Iterator[K, V] {
	return newIterator[K, V](o.store.Oldest(), true)
}

// Back returns an iterator at the newest pair, or nil when empty
func (o *OrderedMap[K, V]) Back() *Iterator[K, V] {
	return newIterator[K, V](o.store.Newest(), false)
}

// Iterator returns a closure yielding index, key and value in insertion
// order; index is nil once the map is exhausted.
func (o *OrderedMap[K, V]) Iterator() func() (*int, *K, V) {
	p := o.store.Oldest()
	j := 0
	return func() (*int, *K, V) {
		if p == nil {
			return nil, nil, *new(V)
		}
		idx := j
		key := p.Key.(K)
		val, _ := p.Value.(V)
		j++
		p = p.Next()
		return &idx, &key, val
	}
}

func newIterator[K comparable, V any](p *wk8.Pair, forward bool) *Iterator[K, V] {
	if p == nil {
		return nil
	}
	key := p.Key.(K)
	val, _ := p.Value.(V)
	return &Iterator[K, V]{
		Key:     &key,
		Value:   val,
		pair:    p,
		forward: forward,
	}
}

// Next returns the following pair, or nil at the end
func (it *Iterator[K, V]) Next() *Iterator[K, V] {
	if it == nil {
		return nil
	}
	if it.forward {
		return newIterator[K, V](it.pair.Next(), true)
	}
	return newIterator[K, V](it.pair.Prev(), false)
}

// Prev returns the preceding pair, or nil at the start
func (it *Iterator[K, V]) Prev() *Iterator[K, V] {
	if it == nil {
		return nil
	}
	if it.forward {
		return newIterator[K, V](it.pair.Prev(), true)
	}
	return newIterator[K, V](it.pair.Next(), false)
}
