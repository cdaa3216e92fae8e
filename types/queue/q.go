// Package queue provides a typed double-ended work-list on top of
// github.com/ef-ds/deque. Items are dequeued from the front, and
// expanded items can be spliced in ahead of the remaining ones.
package queue

import "github.com/ef-ds/deque"

// Q is a generic work-list. All operations are O(1) per item.
type Q[T any] struct {
	d *deque.Deque
}

// From creates a Q holding items in order, front first
func From[T any](items ...T) *Q[T] {
	q := &Q[T]{d: deque.New()}
	for _, item := range items {
		q.d.PushBack(item)
	}
	return q
}

// Dequeue removes and returns the first item of the queue
func (q *Q[T]) Dequeue() (T, bool) {
	v, ok := q.d.PopFront()
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// PushFront inserts items at the front so that items[0] is dequeued first
func (q *Q[T]) PushFront(items ...T) {
	for i := len(items) - 1; i >= 0; i-- {
		q.d.PushFront(items[i])
	}
}

// Len returns the number of items
func (q *Q[T]) Len() int {
	return q.d.Len()
}
