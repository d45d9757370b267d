// Package event provides a multicast observer list for telemetry values.
package event

import (
	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
)

// Sink fans a value out to every registered handler. Publish calls each
// handler synchronously, so a single publisher sees its values delivered
// in order. Handlers may subscribe or unsubscribe from inside a callback.
type Sink[T any] struct {
	handlers *xsync.MapOf[uuid.UUID, func(T)]
}

// NewSink creates an empty sink.
func NewSink[T any]() *Sink[T] {
	return &Sink[T]{handlers: xsync.NewMapOf[uuid.UUID, func(T)]()}
}

// Subscribe registers fn and returns the id used to remove it.
func (s *Sink[T]) Subscribe(fn func(T)) uuid.UUID {
	id := uuid.New()
	s.handlers.Store(id, fn)
	return id
}

// Unsubscribe removes a handler. It reports whether id was registered.
func (s *Sink[T]) Unsubscribe(id uuid.UUID) bool {
	_, ok := s.handlers.LoadAndDelete(id)
	return ok
}

// Len returns the number of registered handlers.
func (s *Sink[T]) Len() int {
	return s.handlers.Size()
}

// Publish delivers v to every handler registered when the call starts
// iterating. It returns once all of them have returned.
func (s *Sink[T]) Publish(v T) {
	s.handlers.Range(func(_ uuid.UUID, fn func(T)) bool {
		fn(v)
		return true
	})
}
