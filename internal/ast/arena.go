package ast

// Arena is a monotonic bump allocator for one node kind. Nodes are never
// freed individually; the whole arena is dropped as one unit after code
// generation. IDs are 1-based so the zero value stays the "no node"
// sentinel.
type Arena[T any] struct {
	data []T
}

// NewArena creates an *Arena[T] whose storage is preallocated with capHint
// elements; zero is allowed.
func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{
		data: make([]T, 0, capHint),
	}
}

// Allocate stores value and returns its 1-based index. The returned index
// stays valid for the arena's whole life.
func (a *Arena[T]) Allocate(value T) uint32 {
	a.data = append(a.data, value)
	return uint32(len(a.data))
}

// Get returns a pointer into arena storage, or nil for index 0.
func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 {
		return nil
	}
	return &a.data[index-1]
}

// Slice exposes the backing storage. READONLY.
func (a *Arena[T]) Slice() []T {
	return a.data
}

func (a *Arena[T]) Len() uint32 {
	return uint32(len(a.data))
}
