package prompt

import (
	"encoding/binary"

	"github.com/google/uuid"

	"github.com/dshills/promptkit/internal/widget"
)

// orderedSet is an identity-keyed set that remembers insertion order.
type orderedSet[T comparable] struct {
	items []T
	index map[T]struct{}
}

func newOrderedSet[T comparable]() orderedSet[T] {
	return orderedSet[T]{index: make(map[T]struct{})}
}

func (s *orderedSet[T]) add(v T) bool {
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

func (s *orderedSet[T]) remove(v T) bool {
	if _, ok := s.index[v]; !ok {
		return false
	}
	delete(s.index, v)
	for i, item := range s.items {
		if item == v {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			break
		}
	}
	return true
}

func (s *orderedSet[T]) has(v T) bool {
	_, ok := s.index[v]
	return ok
}

func (s *orderedSet[T]) len() int {
	return len(s.items)
}

// snapshot returns a copy safe to iterate while the set changes.
func (s *orderedSet[T]) snapshot() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// groupIDMask keeps group ids positive and within the native 24-bit range.
const groupIDMask = 0x00FFFFFF

// newGroupID returns a random non-zero group id.
var newGroupID = func() widget.GroupID {
	id := uuid.New()
	v := binary.BigEndian.Uint32(id[:4]) & groupIDMask
	if v == 0 {
		v = 1
	}
	return widget.GroupID(v)
}
