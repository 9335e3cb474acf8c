package ecs

import (
	"fmt"
	"reflect"
)

// storage is implemented by every ComponentStore so the Directory can purge a
// destroyed entity from stores whose element type it no longer knows.
type storage interface {
	EntityDestroyed(e Entity)
	Len() int
}

// ComponentStore keeps the records of one component type in a dense slice.
// owners[i] is the entity whose record lives in dense[i], and index is its
// exact inverse, so both directions are O(1) and the slice never has gaps.
type ComponentStore[T any] struct {
	dense  []T
	owners []Entity
	index  map[Entity]int
}

func NewComponentStore[T any]() *ComponentStore[T] {
	return &ComponentStore[T]{
		dense:  make([]T, 0, 64),
		owners: make([]Entity, 0, 64),
		index:  make(map[Entity]int, 64),
	}
}

// Insert appends v as e's record.
func (s *ComponentStore[T]) Insert(e Entity, v T) error {
	if _, ok := s.index[e]; ok {
		return fmt.Errorf("insert %s for entity %d: %w", typeName[T](), e, ErrDuplicateComponent)
	}
	s.index[e] = len(s.dense)
	s.dense = append(s.dense, v)
	s.owners = append(s.owners, e)
	return nil
}

// Remove deletes e's record by moving the last record into its slot.
func (s *ComponentStore[T]) Remove(e Entity) error {
	i, ok := s.index[e]
	if !ok {
		return fmt.Errorf("remove %s for entity %d: %w", typeName[T](), e, ErrMissingComponent)
	}
	s.removeAt(i)
	return nil
}

// Get returns a pointer to e's record. The pointer is only valid until the
// next Insert or Remove on this store.
func (s *ComponentStore[T]) Get(e Entity) (*T, error) {
	i, ok := s.index[e]
	if !ok {
		return nil, fmt.Errorf("get %s for entity %d: %w", typeName[T](), e, ErrMissingComponent)
	}
	return &s.dense[i], nil
}

func (s *ComponentStore[T]) Has(e Entity) bool {
	_, ok := s.index[e]
	return ok
}

func (s *ComponentStore[T]) Len() int { return len(s.dense) }

// EntityDestroyed drops e's record if it has one.
func (s *ComponentStore[T]) EntityDestroyed(e Entity) {
	if i, ok := s.index[e]; ok {
		s.removeAt(i)
	}
}

// Each calls fn for every record in slot order.
func (s *ComponentStore[T]) Each(fn func(Entity, *T)) {
	for i := range s.dense {
		fn(s.owners[i], &s.dense[i])
	}
}

func (s *ComponentStore[T]) removeAt(i int) {
	last := len(s.dense) - 1
	removed := s.owners[i]
	if i != last {
		moved := s.owners[last]
		s.dense[i] = s.dense[last]
		s.owners[i] = moved
		s.index[moved] = i
	}
	var zero T
	s.dense[last] = zero // drop references held by the vacated slot
	s.dense = s.dense[:last]
	s.owners = s.owners[:last]
	delete(s.index, removed)
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}
