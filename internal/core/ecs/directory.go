package ecs

import (
	"fmt"
	"reflect"
)

// Directory assigns component type ids and owns one ComponentStore per type.
// Mutations are unexported so that only the Director can change component
// state; systems receive the Directory for reads.
type Directory struct {
	ids    map[reflect.Type]ComponentType
	stores []storage // indexed by ComponentType
}

func NewDirectory() *Directory {
	return &Directory{
		ids:    make(map[reflect.Type]ComponentType, MaxComponents),
		stores: make([]storage, 0, MaxComponents),
	}
}

// Len returns the number of registered component types.
func (d *Directory) Len() int { return len(d.stores) }

// NotifyEntityDestroyed removes e from every store in type id order.
func (d *Directory) NotifyEntityDestroyed(e Entity) {
	for _, s := range d.stores {
		s.EntityDestroyed(e)
	}
}

func register[T any](d *Directory) (ComponentType, error) {
	t := reflect.TypeFor[T]()
	if _, ok := d.ids[t]; ok {
		return 0, fmt.Errorf("register component %s: %w", t, ErrAlreadyRegistered)
	}
	if len(d.stores) >= MaxComponents {
		return 0, fmt.Errorf("register component %s: %w (limit %d types)", t, ErrCapacityExceeded, MaxComponents)
	}
	id := ComponentType(len(d.stores))
	d.ids[t] = id
	d.stores = append(d.stores, NewComponentStore[T]())
	return id, nil
}

// TypeID returns the id assigned to T.
func TypeID[T any](d *Directory) (ComponentType, error) {
	t := reflect.TypeFor[T]()
	id, ok := d.ids[t]
	if !ok {
		return 0, fmt.Errorf("component %s: %w", t, ErrNotRegistered)
	}
	return id, nil
}

func storeOf[T any](d *Directory) (*ComponentStore[T], error) {
	id, err := TypeID[T](d)
	if err != nil {
		return nil, err
	}
	return d.stores[id].(*ComponentStore[T]), nil
}

func insert[T any](d *Directory, e Entity, v T) error {
	s, err := storeOf[T](d)
	if err != nil {
		return err
	}
	return s.Insert(e, v)
}

func remove[T any](d *Directory, e Entity) error {
	s, err := storeOf[T](d)
	if err != nil {
		return err
	}
	return s.Remove(e)
}

// Get returns e's record of type T.
func Get[T any](d *Directory, e Entity) (*T, error) {
	s, err := storeOf[T](d)
	if err != nil {
		return nil, err
	}
	return s.Get(e)
}

// MustGet is Get for callers that treat a missing record as a broken
// invariant, such as systems reading their own members. It panics on error.
func MustGet[T any](d *Directory, e Entity) *T {
	v, err := Get[T](d, e)
	if err != nil {
		panic(err)
	}
	return v
}

// Has reports whether e has a record of type T. Unregistered types report false.
func Has[T any](d *Directory, e Entity) bool {
	s, err := storeOf[T](d)
	if err != nil {
		return false
	}
	return s.Has(e)
}

// Count returns the number of records of type T.
func Count[T any](d *Directory) (int, error) {
	s, err := storeOf[T](d)
	if err != nil {
		return 0, err
	}
	return s.Len(), nil
}
