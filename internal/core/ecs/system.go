package ecs

import (
	"fmt"
	"iter"
	"reflect"
	"slices"
)

// EntitySet is the membership set of a system, kept in ascending id order so
// iteration is deterministic across runs.
type EntitySet struct {
	items []Entity
}

func (s *EntitySet) insert(e Entity) {
	i, found := slices.BinarySearch(s.items, e)
	if !found {
		s.items = slices.Insert(s.items, i, e)
	}
}

func (s *EntitySet) erase(e Entity) {
	if i, found := slices.BinarySearch(s.items, e); found {
		s.items = slices.Delete(s.items, i, i+1)
	}
}

func (s *EntitySet) Contains(e Entity) bool {
	_, found := slices.BinarySearch(s.items, e)
	return found
}

func (s *EntitySet) Len() int { return len(s.items) }

// All iterates the set. Adding or removing components that change the
// membership of the set being iterated is not allowed inside the loop; use
// Director.MarkForDestruction to defer destruction instead.
func (s *EntitySet) All() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for _, e := range s.items {
			if !yield(e) {
				return
			}
		}
	}
}

// Slice returns a copy of the members.
func (s *EntitySet) Slice() []Entity { return slices.Clone(s.items) }

// Base holds what every system shares: its membership set and the Directory
// wired in at registration. Systems embed it.
type Base struct {
	entities EntitySet
	dir      *Directory
}

// Entities returns the entities currently matching the system's signature.
func (b *Base) Entities() *EntitySet { return &b.entities }

// Directory returns the component accessor. It is nil until the system is registered.
func (b *Base) Directory() *Directory { return b.dir }

func (b *Base) base() *Base { return b }

// System is satisfied by any pointer type that embeds Base.
type System interface {
	base() *Base
}

type systemEntry struct {
	typ       reflect.Type
	sys       System
	signature Signature
	signed    bool
}

// SystemRegistry owns the registered systems and their signatures and keeps
// every system's membership set in step with entity signatures.
type SystemRegistry struct {
	dir     *Directory
	byType  map[reflect.Type]*systemEntry
	ordered []*systemEntry
}

func NewSystemRegistry(dir *Directory) *SystemRegistry {
	return &SystemRegistry{
		dir:    dir,
		byType: make(map[reflect.Type]*systemEntry, 8),
	}
}

// Register stores s keyed by its concrete type and wires the Directory into it.
func (r *SystemRegistry) Register(s System) error {
	t := reflect.TypeOf(s)
	if _, ok := r.byType[t]; ok {
		return fmt.Errorf("register system %s: %w", t, ErrAlreadyRegistered)
	}
	b := s.base()
	b.dir = r.dir
	b.entities = EntitySet{}
	entry := &systemEntry{typ: t, sys: s}
	r.byType[t] = entry
	r.ordered = append(r.ordered, entry)
	return nil
}

// SetSignature assigns the required signature of system type t. It can be set once.
func (r *SystemRegistry) SetSignature(t reflect.Type, sig Signature) error {
	entry, ok := r.byType[t]
	if !ok {
		return fmt.Errorf("set signature of system %s: %w", t, ErrNotRegistered)
	}
	if entry.signed {
		return fmt.Errorf("set signature of system %s: signature %w", t, ErrAlreadyRegistered)
	}
	entry.signature = sig
	entry.signed = true
	return nil
}

// Signature returns the signature of system type t, if one was set.
func (r *SystemRegistry) Signature(t reflect.Type) (Signature, bool) {
	entry, ok := r.byType[t]
	if !ok || !entry.signed {
		return 0, false
	}
	return entry.signature, true
}

// EntitySignatureChanged re-evaluates e against every system that has a
// signature. Systems without one have no members.
func (r *SystemRegistry) EntitySignatureChanged(e Entity, sig Signature) {
	for _, entry := range r.ordered {
		if !entry.signed {
			continue
		}
		set := &entry.sys.base().entities
		if sig.Contains(entry.signature) {
			set.insert(e)
		} else {
			set.erase(e)
		}
	}
}

// EntityDestroyed erases e from every membership set.
func (r *SystemRegistry) EntityDestroyed(e Entity) {
	for _, entry := range r.ordered {
		entry.sys.base().entities.erase(e)
	}
}

// Unsigned returns the types of registered systems that still lack a signature.
func (r *SystemRegistry) Unsigned() []reflect.Type {
	var out []reflect.Type
	for _, entry := range r.ordered {
		if !entry.signed {
			out = append(out, entry.typ)
		}
	}
	return out
}

func (r *SystemRegistry) Len() int { return len(r.ordered) }
