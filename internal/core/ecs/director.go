package ecs

import (
	"errors"
	"fmt"
	"reflect"
)

// Bundle is a group of components attached in one call. An empty bundle is
// skipped without error; a model whose load failed is the usual example.
type Bundle interface {
	Empty() bool
	Attach(d *Director, e Entity) error
}

// Director is the single entry point for entity and component mutation. It
// owns the entity registry, the component directory and the system registry,
// and sequences every change across all three so they never disagree.
type Director struct {
	entities     *EntityRegistry
	components   *Directory
	systems      *SystemRegistry
	destroyQueue []Entity
}

func NewDirector(maxEntities int) *Director {
	dir := NewDirectory()
	return &Director{
		entities:     NewEntityRegistry(maxEntities),
		components:   dir,
		systems:      NewSystemRegistry(dir),
		destroyQueue: make([]Entity, 0, 16),
	}
}

// Components returns the read-only component accessor shared with systems.
func (d *Director) Components() *Directory { return d.components }

func (d *Director) CreateEntity() (Entity, error) {
	return d.entities.Create()
}

// DestroyEntity retires e and removes it from every store and system.
func (d *Director) DestroyEntity(e Entity) error {
	if err := d.entities.Destroy(e); err != nil {
		return err
	}
	d.components.NotifyEntityDestroyed(e)
	d.systems.EntityDestroyed(e)
	return nil
}

func (d *Director) Alive(e Entity) bool { return d.entities.Alive(e) }

func (d *Director) Signature(e Entity) (Signature, error) { return d.entities.Signature(e) }

// EntityCount returns the number of live entities.
func (d *Director) EntityCount() int { return d.entities.Len() }

// RegisterSystem wires s to the component directory. Its signature must be
// assigned with SetSystemSignature before the scene runs.
func (d *Director) RegisterSystem(s System) error {
	return d.systems.Register(s)
}

// Validate fails if any registered system is still missing its signature.
func (d *Director) Validate() error {
	var errs []error
	for _, t := range d.systems.Unsigned() {
		errs = append(errs, fmt.Errorf("signature of system %s: %w", t, ErrNotRegistered))
	}
	return errors.Join(errs...)
}

// AddBundle attaches every component of b to e. It reports false, with no
// error and no change to e, when b is empty.
func (d *Director) AddBundle(e Entity, b Bundle) (bool, error) {
	if b.Empty() {
		return false, nil
	}
	if err := b.Attach(d, e); err != nil {
		return false, err
	}
	return true, nil
}

// MarkForDestruction queues e for destruction at the end of the frame, so
// systems can request it while iterating their members.
func (d *Director) MarkForDestruction(e Entity) {
	d.destroyQueue = append(d.destroyQueue, e)
}

// FlushDestroyQueue destroys every queued entity still alive and returns the
// ones it destroyed. Duplicates and already-dead ids are skipped.
func (d *Director) FlushDestroyQueue() []Entity {
	if len(d.destroyQueue) == 0 {
		return nil
	}
	destroyed := make([]Entity, 0, len(d.destroyQueue))
	for _, e := range d.destroyQueue {
		if !d.entities.Alive(e) {
			continue
		}
		if err := d.DestroyEntity(e); err == nil {
			destroyed = append(destroyed, e)
		}
	}
	d.destroyQueue = d.destroyQueue[:0]
	return destroyed
}

// RegisterComponent assigns T the next component type id.
func RegisterComponent[T any](d *Director) (ComponentType, error) {
	return register[T](d.components)
}

// ComponentID returns the id assigned to T.
func ComponentID[T any](d *Director) (ComponentType, error) {
	return TypeID[T](d.components)
}

// AddComponent stores v for e, sets T's bit in e's signature and updates
// system membership. e is checked first so a dead id never reaches a store.
func AddComponent[T any](d *Director, e Entity, v T) error {
	sig, err := d.entities.Signature(e)
	if err != nil {
		return fmt.Errorf("add component: %w", err)
	}
	id, err := TypeID[T](d.components)
	if err != nil {
		return fmt.Errorf("add component: %w", err)
	}
	if err := insert(d.components, e, v); err != nil {
		return err
	}
	sig = sig.With(id)
	if err := d.entities.SetSignature(e, sig); err != nil {
		return err
	}
	d.systems.EntitySignatureChanged(e, sig)
	return nil
}

// RemoveComponent deletes e's T, clears T's bit and updates system membership.
func RemoveComponent[T any](d *Director, e Entity) error {
	sig, err := d.entities.Signature(e)
	if err != nil {
		return fmt.Errorf("remove component: %w", err)
	}
	id, err := TypeID[T](d.components)
	if err != nil {
		return fmt.Errorf("remove component: %w", err)
	}
	if err := remove[T](d.components, e); err != nil {
		return err
	}
	sig = sig.Without(id)
	if err := d.entities.SetSignature(e, sig); err != nil {
		return err
	}
	d.systems.EntitySignatureChanged(e, sig)
	return nil
}

func GetComponent[T any](d *Director, e Entity) (*T, error) {
	return Get[T](d.components, e)
}

// SetSystemSignature assigns the signature of system type S and evaluates
// every live entity against it.
func SetSystemSignature[S System](d *Director, sig Signature) error {
	if err := d.systems.SetSignature(reflect.TypeFor[S](), sig); err != nil {
		return err
	}
	d.entities.Each(d.systems.EntitySignatureChanged)
	return nil
}

// SystemSignature returns the signature assigned to system type S.
func SystemSignature[S System](d *Director) (Signature, bool) {
	return d.systems.Signature(reflect.TypeFor[S]())
}
