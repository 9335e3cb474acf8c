package ecs

import (
	"fmt"
	"slices"
)

// Entity is an opaque identifier. It is live while the EntityRegistry holds a
// signature for it.
type Entity uint32

// DefaultMaxEntities is the entity budget used when none is configured.
const DefaultMaxEntities = 5000

// EntityRegistry issues entity ids and owns the signature of every live entity.
// Ids are handed out sequentially and never reissued, so the budget counts
// every entity ever created, not only the live ones.
type EntityRegistry struct {
	signatures map[Entity]Signature
	next       Entity
	max        int
}

func NewEntityRegistry(maxEntities int) *EntityRegistry {
	if maxEntities <= 0 {
		maxEntities = DefaultMaxEntities
	}
	return &EntityRegistry{
		signatures: make(map[Entity]Signature, min(maxEntities, 1024)),
		max:        maxEntities,
	}
}

// Create returns the next unused id with an empty signature.
func (r *EntityRegistry) Create() (Entity, error) {
	if int(r.next) >= r.max {
		return 0, fmt.Errorf("create entity: %w (limit %d)", ErrCapacityExceeded, r.max)
	}
	e := r.next
	r.next++
	r.signatures[e] = 0
	return e, nil
}

// Destroy forgets e. Its id is retired, not recycled.
func (r *EntityRegistry) Destroy(e Entity) error {
	if err := r.validate(e); err != nil {
		return err
	}
	delete(r.signatures, e)
	return nil
}

func (r *EntityRegistry) Alive(e Entity) bool {
	_, ok := r.signatures[e]
	return ok
}

func (r *EntityRegistry) SetSignature(e Entity, s Signature) error {
	if err := r.validate(e); err != nil {
		return err
	}
	r.signatures[e] = s
	return nil
}

func (r *EntityRegistry) Signature(e Entity) (Signature, error) {
	if err := r.validate(e); err != nil {
		return 0, err
	}
	return r.signatures[e], nil
}

// Len returns the number of live entities.
func (r *EntityRegistry) Len() int { return len(r.signatures) }

// Cap returns the entity budget.
func (r *EntityRegistry) Cap() int { return r.max }

// Each calls fn for every live entity in ascending id order.
func (r *EntityRegistry) Each(fn func(Entity, Signature)) {
	ids := make([]Entity, 0, len(r.signatures))
	for e := range r.signatures {
		ids = append(ids, e)
	}
	slices.Sort(ids)
	for _, e := range ids {
		fn(e, r.signatures[e])
	}
}

func (r *EntityRegistry) validate(e Entity) error {
	if _, ok := r.signatures[e]; !ok {
		return fmt.Errorf("entity %d: %w", e, ErrUnknownEntity)
	}
	return nil
}
