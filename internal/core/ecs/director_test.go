package ecs

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
)

type moverBundle struct {
	pos position
	vel velocity
}

func (b moverBundle) Empty() bool { return b.vel == (velocity{}) }

func (b moverBundle) Attach(d *Director, e Entity) error {
	if err := AddComponent(d, e, b.pos); err != nil {
		return err
	}
	return AddComponent(d, e, b.vel)
}

func newTestDirector(t *testing.T, maxEntities int) (*Director, *moveSystem) {
	t.Helper()
	d := NewDirector(maxEntities)
	if _, err := RegisterComponent[position](d); err != nil {
		t.Fatal(err)
	}
	if _, err := RegisterComponent[velocity](d); err != nil {
		t.Fatal(err)
	}
	if _, err := RegisterComponent[label](d); err != nil {
		t.Fatal(err)
	}
	mv := &moveSystem{}
	if err := d.RegisterSystem(mv); err != nil {
		t.Fatal(err)
	}
	if err := SetSystemSignature[*moveSystem](d, NewSignature(0, 1)); err != nil {
		t.Fatal(err)
	}
	return d, mv
}

func TestDirectorMembershipScenario(t *testing.T) {
	d, mv := newTestDirector(t, 16)
	e, err := d.CreateEntity()
	if err != nil {
		t.Fatal(err)
	}

	if err := AddComponent(d, e, position{1, 2}); err != nil {
		t.Fatal(err)
	}
	if mv.Entities().Contains(e) {
		t.Fatal("entity with only A is a member")
	}
	if err := AddComponent(d, e, velocity{3, 4}); err != nil {
		t.Fatal(err)
	}
	if !mv.Entities().Contains(e) {
		t.Fatal("entity with A and B is not a member")
	}
	if err := RemoveComponent[position](d, e); err != nil {
		t.Fatal(err)
	}
	if mv.Entities().Contains(e) {
		t.Fatal("entity is still a member after losing A")
	}
}

func TestDirectorAddGetRemove(t *testing.T) {
	d, _ := newTestDirector(t, 16)
	a, _ := d.CreateEntity()
	b, _ := d.CreateEntity()
	c, _ := d.CreateEntity()
	for i, e := range []Entity{a, b, c} {
		if err := AddComponent(d, e, position{float32(i), float32(i)}); err != nil {
			t.Fatal(err)
		}
	}

	p, err := GetComponent[position](d, b)
	if err != nil || *p != (position{1, 1}) {
		t.Fatalf("GetComponent\nhave %v, %v\nwant {1 1}, nil", p, err)
	}
	id, _ := ComponentID[position](d)
	if sig, _ := d.Signature(b); !sig.Has(id) {
		t.Fatalf("signature %v lacks bit %d", sig, id)
	}

	if err := RemoveComponent[position](d, a); err != nil {
		t.Fatal(err)
	}
	if _, err := GetComponent[position](d, a); !errors.Is(err, ErrMissingComponent) {
		t.Fatalf("GetComponent after remove\nhave %v\nwant %v", err, ErrMissingComponent)
	}
	if sig, _ := d.Signature(a); sig.Has(id) {
		t.Fatalf("signature %v still has bit %d", sig, id)
	}
	for i, e := range []Entity{b, c} {
		p, err := GetComponent[position](d, e)
		want := position{float32(i + 1), float32(i + 1)}
		if err != nil || *p != want {
			t.Fatalf("GetComponent(%d)\nhave %v, %v\nwant %v", e, p, err, want)
		}
	}

	if err := AddComponent(d, b, position{}); !errors.Is(err, ErrDuplicateComponent) {
		t.Fatalf("duplicate add\nhave %v\nwant %v", err, ErrDuplicateComponent)
	}
	if err := RemoveComponent[velocity](d, b); !errors.Is(err, ErrMissingComponent) {
		t.Fatalf("remove absent\nhave %v\nwant %v", err, ErrMissingComponent)
	}
	if err := AddComponent(d, b, struct{}{}); !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("add unregistered\nhave %v\nwant %v", err, ErrNotRegistered)
	}
	if _, err := RegisterComponent[position](d); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("register twice\nhave %v\nwant %v", err, ErrAlreadyRegistered)
	}
}

func TestDirectorDestroyEntity(t *testing.T) {
	d, mv := newTestDirector(t, 16)
	e, _ := d.CreateEntity()
	other, _ := d.CreateEntity()
	_ = AddComponent(d, e, position{})
	_ = AddComponent(d, e, velocity{})
	_ = AddComponent(d, e, label{"gone"})
	_ = AddComponent(d, other, position{X: 7})
	_ = AddComponent(d, other, velocity{})

	if err := d.DestroyEntity(e); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Signature(e); !errors.Is(err, ErrUnknownEntity) {
		t.Fatalf("Signature after destroy\nhave %v\nwant %v", err, ErrUnknownEntity)
	}
	dir := d.Components()
	if Has[position](dir, e) || Has[velocity](dir, e) || Has[label](dir, e) {
		t.Fatal("destroyed entity still has records")
	}
	if mv.Entities().Contains(e) {
		t.Fatal("destroyed entity still a system member")
	}
	if !mv.Entities().Contains(other) {
		t.Fatal("unrelated member lost")
	}
	if p, _ := GetComponent[position](d, other); p.X != 7 {
		t.Fatalf("unrelated record changed: %v", p)
	}
	if err := d.DestroyEntity(e); !errors.Is(err, ErrUnknownEntity) {
		t.Fatalf("destroy twice\nhave %v\nwant %v", err, ErrUnknownEntity)
	}

	// A dead id must never reach a store.
	if err := AddComponent(d, e, position{}); !errors.Is(err, ErrUnknownEntity) {
		t.Fatalf("add to dead entity\nhave %v\nwant %v", err, ErrUnknownEntity)
	}
	if Has[position](dir, e) {
		t.Fatal("add to dead entity left a record behind")
	}
	if err := RemoveComponent[position](d, e); !errors.Is(err, ErrUnknownEntity) {
		t.Fatalf("remove from dead entity\nhave %v\nwant %v", err, ErrUnknownEntity)
	}
}

func TestDirectorCapacity(t *testing.T) {
	const maxEntities = 8
	d := NewDirector(maxEntities)
	for i := 0; i < maxEntities; i++ {
		if _, err := d.CreateEntity(); err != nil {
			t.Fatalf("CreateEntity #%d: %v", i, err)
		}
	}
	if _, err := d.CreateEntity(); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("CreateEntity past limit\nhave %v\nwant %v", err, ErrCapacityExceeded)
	}
	if d.EntityCount() != maxEntities {
		t.Fatalf("EntityCount\nhave %d\nwant %d", d.EntityCount(), maxEntities)
	}
}

func TestDirectorBundle(t *testing.T) {
	d, mv := newTestDirector(t, 16)
	e, _ := d.CreateEntity()

	ok, err := d.AddBundle(e, moverBundle{pos: position{1, 1}})
	if err != nil || ok {
		t.Fatalf("empty bundle\nhave %v, %v\nwant false, nil", ok, err)
	}
	if sig, _ := d.Signature(e); sig != 0 {
		t.Fatalf("empty bundle changed signature to %v", sig)
	}
	if Has[position](d.Components(), e) {
		t.Fatal("empty bundle attached a component")
	}

	ok, err = d.AddBundle(e, moverBundle{pos: position{1, 1}, vel: velocity{1, 0}})
	if err != nil || !ok {
		t.Fatalf("bundle\nhave %v, %v\nwant true, nil", ok, err)
	}
	if !mv.Entities().Contains(e) {
		t.Fatal("bundle did not update membership")
	}
	if _, err := d.AddBundle(e, moverBundle{vel: velocity{1, 0}}); !errors.Is(err, ErrDuplicateComponent) {
		t.Fatalf("bundle on entity that already has it\nhave %v\nwant %v", err, ErrDuplicateComponent)
	}
}

func TestDirectorLateSignature(t *testing.T) {
	d := NewDirector(16)
	_, _ = RegisterComponent[position](d)
	e, _ := d.CreateEntity()
	_ = AddComponent(d, e, position{})

	mv := &moveSystem{}
	_ = d.RegisterSystem(mv)
	if err := d.Validate(); !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("Validate with unsigned system\nhave %v\nwant %v", err, ErrNotRegistered)
	}
	if err := SetSystemSignature[*drawSystem](d, NewSignature(0)); !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("signature for unregistered system\nhave %v\nwant %v", err, ErrNotRegistered)
	}
	if err := SetSystemSignature[*moveSystem](d, NewSignature(0)); err != nil {
		t.Fatal(err)
	}
	if !mv.Entities().Contains(e) {
		t.Fatal("existing entity not evaluated against a late signature")
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if sig, ok := SystemSignature[*moveSystem](d); !ok || sig != NewSignature(0) {
		t.Fatalf("SystemSignature\nhave %v, %v", sig, ok)
	}
}

func TestDirectorDestroyQueue(t *testing.T) {
	d, mv := newTestDirector(t, 16)
	a, _ := d.CreateEntity()
	b, _ := d.CreateEntity()
	for _, e := range []Entity{a, b} {
		_ = AddComponent(d, e, position{})
		_ = AddComponent(d, e, velocity{})
	}

	for e := range mv.Entities().All() {
		d.MarkForDestruction(e)
	}
	d.MarkForDestruction(a)
	if !d.Alive(a) {
		t.Fatal("MarkForDestruction destroyed immediately")
	}
	destroyed := d.FlushDestroyQueue()
	if len(destroyed) != 2 {
		t.Fatalf("FlushDestroyQueue destroyed %v, want [%d %d]", destroyed, a, b)
	}
	if d.Alive(a) || d.Alive(b) || mv.Entities().Len() != 0 {
		t.Fatal("queued entities survived the flush")
	}
	if got := d.FlushDestroyQueue(); got != nil {
		t.Fatalf("second flush\nhave %v\nwant nil", got)
	}
}

// TestDirectorInvariants drives a director with random operations and checks
// after each one that signatures, stores and memberships agree.
func TestDirectorInvariants(t *testing.T) {
	d := NewDirector(400)
	_, _ = RegisterComponent[position](d)
	_, _ = RegisterComponent[velocity](d)
	_, _ = RegisterComponent[label](d)
	mv := &moveSystem{}
	dr := &drawSystem{}
	_ = d.RegisterSystem(mv)
	_ = d.RegisterSystem(dr)
	_ = SetSystemSignature[*moveSystem](d, NewSignature(0, 1))
	_ = SetSystemSignature[*drawSystem](d, NewSignature(2))

	systems := map[reflect.Type]*Base{
		reflect.TypeOf(mv): &mv.Base,
		reflect.TypeOf(dr): &dr.Base,
	}
	rng := rand.New(rand.NewSource(7))
	var live []Entity

	check := func(step int) {
		t.Helper()
		dir := d.Components()
		for _, e := range live {
			sig, err := d.Signature(e)
			if err != nil {
				t.Fatalf("step %d: live entity %d: %v", step, e, err)
			}
			if sig.Has(0) != Has[position](dir, e) ||
				sig.Has(1) != Has[velocity](dir, e) ||
				sig.Has(2) != Has[label](dir, e) {
				t.Fatalf("step %d: signature %v of %d disagrees with stores", step, sig, e)
			}
			for typ, b := range systems {
				want, _ := d.systems.Signature(typ)
				if sig.Contains(want) != b.Entities().Contains(e) {
					t.Fatalf("step %d: membership of %d in %v is stale", step, e, typ)
				}
			}
		}
		for typ, b := range systems {
			for m := range b.Entities().All() {
				if !d.Alive(m) {
					t.Fatalf("step %d: dead entity %d in %v", step, m, typ)
				}
			}
		}
	}

	for step := 0; step < 3000; step++ {
		switch op := rng.Intn(10); {
		case op < 2 || len(live) == 0:
			e, err := d.CreateEntity()
			if errors.Is(err, ErrCapacityExceeded) {
				continue
			}
			if err != nil {
				t.Fatal(err)
			}
			live = append(live, e)
		case op < 3:
			i := rng.Intn(len(live))
			if err := d.DestroyEntity(live[i]); err != nil {
				t.Fatal(err)
			}
			live = append(live[:i], live[i+1:]...)
		default:
			e := live[rng.Intn(len(live))]
			add := rng.Intn(2) == 0
			var err error
			switch rng.Intn(3) {
			case 0:
				if add {
					err = AddComponent(d, e, position{})
				} else {
					err = RemoveComponent[position](d, e)
				}
			case 1:
				if add {
					err = AddComponent(d, e, velocity{})
				} else {
					err = RemoveComponent[velocity](d, e)
				}
			case 2:
				if add {
					err = AddComponent(d, e, label{})
				} else {
					err = RemoveComponent[label](d, e)
				}
			}
			if err != nil && !errors.Is(err, ErrDuplicateComponent) && !errors.Is(err, ErrMissingComponent) {
				t.Fatalf("step %d: %v", step, err)
			}
		}
		check(step)
	}
}
