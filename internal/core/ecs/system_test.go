package ecs

import (
	"errors"
	"reflect"
	"slices"
	"testing"
)

type moveSystem struct{ Base }
type drawSystem struct{ Base }

func TestEntitySet(t *testing.T) {
	var s EntitySet
	for _, e := range []Entity{5, 1, 3, 1, 9} {
		s.insert(e)
	}
	if got := s.Slice(); !slices.Equal(got, []Entity{1, 3, 5, 9}) {
		t.Fatalf("Slice\nhave %v\nwant [1 3 5 9]", got)
	}
	s.erase(3)
	s.erase(42)
	if s.Contains(3) || !s.Contains(9) || s.Len() != 3 {
		t.Fatalf("after erase: %v", s.Slice())
	}

	var seen []Entity
	for e := range s.All() {
		seen = append(seen, e)
		if e == 5 {
			break
		}
	}
	if !slices.Equal(seen, []Entity{1, 5}) {
		t.Fatalf("All with break\nhave %v\nwant [1 5]", seen)
	}
}

func TestSystemRegistryRegister(t *testing.T) {
	d := NewDirectory()
	r := NewSystemRegistry(d)
	mv := &moveSystem{}
	if err := r.Register(mv); err != nil {
		t.Fatal(err)
	}
	if mv.Directory() != d {
		t.Fatal("Register did not wire the directory")
	}
	if err := r.Register(&moveSystem{}); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("second Register\nhave %v\nwant %v", err, ErrAlreadyRegistered)
	}

	mvType := reflect.TypeOf(mv)
	drawType := reflect.TypeOf(&drawSystem{})
	if err := r.SetSignature(drawType, NewSignature(0)); !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("SetSignature unregistered\nhave %v\nwant %v", err, ErrNotRegistered)
	}
	if got := r.Unsigned(); len(got) != 1 || got[0] != mvType {
		t.Fatalf("Unsigned\nhave %v\nwant [%v]", got, mvType)
	}
	if err := r.SetSignature(mvType, NewSignature(0, 1)); err != nil {
		t.Fatal(err)
	}
	if err := r.SetSignature(mvType, NewSignature(0)); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("SetSignature twice\nhave %v\nwant %v", err, ErrAlreadyRegistered)
	}
	if sig, ok := r.Signature(mvType); !ok || sig != NewSignature(0, 1) {
		t.Fatalf("Signature\nhave %v, %v", sig, ok)
	}
	if len(r.Unsigned()) != 0 {
		t.Fatal("Unsigned after SetSignature")
	}
}

func TestSystemRegistryMembership(t *testing.T) {
	r := NewSystemRegistry(NewDirectory())
	mv := &moveSystem{}
	dr := &drawSystem{}
	_ = r.Register(mv)
	_ = r.Register(dr)
	_ = r.SetSignature(reflect.TypeOf(mv), NewSignature(0, 1))

	// drawSystem has no signature yet and therefore no members.
	r.EntitySignatureChanged(1, NewSignature(0, 1, 2))
	if !mv.Entities().Contains(1) {
		t.Fatal("matching entity not added")
	}
	if dr.Entities().Len() != 0 {
		t.Fatal("unsigned system gained members")
	}

	r.EntitySignatureChanged(1, NewSignature(0))
	if mv.Entities().Contains(1) {
		t.Fatal("entity kept after its signature stopped matching")
	}

	r.EntitySignatureChanged(2, NewSignature(0, 1))
	r.EntityDestroyed(2)
	if mv.Entities().Contains(2) {
		t.Fatal("destroyed entity kept")
	}
	r.EntityDestroyed(77)
}
