package ecs

import (
	"math/bits"
	"strconv"
	"strings"
)

// MaxComponents is the number of distinct component types a Directory can hold.
const MaxComponents = 32

// ComponentType is the small integer id assigned to a component type at registration.
type ComponentType uint8

// Signature is a bitset of component types. Bit k is set when the owner has
// (or, for a system, requires) component type k.
type Signature uint32

// NewSignature returns a signature with the given component types set.
func NewSignature(types ...ComponentType) Signature {
	var s Signature
	for _, t := range types {
		s = s.With(t)
	}
	return s
}

// With returns s with bit t set.
func (s Signature) With(t ComponentType) Signature { return s | 1<<t }

// Without returns s with bit t cleared.
func (s Signature) Without(t ComponentType) Signature { return s &^ (1 << t) }

// Has reports whether bit t is set.
func (s Signature) Has(t ComponentType) bool { return s&(1<<t) != 0 }

// Contains reports whether every bit set in sub is also set in s.
func (s Signature) Contains(sub Signature) bool { return s&sub == sub }

// Len returns the number of set bits.
func (s Signature) Len() int { return bits.OnesCount32(uint32(s)) }

func (s Signature) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for t := ComponentType(0); t < MaxComponents; t++ {
		if !s.Has(t) {
			continue
		}
		if !first {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(int(t)))
		first = false
	}
	sb.WriteByte('}')
	return sb.String()
}
