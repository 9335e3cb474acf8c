package system

import (
	"time"

	"github.com/renderpipeline/engine/internal/core/event"
	coresys "github.com/renderpipeline/engine/internal/core/system"
)

// EventDispatchSystem delivers the events emitted during the previous frame.
// Phase 0 (Events).
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Phase() coresys.Phase { return coresys.PhaseEvents }

func (s *EventDispatchSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
