package system

import (
	"fmt"
	"time"
)

// Runner drives frames. Systems are bucketed by phase when registered, so a
// frame is a walk over the buckets and systems sharing a phase keep their
// registration order.
type Runner struct {
	phases [phaseCount][]System
	frames uint64
}

func NewRunner() *Runner {
	return &Runner{}
}

// Register adds s to the bucket of its phase. A phase outside the declared
// set is a programming error and panics.
func (r *Runner) Register(s System) {
	p := s.Phase()
	if !p.valid() {
		panic(fmt.Sprintf("system %T: unknown phase %d", s, int(p)))
	}
	r.phases[p] = append(r.phases[p], s)
}

// Tick runs one frame of length dt.
func (r *Runner) Tick(dt time.Duration) {
	for _, bucket := range r.phases {
		for _, s := range bucket {
			s.Update(dt)
		}
	}
	r.frames++
}

// TickPhase runs only the systems of one phase. It does not count as a frame.
func (r *Runner) TickPhase(phase Phase, dt time.Duration) {
	if !phase.valid() {
		return
	}
	for _, s := range r.phases[phase] {
		s.Update(dt)
	}
}

// Frames returns the number of completed frames.
func (r *Runner) Frames() uint64 { return r.frames }

// Len returns the number of registered systems.
func (r *Runner) Len() int {
	n := 0
	for _, bucket := range r.phases {
		n += len(bucket)
	}
	return n
}
