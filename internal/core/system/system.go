package system

import "time"

// Phase places a system within a frame. Every frame runs each phase once, in
// declaration order.
type Phase int

const (
	PhaseEvents   Phase = iota // deliver the previous frame's events
	PhaseInput                 // camera controller
	PhaseSimulate              // scripted behaviours
	PhaseUpdate                // camera matrices
	PhaseRender                // uniforms and draw calls
	PhaseCleanup               // destroy entities queued this frame

	phaseCount
)

var phaseNames = [phaseCount]string{"events", "input", "simulate", "update", "render", "cleanup"}

func (p Phase) String() string {
	if !p.valid() {
		return "unknown"
	}
	return phaseNames[p]
}

func (p Phase) valid() bool { return p >= 0 && p < phaseCount }

// System is run once per frame with the frame's duration.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
