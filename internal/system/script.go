package system

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/renderpipeline/engine/internal/component"
	"github.com/renderpipeline/engine/internal/core/ecs"
	coresys "github.com/renderpipeline/engine/internal/core/system"
	"github.com/renderpipeline/engine/internal/scripting"
	"go.uber.org/zap"
)

// Destroyer defers entity destruction to the end of the frame.
type Destroyer interface {
	MarkForDestruction(e ecs.Entity)
}

// ScriptSystem runs each entity's Lua behaviour and applies the returned
// transform changes. Phase 2 (Simulate).
type ScriptSystem struct {
	ecs.Base
	engine    *scripting.Engine
	destroyer Destroyer
	log       *zap.Logger
	failing   map[string]bool // behaviours already reported as failing
}

func NewScriptSystem(engine *scripting.Engine, destroyer Destroyer, log *zap.Logger) *ScriptSystem {
	return &ScriptSystem{
		engine:    engine,
		destroyer: destroyer,
		log:       log,
		failing:   make(map[string]bool),
	}
}

func (s *ScriptSystem) Phase() coresys.Phase { return coresys.PhaseSimulate }

func (s *ScriptSystem) Update(dt time.Duration) {
	dir := s.Directory()
	secs := dt.Seconds()
	for e := range s.Entities().All() {
		b := ecs.MustGet[component.Behaviour](dir, e)
		tr := ecs.MustGet[component.Transform](dir, e)
		b.Elapsed += secs

		res, err := s.engine.CallBehaviour(b.Func, scripting.BehaviourContext{
			Entity:   uint32(e),
			DT:       secs,
			Elapsed:  b.Elapsed,
			Position: tr.Position,
			Scale:    tr.Scale,
		})
		if err != nil {
			if !s.failing[b.Func] {
				s.failing[b.Func] = true
				s.log.Error("behaviour failed", zap.String("func", b.Func), zap.Uint32("entity", uint32(e)), zap.Error(err))
			}
			continue
		}

		tr.Position = res.Position
		tr.Scale = res.Scale
		if res.Euler != nil {
			tr.Rotation = mgl32.AnglesToQuat(res.Euler[0], res.Euler[1], res.Euler[2], mgl32.XYZ)
		}
		if res.Destroy {
			s.destroyer.MarkForDestruction(e)
		}
	}
}
