package system

import (
	"time"

	"github.com/renderpipeline/engine/internal/core/ecs"
	"github.com/renderpipeline/engine/internal/core/event"
	coresys "github.com/renderpipeline/engine/internal/core/system"
	"go.uber.org/zap"
)

// CleanupSystem flushes the deferred entity destruction queue at frame end
// and announces each destroyed entity. Phase 5 (Cleanup).
type CleanupSystem struct {
	director *ecs.Director
	bus      *event.Bus
	log      *zap.Logger
}

func NewCleanupSystem(director *ecs.Director, bus *event.Bus, log *zap.Logger) *CleanupSystem {
	return &CleanupSystem{director: director, bus: bus, log: log}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	for _, e := range s.director.FlushDestroyQueue() {
		event.Emit(s.bus, event.EntityDestroyed{Entity: e})
		s.log.Debug("entity destroyed", zap.Uint32("entity", uint32(e)))
	}
}
