package event

import "github.com/renderpipeline/engine/internal/core/ecs"

// EntityDestroyed is emitted by the cleanup system for every entity it retires.
type EntityDestroyed struct {
	Entity ecs.Entity
}

// ModelRejected is emitted when a model bundle came back empty and was
// skipped.
type ModelRejected struct {
	Entity ecs.Entity
	Source string
}
