package system

import (
	"time"

	"github.com/scenekit/scenekit/internal/component"
	"github.com/scenekit/scenekit/internal/core/ecs"
	coresys "github.com/scenekit/scenekit/internal/core/system"
)

// MovementSystem integrates Velocity into Transform for active entities.
// A disabled Velocity holds the entity still. Phase 2 (PostUpdate).
type MovementSystem struct {
	entities *ecs.Manager
}

func NewMovementSystem(sc coresys.Context) *MovementSystem {
	return &MovementSystem{entities: sc.Entities}
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *MovementSystem) Update(dt time.Duration) {
	secs := dt.Seconds()
	ecs.Each2[component.Transform, component.Velocity](s.entities,
		func(_ *ecs.Entity, t *component.Transform, v *component.Velocity) {
			if !v.Enabled() {
				return
			}
			t.X += v.X * secs
			t.Y += v.Y * secs
		})
}
