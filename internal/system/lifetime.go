package system

import (
	"time"

	"github.com/scenekit/scenekit/internal/component"
	"github.com/scenekit/scenekit/internal/core/ecs"
	coresys "github.com/scenekit/scenekit/internal/core/system"
	"go.uber.org/zap"
)

// LifetimeSystem queues entities whose Lifetime has run out. The countdown
// itself happens in Lifetime.Update during Phase 1. Phase 2 (PostUpdate).
type LifetimeSystem struct {
	entities *ecs.Manager
	log      *zap.Logger
}

func NewLifetimeSystem(sc coresys.Context) *LifetimeSystem {
	return &LifetimeSystem{entities: sc.Entities, log: sc.Log}
}

func (s *LifetimeSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *LifetimeSystem) Update(_ time.Duration) {
	ecs.Each[component.Lifetime](s.entities, func(e *ecs.Entity, l *component.Lifetime) {
		if l.Enabled() && l.Expired() {
			s.log.Debug("lifetime expired", zap.Stringer("entity", e))
			s.entities.MarkForDestruction(e)
		}
	})
}
