package system

import (
	"time"

	"github.com/scenekit/scenekit/internal/core/ecs"
	coresys "github.com/scenekit/scenekit/internal/core/system"
)

// EntityUpdateSystem forwards the frame delta to every active entity's
// enabled Updater components. Phase 1 (Update).
type EntityUpdateSystem struct {
	entities *ecs.Manager
}

func NewEntityUpdateSystem(sc coresys.Context) *EntityUpdateSystem {
	return &EntityUpdateSystem{entities: sc.Entities}
}

func (s *EntityUpdateSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *EntityUpdateSystem) Update(dt time.Duration) {
	s.entities.Update(dt)
}
