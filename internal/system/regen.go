package system

import (
	"time"

	"github.com/scenekit/scenekit/internal/component"
	"github.com/scenekit/scenekit/internal/core/ecs"
	coresys "github.com/scenekit/scenekit/internal/core/system"
)

// RegenTag marks entities whose Health regenerates.
const RegenTag = "regen"

// RegenSystem heals regen-tagged entities every interval frames. Dead
// entities (Current == 0) stay dead. Phase 2 (PostUpdate). Runs every frame;
// the counter gates actual regen.
type RegenSystem struct {
	entities  *ecs.Manager
	amount    int
	interval  int
	tickCount int
}

func NewRegenSystem(sc coresys.Context, amount, intervalFrames int) *RegenSystem {
	if intervalFrames < 1 {
		intervalFrames = 1
	}
	return &RegenSystem{entities: sc.Entities, amount: amount, interval: intervalFrames}
}

func (s *RegenSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *RegenSystem) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount%s.interval != 0 {
		return
	}
	s.entities.Query().
		WithComponents(ecs.NameOf[component.Health]()).
		WithTags(RegenTag).
		ForEach(func(e *ecs.Entity) {
			h, _ := ecs.Get[component.Health](e)
			if h.Enabled() && !h.Dead() {
				h.Heal(s.amount)
			}
		})
}
