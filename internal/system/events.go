package system

import (
	"time"

	"github.com/scenekit/scenekit/internal/core/event"
	coresys "github.com/scenekit/scenekit/internal/core/system"
)

// EventSystem delivers signals queued with event.Emit during the previous
// frame. Phase 0 (Events).
type EventSystem struct {
	bus *event.Bus
}

func NewEventSystem(sc coresys.Context) *EventSystem {
	return &EventSystem{bus: sc.Bus}
}

func (s *EventSystem) Phase() coresys.Phase { return coresys.PhaseEvents }

func (s *EventSystem) Update(_ time.Duration) {
	if s.bus == nil {
		return
	}
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
