package system

import (
	"time"

	"github.com/scenekit/scenekit/internal/core/ecs"
	"github.com/scenekit/scenekit/internal/core/event"
	"go.uber.org/zap"
)

// Phase defines execution ordering within a single frame.
type Phase int

const (
	PhaseEvents     Phase = iota // 0: deliver last frame's queued signals
	PhaseUpdate                  // 1: game logic, component updates
	PhasePostUpdate              // 2: movement integration, lifetimes
	PhasePersist                 // 3: snapshot saves
	PhaseCleanup                 // 4: destroy queued entities
)

func (p Phase) String() string {
	switch p {
	case PhaseEvents:
		return "events"
	case PhaseUpdate:
		return "update"
	case PhasePostUpdate:
		return "post-update"
	case PhasePersist:
		return "persist"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is the interface every frame system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}

// Context is the shared registry handle passed to systems at construction,
// in place of a process-wide singleton.
type Context struct {
	Entities *ecs.Manager
	Bus      *event.Bus
	Log      *zap.Logger
}
