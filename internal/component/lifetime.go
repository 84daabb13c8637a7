package component

import (
	"time"

	"github.com/scenekit/scenekit/internal/core/ecs"
)

// Lifetime counts down while enabled. LifetimeSystem queues expired entities
// for destruction.
type Lifetime struct {
	ecs.BaseComponent
	Remaining time.Duration `json:"remaining" yaml:"remaining"`
}

func (l *Lifetime) Update(dt time.Duration) {
	if l.Remaining <= 0 {
		return
	}
	l.Remaining -= dt
	if l.Remaining < 0 {
		l.Remaining = 0
	}
}

func (l *Lifetime) Expired() bool { return l.Remaining <= 0 }
