package system

import (
	"time"

	"github.com/scenekit/scenekit/internal/core/ecs"
	coresys "github.com/scenekit/scenekit/internal/core/system"
	"go.uber.org/zap"
)

// CleanupSystem flushes the deferred entity destruction queue at frame end.
// Phase 4 (Cleanup).
type CleanupSystem struct {
	entities *ecs.Manager
	log      *zap.Logger
}

func NewCleanupSystem(sc coresys.Context) *CleanupSystem {
	return &CleanupSystem{entities: sc.Entities, log: sc.Log}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	if n := s.entities.FlushDestroyQueue(); n > 0 {
		s.log.Debug("destroyed queued entities", zap.Int("count", n))
	}
}
