package system

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/scenekit/scenekit/internal/core/ecs"
	coresys "github.com/scenekit/scenekit/internal/core/system"
	"go.uber.org/zap"
)

// SnapshotStore persists registry snapshots. *persist.SnapshotRepo
// implements it.
type SnapshotStore interface {
	Save(ctx context.Context, label string, frame uint64, snap ecs.Snapshot) (uuid.UUID, error)
}

// SnapshotSystem periodically saves a snapshot of the whole registry.
// Phase 3 (Persist).
type SnapshotSystem struct {
	entities  *ecs.Manager
	store     SnapshotStore
	log       *zap.Logger
	frame     uint64
	tickCount int
	interval  int // save every N frames
	last      uuid.UUID
}

func NewSnapshotSystem(sc coresys.Context, store SnapshotStore, intervalFrames int) *SnapshotSystem {
	return &SnapshotSystem{
		entities: sc.Entities,
		store:    store,
		log:      sc.Log,
		interval: intervalFrames,
	}
}

func (s *SnapshotSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *SnapshotSystem) Update(_ time.Duration) {
	s.frame++
	if s.store == nil || s.interval <= 0 {
		return
	}
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.save("auto")
}

// SaveNow stores a snapshot immediately. Called for graceful shutdown.
func (s *SnapshotSystem) SaveNow(label string) (uuid.UUID, bool) {
	if s.store == nil {
		return uuid.Nil, false
	}
	return s.save(label)
}

// Last returns the id of the most recent successful save.
func (s *SnapshotSystem) Last() uuid.UUID { return s.last }

func (s *SnapshotSystem) save(label string) (uuid.UUID, bool) {
	snap, err := s.entities.Snapshot()
	if err != nil {
		s.log.Error("snapshot encode failed", zap.Error(err))
		return uuid.Nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	id, err := s.store.Save(ctx, label, s.frame, snap)
	if err != nil {
		s.log.Error("snapshot save failed", zap.Uint64("frame", s.frame), zap.Error(err))
		return uuid.Nil, false
	}
	s.last = id
	s.log.Debug("snapshot saved",
		zap.String("id", id.String()),
		zap.Int("entities", len(snap.Entities)),
		zap.Uint64("frame", s.frame),
	)
	return id, true
}
