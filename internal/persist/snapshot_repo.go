package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/scenekit/scenekit/internal/core/ecs"
)

// SavedSnapshot is one stored registry snapshot.
type SavedSnapshot struct {
	ID        uuid.UUID
	Label     string
	Frame     uint64
	CreatedAt time.Time
	Snapshot  ecs.Snapshot
}

// SnapshotInfo is the listing row for a stored snapshot, without the body.
type SnapshotInfo struct {
	ID          uuid.UUID
	Label       string
	Frame       uint64
	EntityCount int
	TakenAt     time.Time
}

type SnapshotRepo struct {
	db *DB
}

func NewSnapshotRepo(db *DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// Save stores snap under a new random id.
func (r *SnapshotRepo) Save(ctx context.Context, label string, frame uint64, snap ecs.Snapshot) (uuid.UUID, error) {
	body, err := snap.Marshal()
	if err != nil {
		return uuid.Nil, err
	}
	id := uuid.New()
	_, err = r.db.Pool.Exec(ctx,
		`INSERT INTO scene_snapshots (id, label, frame, entity_count, taken_at, body)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, label, int64(frame), len(snap.Entities), snap.TakenAt, body,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert snapshot: %w", err)
	}
	return id, nil
}

// Load returns the snapshot with id. Returns (nil, nil) if not found.
func (r *SnapshotRepo) Load(ctx context.Context, id uuid.UUID) (*SavedSnapshot, error) {
	row := r.db.Pool.QueryRow(ctx,
		`SELECT id, label, frame, created_at, body FROM scene_snapshots WHERE id = $1`, id)
	return scanSnapshot(row)
}

// Latest returns the most recently taken snapshot. Returns (nil, nil) when the
// table is empty.
func (r *SnapshotRepo) Latest(ctx context.Context) (*SavedSnapshot, error) {
	row := r.db.Pool.QueryRow(ctx,
		`SELECT id, label, frame, created_at, body FROM scene_snapshots
		 ORDER BY taken_at DESC, created_at DESC LIMIT 1`)
	return scanSnapshot(row)
}

// List returns up to limit snapshot headers, newest first.
func (r *SnapshotRepo) List(ctx context.Context, limit int) ([]SnapshotInfo, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, label, frame, entity_count, taken_at FROM scene_snapshots
		 ORDER BY taken_at DESC, created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		var frame int64
		if err := rows.Scan(&info.ID, &info.Label, &frame, &info.EntityCount, &info.TakenAt); err != nil {
			return nil, err
		}
		info.Frame = uint64(frame)
		out = append(out, info)
	}
	return out, rows.Err()
}

// Prune deletes all but the newest keep snapshots. Returns rows removed.
func (r *SnapshotRepo) Prune(ctx context.Context, keep int) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM scene_snapshots WHERE id NOT IN (
		   SELECT id FROM scene_snapshots ORDER BY taken_at DESC, created_at DESC LIMIT $1
		 )`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanSnapshot(row pgx.Row) (*SavedSnapshot, error) {
	s := &SavedSnapshot{}
	var frame int64
	var body []byte
	err := row.Scan(&s.ID, &s.Label, &frame, &s.CreatedAt, &body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.Frame = uint64(frame)
	s.Snapshot, err = ecs.UnmarshalSnapshot(body)
	if err != nil {
		return nil, err
	}
	return s, nil
}
