package persist

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/scenekit/scenekit/internal/config"
	"github.com/scenekit/scenekit/internal/core/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type Health struct {
	ecs.BaseComponent
	Current int `json:"current"`
}

// openTestDB connects to SCENEKIT_TEST_DSN and resets the snapshot table.
func openTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("SCENEKIT_TEST_DSN")
	if dsn == "" {
		t.Skip("SCENEKIT_TEST_DSN not set")
	}
	ctx := context.Background()
	cfg := config.Defaults().Database
	cfg.DSN = dsn
	db, err := NewDB(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(db.Close)

	version, err := RunMigrations(ctx, db.Pool, zap.NewNop())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, version, int64(1))

	_, err = db.Pool.Exec(ctx, `TRUNCATE scene_snapshots`)
	require.NoError(t, err)
	return db
}

func TestSnapshotRepoRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewSnapshotRepo(db)

	none, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, none)

	m := ecs.NewManager(zap.NewNop())
	e, err := m.CreateEntity(ctx, "", nil)
	require.NoError(t, err)
	ecs.Add(e.Tag("hero"), func(h *Health) { h.Current = 9 })

	first, err := m.Snapshot()
	require.NoError(t, err)
	firstID, err := repo.Save(ctx, "first", 10, first)
	require.NoError(t, err)

	e.Tag("veteran")
	second, err := m.Snapshot()
	require.NoError(t, err)
	second.TakenAt = first.TakenAt.Add(time.Second)
	secondID, err := repo.Save(ctx, "second", 20, second)
	require.NoError(t, err)

	latest, err := repo.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, secondID, latest.ID)
	assert.Equal(t, uint64(20), latest.Frame)
	assert.Equal(t, []string{"hero", "veteran"}, latest.Snapshot.Entities[0].Tags)

	loaded, err := repo.Load(ctx, firstID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "first", loaded.Label)
	assert.Equal(t, []string{"hero"}, loaded.Snapshot.Entities[0].Tags)

	missing, err := repo.Load(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	infos, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, secondID, infos[0].ID)
	assert.Equal(t, 1, infos[0].EntityCount)

	removed, err := repo.Prune(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestNewDBRejectsBadDSN(t *testing.T) {
	cfg := config.Defaults().Database
	cfg.DSN = "postgres://%zz"
	_, err := NewDB(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "parse dsn")
}
