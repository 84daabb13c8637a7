package ecs_test

import (
	"context"
	"testing"
	"time"

	"github.com/scenekit/scenekit/internal/core/ecs"
	"github.com/scenekit/scenekit/internal/scene"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- Test Components ---

type Health struct {
	ecs.BaseComponent
	Current int
	Max     int
}

type Armor struct {
	ecs.BaseComponent
	Value int
}

type Loot struct {
	ecs.BaseComponent
	Items []string
}

// Satchel deep-copies its slice on clone.
type Satchel struct {
	ecs.BaseComponent
	Items []string
}

func (s *Satchel) Clone() ecs.Component {
	return &Satchel{Items: append([]string(nil), s.Items...)}
}

type Renamed struct {
	ecs.BaseComponent
}

func (*Renamed) ComponentName() string { return "renamed-component" }

// Recorder records every lifecycle hook it receives.
type Recorder struct {
	ecs.BaseComponent
	Calls []string
	Owner *ecs.Entity
	Ticks time.Duration
}

func (p *Recorder) OnAttach(e *ecs.Entity) { p.Calls = append(p.Calls, "attach"); p.Owner = e }
func (p *Recorder) OnDetach() { p.Calls = append(p.Calls, "detach") }
func (p *Recorder) OnEnable() { p.Calls = append(p.Calls, "enable") }
func (p *Recorder) OnDisable() { p.Calls = append(p.Calls, "disable") }
func (p *Recorder) Update(dt time.Duration) { p.Calls = append(p.Calls, "update"); p.Ticks += dt }

// --- Fixtures ---

func newManager(t *testing.T, opts ...ecs.Option) *ecs.Manager {
	t.Helper()
	return ecs.NewManager(zap.NewNop(), opts...)
}

func spawn(t *testing.T, m *ecs.Manager) *ecs.Entity {
	t.Helper()
	e, err := m.CreateEntity(context.Background(), "", nil)
	require.NoError(t, err)
	return e
}

// fakePool hands out BasicNodes and remembers what came back.
type fakePool struct {
	spawned  []string
	recycled []scene.Node
	err      error
}

func (p *fakePool) Spawn(_ context.Context, path string, parent scene.Node) (scene.Node, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.spawned = append(p.spawned, path)
	n := scene.NewNode(path)
	scene.Attach(n, parent)
	return n, nil
}

func (p *fakePool) Recycle(node scene.Node) {
	p.recycled = append(p.recycled, node)
}
