package ecs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/scenekit/scenekit/internal/core/ecs"
	"github.com/scenekit/scenekit/internal/core/event"
	"github.com/scenekit/scenekit/internal/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// go test -run ^TestScenarios$ ./internal/core/ecs -count 1
func TestScenarios(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	// Scenario 1
	e1 := spawn(t, m)
	hp := ecs.Add(e1, func(h *Health) { h.Max = 100; h.Current = 50 })
	require.NotNil(t, hp)
	e1.AddTag("enemy")
	assert.Equal(t, 1, m.Query().WithComponents("Health").WithTags("enemy").Count())

	// Scenario 2
	again := ecs.Add[Health](e1)
	assert.Same(t, hp, again)
	assert.Equal(t, []string{"Health"}, e1.Components().Names())
	assert.Equal(t, 100, again.Max)

	// Scenario 5 (clone before destruction)
	e1.AddTag("boss")
	e2, err := e1.Clone(ctx, nil)
	require.NoError(t, err)
	hp2, ok := ecs.Get[Health](e2)
	require.True(t, ok)
	assert.NotSame(t, hp, hp2)
	assert.Equal(t, 50, hp2.Current)
	assert.True(t, e2.HasTag("boss"))
	assert.Same(t, e2, hp2.Entity())
	hp2.Current = 1
	assert.Equal(t, 50, hp.Current)

	// Scenario 3
	e1.RemoveTag("enemy")
	e2.RemoveTag("enemy")
	assert.Equal(t, 0, m.Query().WithTags("enemy").Count())

	// Scenario 4
	id := e1.ID()
	e1.Destroy()
	assert.Nil(t, m.Entity(id))
	e2.Destroy()
	assert.Equal(t, 0, m.Query().WithComponents("Health").Count())
	require.NoError(t, m.Verify())
}

func TestIDsAreMonotonic(t *testing.T) {
	m := newManager(t)
	a := spawn(t, m)
	b := spawn(t, m)
	a.Destroy()
	c := spawn(t, m)

	assert.Equal(t, ecs.ID(1), a.ID())
	assert.Equal(t, ecs.ID(2), b.ID())
	assert.Equal(t, ecs.ID(3), c.ID(), "ids are never reused")
	assert.False(t, a.ID().IsZero())
}

func TestIndexesMirrorEntityState(t *testing.T) {
	m := newManager(t)
	a := spawn(t, m)
	b := spawn(t, m)

	a.With(&Health{}).With(&Armor{}).Tag("enemy", "flying")
	b.With(&Health{}).Tag("enemy")
	require.NoError(t, m.Verify())
	assert.Equal(t, 2, m.ComponentCount("Health"))
	assert.Equal(t, 1, m.TagCount("flying"))

	a.Without("Armor").Untag("flying")
	b.ToggleTag("enemy")
	ecs.Remove[Health](b)
	require.NoError(t, m.Verify())
	assert.Equal(t, 0, m.ComponentCount("Armor"))
	assert.Equal(t, 1, m.TagCount("enemy"))
	assert.Equal(t, 1, m.ComponentCount("Health"))

	// Going through the sub-managers directly keeps the indexes in sync too.
	a.Components().Attach(&Loot{})
	a.Tags().Add("looted")
	require.NoError(t, m.Verify())
	assert.Equal(t, []*ecs.Entity{a}, m.WithComponent("Loot"))
	assert.Equal(t, []*ecs.Entity{a}, m.WithTag("looted"))
}

func TestRemoveMissingTagReturnsFalse(t *testing.T) {
	m := newManager(t)
	e := spawn(t, m).Tag("x")
	assert.False(t, e.RemoveTag("y"))
	assert.Equal(t, []string{"x"}, e.Tags().All())
}

func TestDestroyRunsHooksAndClearsIndexes(t *testing.T) {
	m := newManager(t)
	e := spawn(t, m)
	p := ecs.Add[Recorder](e)
	e.Tag("enemy")
	node := e.Node()

	e.Destroy()
	assert.True(t, e.Destroyed())
	assert.False(t, e.Active())
	assert.Equal(t, []string{"attach", "enable", "disable", "detach"}, p.Calls)
	assert.Same(t, e, p.Owner)
	assert.Equal(t, 0, m.ComponentCount("Recorder"))
	assert.Equal(t, 0, m.TagCount("enemy"))
	assert.True(t, node.Destroyed(), "bare nodes are destroyed outright")
	assert.Equal(t, 0, m.Count())

	assert.False(t, m.DestroyEntity(e), "second destroy is a no-op")
}

func TestStaleReferenceCannotReenterIndexes(t *testing.T) {
	m := newManager(t)
	e := spawn(t, m)
	e.Destroy()

	assert.Nil(t, e.AddComponent(&Health{}))
	assert.False(t, e.AddTag("ghost"))
	e.Tag("ghost").With(&Armor{})
	e.Enable()

	assert.Equal(t, 0, m.Query().WithTags("ghost").IncludeInactive().Count())
	assert.Equal(t, 0, m.TagCount("ghost"))
	assert.Empty(t, m.Entities())
	require.NoError(t, m.Verify())

	_, err := e.Clone(context.Background(), nil)
	assert.ErrorIs(t, err, ecs.ErrEntityDestroyed)
}

func TestEnableDisableMirrorsNode(t *testing.T) {
	m := newManager(t)
	e := spawn(t, m)
	p := ecs.Add[Recorder](e)

	e.Disable()
	assert.False(t, e.Active())
	assert.False(t, e.Node().Active())
	m.Update(time.Second)
	assert.Zero(t, p.Ticks, "inactive entities are not updated")

	e.Enable()
	assert.True(t, e.Node().Active())
	m.Update(time.Second)
	assert.Equal(t, time.Second, p.Ticks)
	assert.NotNil(t, m.Entity(e.ID()), "disabled entities stay registered")
}

func TestCreateUnderParent(t *testing.T) {
	m := newManager(t)
	root := scene.NewNode("root")
	e, err := m.CreateEntity(context.Background(), "", root)
	require.NoError(t, err)
	assert.Equal(t, scene.Node(root), e.Node().Parent())

	id, ok := e.Node().Meta(ecs.MetaEntityID)
	require.True(t, ok)
	assert.Equal(t, uint64(e.ID()), id)
}

func TestArchetypeSpawnsAndRecyclesThroughPool(t *testing.T) {
	pool := &fakePool{}
	m := newManager(t, ecs.WithPool(pool))
	m.RegisterArchetype("goblin", "prefabs/goblin")

	e, err := m.CreateEntity(context.Background(), "goblin", nil)
	require.NoError(t, err)
	assert.Equal(t, "goblin", e.Archetype())
	assert.Equal(t, []string{"prefabs/goblin"}, pool.spawned)
	arch, _ := e.Node().Meta(ecs.MetaArchetype)
	assert.Equal(t, "goblin", arch)

	node := e.Node()
	e.Destroy()
	require.Len(t, pool.recycled, 1)
	assert.Same(t, node, pool.recycled[0])
	assert.False(t, node.Destroyed())
}

func TestUnregisteredArchetypeFallsBackToDestroy(t *testing.T) {
	pool := &fakePool{}
	m := newManager(t, ecs.WithPool(pool))
	m.RegisterArchetype("goblin", "prefabs/goblin")

	e, err := m.CreateEntity(context.Background(), "goblin", nil)
	require.NoError(t, err)
	assert.True(t, m.UnregisterArchetype("goblin"))
	assert.False(t, m.UnregisterArchetype("goblin"))

	e.Destroy()
	assert.Empty(t, pool.recycled)
	assert.True(t, e.Node().Destroyed())

	bare, err := m.CreateEntity(context.Background(), "goblin", nil)
	require.NoError(t, err)
	assert.Equal(t, "", bare.Archetype(), "unknown archetypes create bare entities")
	assert.Len(t, pool.spawned, 1)
}

func TestSpawnFailureRegistersNothing(t *testing.T) {
	pool := &fakePool{err: errors.New("disk on fire")}
	m := newManager(t, ecs.WithPool(pool))
	m.RegisterArchetype("goblin", "prefabs/goblin")

	e, err := m.CreateEntity(context.Background(), "goblin", nil)
	assert.Nil(t, e)
	assert.ErrorContains(t, err, "disk on fire")
	assert.Equal(t, 0, m.Count())
}

func TestCloneKeepsArchetypeAndCopySemantics(t *testing.T) {
	pool := &fakePool{}
	m := newManager(t, ecs.WithPool(pool))
	m.RegisterArchetype("chest", "prefabs/chest")
	src, err := m.CreateEntity(context.Background(), "chest", nil)
	require.NoError(t, err)

	loot := ecs.Add(src, func(l *Loot) { l.Items = []string{"gold"} })
	ecs.Add(src, func(s *Satchel) { s.Items = []string{"rope"} })
	src.Components().SetEnabled("Satchel", false)

	dst, err := src.Clone(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "chest", dst.Archetype())
	assert.Len(t, pool.spawned, 2)

	dstLoot, _ := ecs.Get[Loot](dst)
	dstLoot.Items[0] = "silver"
	assert.Equal(t, "silver", loot.Items[0], "shallow copies share slices")

	dstSatchel, _ := ecs.Get[Satchel](dst)
	assert.False(t, dstSatchel.Enabled())
	dstSatchel.Items[0] = "chain"
	srcSatchel, _ := ecs.Get[Satchel](src)
	assert.Equal(t, "rope", srcSatchel.Items[0], "Cloner controls copy depth")
	require.NoError(t, m.Verify())
}

func TestDeferredDestruction(t *testing.T) {
	m := newManager(t)
	a := spawn(t, m).Tag("doomed")
	b := spawn(t, m).Tag("doomed")
	spawn(t, m)

	m.Query().WithTags("doomed").ForEach(func(e *ecs.Entity) {
		m.MarkForDestruction(e)
		m.MarkForDestruction(e)
	})
	assert.Equal(t, 3, m.Count(), "nothing is destroyed before the flush")

	assert.Equal(t, 2, m.FlushDestroyQueue())
	assert.True(t, a.Destroyed())
	assert.True(t, b.Destroyed())
	assert.Equal(t, 1, m.Count())
	assert.Equal(t, 0, m.FlushDestroyQueue())
}

func TestLifecycleSignals(t *testing.T) {
	bus := event.NewBus()
	m := newManager(t, ecs.WithBus(bus))

	var log []string
	event.Subscribe(bus, func(ev event.EntityCreated) { log = append(log, "created") })
	event.Subscribe(bus, func(ev event.ComponentAttached) { log = append(log, "+"+ev.Component) })
	event.Subscribe(bus, func(ev event.ComponentDetached) { log = append(log, "-"+ev.Component) })
	event.Subscribe(bus, func(ev event.TagAdded) { log = append(log, "+#"+ev.Tag) })
	event.Subscribe(bus, func(ev event.TagRemoved) { log = append(log, "-#"+ev.Tag) })
	event.Subscribe(bus, func(ev event.EntityDestroyed) { log = append(log, "destroyed") })

	e := spawn(t, m)
	ecs.Add[Health](e)
	e.AddTag("enemy")
	e.Destroy()

	assert.Equal(t, []string{"created", "+Health", "+#enemy", "-Health", "-#enemy", "destroyed"}, log)
}

func TestClearDestroysEverything(t *testing.T) {
	m := newManager(t)
	for i := 0; i < 5; i++ {
		spawn(t, m).Tag("x").With(&Health{})
	}
	m.Clear()
	assert.Equal(t, 0, m.Count())
	assert.Equal(t, 0, m.TagCount("x"))
	require.NoError(t, m.Verify())
}

func TestArchetypeRegistry(t *testing.T) {
	m := newManager(t)
	m.RegisterArchetype("orc", "p/orc")
	m.RegisterArchetype("bat", "p/bat")

	assert.Equal(t, []string{"bat", "orc"}, m.Archetypes())
	p, ok := m.ArchetypePath("orc")
	assert.True(t, ok)
	assert.Equal(t, "p/orc", p)
	_, ok = m.ArchetypePath("elf")
	assert.False(t, ok)
}
