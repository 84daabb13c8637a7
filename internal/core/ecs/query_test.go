package ecs_test

import (
	"testing"

	"github.com/scenekit/scenekit/internal/core/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quadrants builds one entity per combination of (has Health) × (has tag "x").
func quadrants(t *testing.T, m *ecs.Manager) (both, onlyA, onlyX, neither *ecs.Entity) {
	t.Helper()
	both = spawn(t, m).With(&Health{}).Tag("x")
	onlyA = spawn(t, m).With(&Health{})
	onlyX = spawn(t, m).Tag("x")
	neither = spawn(t, m)
	return
}

func TestQueryQuadrants(t *testing.T) {
	m := newManager(t)
	both, onlyA, onlyX, neither := quadrants(t, m)

	res := m.Query().WithComponents("Health").WithTags("x").Execute()
	assert.Equal(t, []*ecs.Entity{both}, res)

	assert.Equal(t, []*ecs.Entity{both, onlyA}, m.Query().WithComponents("Health").Execute())
	assert.Equal(t, []*ecs.Entity{both, onlyX}, m.Query().WithTags("x").Execute())
	assert.Equal(t, []*ecs.Entity{both, onlyA, onlyX, neither}, m.Query().Execute())
}

func TestQueryExclusions(t *testing.T) {
	m := newManager(t)
	both, onlyA, onlyX, neither := quadrants(t, m)

	assert.Equal(t, []*ecs.Entity{onlyX, neither}, m.Query().WithoutComponents("Health").Execute())
	assert.Equal(t, []*ecs.Entity{onlyA, neither}, m.Query().WithoutTags("x").Execute())
	assert.Equal(t, []*ecs.Entity{onlyA},
		m.Query().WithComponents("Health").WithoutTags("x").Execute())
	assert.Equal(t, []*ecs.Entity{onlyX},
		m.Query().WithTags("x").WithoutComponents("Health").Execute())
	_ = both
}

func TestQueryDropsInactiveUnlessAsked(t *testing.T) {
	m := newManager(t)
	both, onlyA, _, _ := quadrants(t, m)
	both.Disable()

	assert.Equal(t, []*ecs.Entity{onlyA}, m.Query().WithComponents("Health").Execute())
	assert.Equal(t, []*ecs.Entity{both, onlyA},
		m.Query().WithComponents("Health").IncludeInactive().Execute())
}

func TestQueryMultipleRequirements(t *testing.T) {
	m := newManager(t)
	full := spawn(t, m).With(&Health{}).With(&Armor{}).Tag("a", "b")
	spawn(t, m).With(&Health{}).Tag("a", "b")
	spawn(t, m).With(&Health{}).With(&Armor{}).Tag("a")

	q := m.Query().WithComponents("Health", "Armor").WithTags("a", "b")
	assert.Equal(t, []*ecs.Entity{full}, q.Execute())
	assert.Equal(t, 0, m.Query().WithComponents("Nothing").Count())
	assert.Equal(t, 0, m.Query().WithTags("a", "missing").Count())
}

func TestQueryDerivedOps(t *testing.T) {
	m := newManager(t)
	assert.Nil(t, m.Query().WithTags("x").First())

	both, _, onlyX, _ := quadrants(t, m)
	q := m.Query().WithTags("x")
	assert.Same(t, both, q.First())
	assert.Equal(t, 2, q.Count())

	var seen []ecs.ID
	q.ForEach(func(e *ecs.Entity) {
		seen = append(seen, e.ID())
		e.Destroy() // destroying during iteration is safe
	})
	assert.Equal(t, []ecs.ID{both.ID(), onlyX.ID()}, seen)
	assert.Equal(t, 0, m.Query().WithTags("x").Count())
	require.NoError(t, m.Verify())
}

func TestDestroyedNeverReturned(t *testing.T) {
	m := newManager(t)
	e := spawn(t, m).With(&Health{}).Tag("enemy")
	stale := e
	e.Destroy()

	for _, got := range m.Query().IncludeInactive().Execute() {
		assert.NotSame(t, stale, got)
	}
	assert.Empty(t, m.WithComponent("Health"))
	assert.Empty(t, m.WithTag("enemy"))
}

func TestTypedIteration(t *testing.T) {
	m := newManager(t)
	a := spawn(t, m)
	ecs.Add(a, func(h *Health) { h.Current = 3 })
	ecs.Add(a, func(r *Armor) { r.Value = 7 })
	ecs.Add[Recorder](a)
	b := spawn(t, m)
	ecs.Add(b, func(h *Health) { h.Current = 4 })

	total := 0
	ecs.Each[Health](m, func(_ *ecs.Entity, h *Health) { total += h.Current })
	assert.Equal(t, 7, total)

	var pairs []int
	ecs.Each2[Health, Armor](m, func(e *ecs.Entity, h *Health, r *Armor) {
		pairs = append(pairs, h.Current*r.Value)
	})
	assert.Equal(t, []int{21}, pairs)

	calls := 0
	ecs.Each3[Health, Armor, Recorder](m, func(e *ecs.Entity, h *Health, r *Armor, p *Recorder) {
		calls++
		assert.Same(t, a, e)
	})
	assert.Equal(t, 1, calls)
}

func TestEach2SkipsEntityDestroyedByEarlierCallback(t *testing.T) {
	m := newManager(t)
	a := spawn(t, m).With(&Health{Current: 1}).With(&Armor{})
	b := spawn(t, m).With(&Health{Current: 2}).With(&Armor{})

	var visited []*ecs.Entity
	require.NotPanics(t, func() {
		ecs.Each2[Health, Armor](m, func(e *ecs.Entity, h *Health, r *Armor) {
			visited = append(visited, e)
			if e == a {
				b.Destroy()
			}
		})
	})
	assert.Equal(t, []*ecs.Entity{a}, visited)
	require.NoError(t, m.Verify())
}

func TestEachSkipsComponentRemovedByEarlierCallback(t *testing.T) {
	m := newManager(t)
	a := spawn(t, m).With(&Health{})
	b := spawn(t, m).With(&Health{})

	var visited []*ecs.Entity
	ecs.Each[Health](m, func(e *ecs.Entity, h *Health) {
		require.NotNil(t, h)
		visited = append(visited, e)
		b.RemoveComponent("Health")
	})
	assert.Equal(t, []*ecs.Entity{a}, visited)
}

func TestForEachSkipsDestroyedMatches(t *testing.T) {
	m := newManager(t)
	a := spawn(t, m).Tag("wave")
	b := spawn(t, m).Tag("wave")
	c := spawn(t, m).Tag("wave")

	var visited []*ecs.Entity
	m.Query().WithTags("wave").ForEach(func(e *ecs.Entity) {
		visited = append(visited, e)
		if e == a {
			c.Destroy()
		}
	})
	assert.Equal(t, []*ecs.Entity{a, b}, visited)
	assert.Equal(t, 2, m.TagCount("wave"))
}
