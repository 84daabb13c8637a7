package ecs_test

import (
	"testing"

	"github.com/scenekit/scenekit/internal/core/ecs"
	"github.com/stretchr/testify/assert"
)

func TestTagManagerAddRemove(t *testing.T) {
	tm := ecs.NewTagManager()
	assert.True(t, tm.Add("enemy"))
	assert.False(t, tm.Add("enemy"), "second add is idempotent")
	assert.Equal(t, 1, tm.Count())

	assert.True(t, tm.Remove("enemy"))
	assert.False(t, tm.Remove("enemy"))
	assert.False(t, tm.Remove("never-added"))
	assert.Equal(t, 0, tm.Count())
}

func TestTagManagerSetQueries(t *testing.T) {
	tm := ecs.NewTagManager()
	assert.Equal(t, 2, tm.AddAll("a", "b", "a"))

	assert.True(t, tm.HasAll("a", "b"))
	assert.False(t, tm.HasAll("a", "c"))
	assert.True(t, tm.HasAll(), "empty HasAll is vacuously true")

	assert.True(t, tm.HasAny("c", "b"))
	assert.False(t, tm.HasAny("c", "d"))
	assert.False(t, tm.HasAny())

	assert.Equal(t, 1, tm.RemoveAll("a", "z"))
	assert.Equal(t, []string{"b"}, tm.All())
}

func TestTagManagerToggle(t *testing.T) {
	tm := ecs.NewTagManager()
	assert.True(t, tm.Toggle("boss"))
	assert.True(t, tm.Has("boss"))
	assert.False(t, tm.Toggle("boss"))
	assert.False(t, tm.Has("boss"))
}

func TestTagManagerAllIsSnapshot(t *testing.T) {
	tm := ecs.NewTagManager()
	tm.AddAll("z", "m", "a")
	all := tm.All()
	assert.Equal(t, []string{"a", "m", "z"}, all)

	all[0] = "mutated"
	tm.Add("b")
	assert.Equal(t, []string{"a", "b", "m", "z"}, tm.All())

	tm.Clear()
	assert.Equal(t, 0, tm.Count())
	assert.Empty(t, tm.All())
}
