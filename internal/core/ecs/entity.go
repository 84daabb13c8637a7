package ecs

import (
	"context"
	"fmt"
	"time"

	"github.com/scenekit/scenekit/internal/scene"
)

// ID is assigned monotonically by the Manager and never reused. Zero is never
// a live entity.
type ID uint64

func (id ID) IsZero() bool { return id == 0 }

// Entity pairs a scene node with its components and tags. All mutation goes
// through the Manager's indexes, so a stale *Entity kept after Destroy can no
// longer reach any query.
type Entity struct {
	id         ID
	node       scene.Node
	archetype  string
	active     bool
	destroying bool
	destroyed  bool
	manager    *Manager
	components *ComponentManager
	tags       *TagManager
}

func newEntity(m *Manager, id ID, node scene.Node, archetype string) *Entity {
	e := &Entity{
		id:        id,
		node:      node,
		archetype: archetype,
		active:    true,
		manager:   m,
	}
	e.components = NewComponentManager(e, m.log)
	e.components.onAttach = func(name string) { m.TrackComponent(e, name) }
	e.components.onDetach = func(name string) { m.UntrackComponent(e, name) }
	e.tags = NewTagManager()
	e.tags.onAdd = func(tag string) { m.TrackTag(e, tag) }
	e.tags.onRemove = func(tag string) { m.UntrackTag(e, tag) }
	return e
}

func (e *Entity) ID() ID                        { return e.id }
func (e *Entity) Node() scene.Node              { return e.node }
func (e *Entity) Archetype() string             { return e.archetype }
func (e *Entity) Manager() *Manager             { return e.manager }
func (e *Entity) Active() bool                  { return e.active }
func (e *Entity) Destroyed() bool               { return e.destroyed }
func (e *Entity) Components() *ComponentManager { return e.components }
func (e *Entity) Tags() *TagManager             { return e.tags }

func (e *Entity) String() string {
	if e.archetype == "" {
		return fmt.Sprintf("entity#%d", e.id)
	}
	return fmt.Sprintf("entity#%d(%s)", e.id, e.archetype)
}

func (e *Entity) mutable() bool { return !e.destroying && !e.destroyed }

// AddComponent attaches c. A duplicate type returns the existing instance.
// Returns nil on a destroyed entity.
func (e *Entity) AddComponent(c Component) Component {
	if !e.mutable() {
		return nil
	}
	got, _ := e.components.Attach(c)
	return got
}

// RemoveComponent detaches the component stored under name.
func (e *Entity) RemoveComponent(name string) bool {
	if e.destroyed {
		return false
	}
	return e.components.Remove(name)
}

// GetComponent returns the component stored under name, or nil.
func (e *Entity) GetComponent(name string) Component {
	return e.components.Get(name)
}

func (e *Entity) HasComponent(name string) bool {
	return e.components.Has(name)
}

// With is the chaining form of AddComponent.
func (e *Entity) With(c Component) *Entity {
	e.AddComponent(c)
	return e
}

// Without is the chaining form of RemoveComponent.
func (e *Entity) Without(names ...string) *Entity {
	for _, n := range names {
		e.RemoveComponent(n)
	}
	return e
}

func (e *Entity) AddTag(tag string) bool {
	if !e.mutable() {
		return false
	}
	return e.tags.Add(tag)
}

func (e *Entity) RemoveTag(tag string) bool {
	if e.destroyed {
		return false
	}
	return e.tags.Remove(tag)
}

func (e *Entity) HasTag(tag string) bool { return e.tags.Has(tag) }

// ToggleTag flips tag and returns whether it is now present.
func (e *Entity) ToggleTag(tag string) bool {
	if !e.mutable() {
		return e.tags.Has(tag)
	}
	return e.tags.Toggle(tag)
}

// Tag is the chaining form of AddTag.
func (e *Entity) Tag(tags ...string) *Entity {
	if e.mutable() {
		e.tags.AddAll(tags...)
	}
	return e
}

// Untag is the chaining form of RemoveTag.
func (e *Entity) Untag(tags ...string) *Entity {
	if !e.destroyed {
		e.tags.RemoveAll(tags...)
	}
	return e
}

// Enable marks the entity and its node active.
func (e *Entity) Enable() { e.SetActive(true) }

// Disable hides the entity from queries and Update without unregistering it.
func (e *Entity) Disable() { e.SetActive(false) }

func (e *Entity) SetActive(active bool) {
	if e.destroyed {
		return
	}
	e.active = active
	if e.node != nil {
		e.node.SetActive(active)
	}
}

// Update runs the components' per-frame hooks. No-op while inactive.
func (e *Entity) Update(dt time.Duration) {
	if !e.active || e.destroyed {
		return
	}
	e.components.Update(dt)
}

// Clone creates a new entity from the same archetype under parent, copies
// every component (see Cloner) and every tag. The clone starts active.
func (e *Entity) Clone(ctx context.Context, parent scene.Node) (*Entity, error) {
	if e.destroyed {
		return nil, fmt.Errorf("clone %s: %w", e, ErrEntityDestroyed)
	}
	c, err := e.manager.CreateEntity(ctx, e.archetype, parent)
	if err != nil {
		return nil, fmt.Errorf("clone %s: %w", e, err)
	}
	for _, src := range e.components.All() {
		cp := cloneComponent(src)
		c.AddComponent(cp)
		if !src.base().enabled {
			c.components.SetEnabled(nameOf(cp), false)
		}
	}
	c.tags.AddAll(e.tags.All()...)
	return c, nil
}

// Destroy detaches all components, drops all tags, unregisters the entity and
// recycles or destroys its node.
func (e *Entity) Destroy() {
	e.manager.DestroyEntity(e)
}
