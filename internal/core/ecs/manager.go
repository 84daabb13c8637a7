package ecs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/scenekit/scenekit/internal/core/event"
	"github.com/scenekit/scenekit/internal/scene"
	"go.uber.org/zap"
)

// Node metadata keys written by CreateEntity.
const (
	MetaEntityID  = "ecs.entity_id"
	MetaArchetype = "ecs.archetype"
)

// Pool spawns and recycles archetype nodes.
type Pool interface {
	Spawn(ctx context.Context, path string, parent scene.Node) (scene.Node, error)
	Recycle(node scene.Node)
}

// Option configures a Manager.
type Option func(*Manager)

// WithPool routes archetype entities through p.
func WithPool(p Pool) Option {
	return func(m *Manager) { m.pool = p }
}

// WithBus publishes lifecycle signals on b.
func WithBus(b *event.Bus) Option {
	return func(m *Manager) { m.bus = b }
}

// WithNodeFactory replaces the constructor used for bare (non-archetype) nodes.
func WithNodeFactory(fn func(name string) scene.Node) Option {
	return func(m *Manager) { m.newNode = fn }
}

// Manager is the entity registry. It owns the only strong references to live
// entities plus two reverse indexes (component name → entities, tag →
// entities). Accessed only from the frame goroutine, no locks.
type Manager struct {
	log     *zap.Logger
	pool    Pool
	bus     *event.Bus
	newNode func(name string) scene.Node

	nextID      ID
	entities    map[ID]*Entity
	byComponent index
	byTag       index
	archetypes  map[string]string

	destroyQueue []*Entity
}

func NewManager(log *zap.Logger, opts ...Option) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{
		log:          log,
		newNode:      func(name string) scene.Node { return scene.NewNode(name) },
		entities:     make(map[ID]*Entity, 256),
		byComponent:  make(index),
		byTag:        make(index),
		archetypes:   make(map[string]string),
		destroyQueue: make([]*Entity, 0, 64),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Log() *zap.Logger { return m.log }

// ── Archetypes ────────────────────────────────────────────────────

// RegisterArchetype maps an archetype name to a pooled resource path.
func (m *Manager) RegisterArchetype(name, path string) {
	m.archetypes[name] = path
}

// UnregisterArchetype removes name. Entities already created from it fall
// back to direct node destruction.
func (m *Manager) UnregisterArchetype(name string) bool {
	if _, ok := m.archetypes[name]; !ok {
		return false
	}
	delete(m.archetypes, name)
	return true
}

// ArchetypePath returns the resource path registered for name.
func (m *Manager) ArchetypePath(name string) (string, bool) {
	p, ok := m.archetypes[name]
	return p, ok
}

// Archetypes returns the registered archetype names, sorted.
func (m *Manager) Archetypes() []string {
	out := make([]string, 0, len(m.archetypes))
	for n := range m.archetypes {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// ── Lifecycle ─────────────────────────────────────────────────────

// CreateEntity registers a new entity. A registered archetype spawns its node
// from the pool; anything else gets a bare node under parent (parent may be
// nil). The entity is not visible to queries until this returns.
func (m *Manager) CreateEntity(ctx context.Context, archetype string, parent scene.Node) (*Entity, error) {
	var node scene.Node
	origin := ""
	path, registered := m.archetypes[archetype]
	switch {
	case archetype != "" && registered && m.pool != nil:
		n, err := m.pool.Spawn(ctx, path, parent)
		if err != nil {
			return nil, fmt.Errorf("spawn archetype %s: %w", archetype, err)
		}
		node = n
		origin = archetype
	default:
		if archetype != "" && registered {
			origin = archetype
		} else if archetype != "" {
			m.log.Debug("unregistered archetype, creating bare node", zap.String("archetype", archetype))
		}
		name := archetype
		if name == "" {
			name = "entity"
		}
		node = m.newNode(name)
		scene.Attach(node, parent)
	}

	m.nextID++
	e := newEntity(m, m.nextID, node, origin)
	node.SetActive(true)
	node.SetMeta(MetaEntityID, uint64(e.id))
	node.SetMeta(MetaArchetype, origin)
	m.entities[e.id] = e

	if m.bus != nil {
		event.Publish(m.bus, event.EntityCreated{EntityID: uint64(e.id), Archetype: origin})
	}
	return e, nil
}

// DestroyEntity tears e down immediately. Returns false if e is not a live
// entity of this manager.
func (m *Manager) DestroyEntity(e *Entity) bool {
	if !m.owns(e) || e.destroying {
		return false
	}
	e.destroying = true
	e.components.Clear()
	e.tags.Clear()
	// Anything a detach hook managed to index is swept here.
	for _, name := range e.components.Names() {
		m.byComponent.remove(name, e)
	}
	for _, tag := range e.tags.All() {
		m.byTag.remove(tag, e)
	}
	delete(m.entities, e.id)
	e.destroyed = true
	e.active = false
	m.releaseNode(e)

	if m.bus != nil {
		event.Publish(m.bus, event.EntityDestroyed{EntityID: uint64(e.id), Archetype: e.archetype})
	}
	return true
}

func (m *Manager) releaseNode(e *Entity) {
	if e.node == nil {
		return
	}
	_, registered := m.archetypes[e.archetype]
	if e.archetype != "" && registered && m.pool != nil {
		m.pool.Recycle(e.node)
		return
	}
	if e.archetype != "" && !registered {
		m.log.Debug("archetype no longer registered, destroying node",
			zap.String("archetype", e.archetype), zap.Uint64("entity", uint64(e.id)))
	}
	e.node.Destroy()
}

// MarkForDestruction queues e for the end-of-frame flush.
func (m *Manager) MarkForDestruction(e *Entity) {
	if m.owns(e) {
		m.destroyQueue = append(m.destroyQueue, e)
	}
}

// FlushDestroyQueue destroys all queued entities in queue order, including
// any queued by detach hooks during the flush. Returns how many were destroyed.
// Called by CleanupSystem at the end of each frame.
func (m *Manager) FlushDestroyQueue() int {
	n := 0
	for i := 0; i < len(m.destroyQueue); i++ {
		if m.DestroyEntity(m.destroyQueue[i]) {
			n++
		}
	}
	clear(m.destroyQueue)
	m.destroyQueue = m.destroyQueue[:0]
	return n
}

// Clear destroys every entity.
func (m *Manager) Clear() {
	for _, e := range m.Entities() {
		m.DestroyEntity(e)
	}
	m.destroyQueue = m.destroyQueue[:0]
}

// ── Lookup ────────────────────────────────────────────────────────

// Entity returns the live entity with id, or nil.
func (m *Manager) Entity(id ID) *Entity {
	return m.entities[id]
}

// Entities returns every live entity ordered by id.
func (m *Manager) Entities() []*Entity {
	return sortedEntities(m.entities)
}

func (m *Manager) Count() int {
	return len(m.entities)
}

// WithComponent is shorthand for Query().WithComponents(name).Execute().
func (m *Manager) WithComponent(name string) []*Entity {
	return m.Query().WithComponents(name).Execute()
}

// WithTag is shorthand for Query().WithTags(tag).Execute().
func (m *Manager) WithTag(tag string) []*Entity {
	return m.Query().WithTags(tag).Execute()
}

// Query returns a fresh query bound to m.
func (m *Manager) Query() *Query {
	return &Query{m: m}
}

// Update runs every active entity's components once.
func (m *Manager) Update(dt time.Duration) {
	for _, e := range m.Entities() {
		e.Update(dt)
	}
}

func (m *Manager) owns(e *Entity) bool {
	return e != nil && !e.destroyed && m.entities[e.id] == e
}

// ── Index maintenance ─────────────────────────────────────────────

func (m *Manager) TrackComponent(e *Entity, name string) {
	if !m.owns(e) || e.destroying {
		return
	}
	m.byComponent.add(name, e)
	if m.bus != nil {
		event.Publish(m.bus, event.ComponentAttached{EntityID: uint64(e.id), Component: name})
	}
}

func (m *Manager) UntrackComponent(e *Entity, name string) {
	if e == nil || !m.byComponent.contains(name, e.id) {
		return
	}
	m.byComponent.remove(name, e)
	if m.bus != nil {
		event.Publish(m.bus, event.ComponentDetached{EntityID: uint64(e.id), Component: name})
	}
}

func (m *Manager) TrackTag(e *Entity, tag string) {
	if !m.owns(e) || e.destroying {
		return
	}
	m.byTag.add(tag, e)
	if m.bus != nil {
		event.Publish(m.bus, event.TagAdded{EntityID: uint64(e.id), Tag: tag})
	}
}

func (m *Manager) UntrackTag(e *Entity, tag string) {
	if e == nil || !m.byTag.contains(tag, e.id) {
		return
	}
	m.byTag.remove(tag, e)
	if m.bus != nil {
		event.Publish(m.bus, event.TagRemoved{EntityID: uint64(e.id), Tag: tag})
	}
}

// ComponentCount returns how many live entities hold name.
func (m *Manager) ComponentCount(name string) int { return m.byComponent.size(name) }

// TagCount returns how many live entities carry tag.
func (m *Manager) TagCount(tag string) int { return m.byTag.size(tag) }

// Verify cross-checks both reverse indexes against per-entity state and
// returns every mismatch found.
func (m *Manager) Verify() error {
	var errs []error
	for _, e := range m.Entities() {
		for _, name := range e.components.Names() {
			if !m.byComponent.contains(name, e.id) {
				errs = append(errs, fmt.Errorf("%s: component %q missing from index", e, name))
			}
		}
		for _, tag := range e.tags.All() {
			if !m.byTag.contains(tag, e.id) {
				errs = append(errs, fmt.Errorf("%s: tag %q missing from index", e, tag))
			}
		}
	}
	for name, set := range m.byComponent {
		for id, e := range set {
			if m.entities[id] != e {
				errs = append(errs, fmt.Errorf("component index %q holds dead entity#%d", name, id))
			} else if !e.components.Has(name) {
				errs = append(errs, fmt.Errorf("component index %q holds %s without it", name, e))
			}
		}
	}
	for tag, set := range m.byTag {
		for id, e := range set {
			if m.entities[id] != e {
				errs = append(errs, fmt.Errorf("tag index %q holds dead entity#%d", tag, id))
			} else if !e.tags.Has(tag) {
				errs = append(errs, fmt.Errorf("tag index %q holds %s without it", tag, e))
			}
		}
	}
	return errors.Join(errs...)
}

func sortedEntities(set map[ID]*Entity) []*Entity {
	out := make([]*Entity, 0, len(set))
	for _, e := range set {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}
