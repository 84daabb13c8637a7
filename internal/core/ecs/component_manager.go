package ecs

import (
	"time"

	"go.uber.org/zap"
)

// ComponentManager holds at most one component per type name for a single
// entity and runs the lifecycle hooks. Update order follows attach order.
type ComponentManager struct {
	owner *Entity
	log   *zap.Logger
	items map[string]Component
	order []string

	// index maintenance, set by the owning Entity
	onAttach func(name string)
	onDetach func(name string)
}

// NewComponentManager returns a manager for owner. owner may be nil when the
// manager is used on its own.
func NewComponentManager(owner *Entity, log *zap.Logger) *ComponentManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &ComponentManager{
		owner: owner,
		log:   log,
		items: make(map[string]Component, 4),
	}
}

// Attach adds c under its type name, enables it and runs OnAttach then
// OnEnable. If that type is already attached the existing instance is returned
// with false and c is left untouched. An instance owned by another entity is
// rejected with (nil, false).
func (m *ComponentManager) Attach(c Component) (Component, bool) {
	name := nameOf(c)
	if existing, ok := m.items[name]; ok {
		m.warnDuplicate(name)
		return existing, false
	}
	b := c.base()
	if b.entity != nil && b.entity != m.owner {
		fields := []zap.Field{zap.String("component", name), zap.Stringer("owner", b.entity)}
		if m.owner != nil {
			fields = append(fields, zap.Uint64("entity", uint64(m.owner.id)))
		}
		m.log.Warn("component owned by another entity", fields...)
		return nil, false
	}
	b.entity = m.owner
	b.enabled = true
	m.items[name] = c
	m.order = append(m.order, name)
	if m.onAttach != nil {
		m.onAttach(name)
	}
	if h, ok := c.(Attacher); ok {
		h.OnAttach(m.owner)
	}
	if h, ok := c.(Enabler); ok {
		h.OnEnable()
	}
	return c, true
}

func (m *ComponentManager) warnDuplicate(name string) {
	fields := []zap.Field{zap.String("component", name)}
	if m.owner != nil {
		fields = append(fields, zap.Uint64("entity", uint64(m.owner.id)))
	}
	m.log.Warn("component already attached", fields...)
}

// Get returns the component stored under name, or nil.
func (m *ComponentManager) Get(name string) Component {
	return m.items[name]
}

func (m *ComponentManager) Has(name string) bool {
	_, ok := m.items[name]
	return ok
}

// Remove runs OnDisable (if the component is enabled) and OnDetach, then drops
// the component.
func (m *ComponentManager) Remove(name string) bool {
	c, ok := m.items[name]
	if !ok {
		return false
	}
	b := c.base()
	if b.enabled {
		b.enabled = false
		if h, ok := c.(Disabler); ok {
			h.OnDisable()
		}
	}
	if h, ok := c.(Detacher); ok {
		h.OnDetach()
	}
	delete(m.items, name)
	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	b.entity = nil
	if m.onDetach != nil {
		m.onDetach(name)
	}
	return true
}

// All returns the attached components in attach order.
func (m *ComponentManager) All() []Component {
	out := make([]Component, 0, len(m.order))
	for _, n := range m.order {
		out = append(out, m.items[n])
	}
	return out
}

// Names returns the attached type names in attach order.
func (m *ComponentManager) Names() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

func (m *ComponentManager) Count() int {
	return len(m.items)
}

// SetEnabled flips the enabled flag and fires OnEnable/OnDisable only when the
// state actually changes. Returns false if name is not attached.
func (m *ComponentManager) SetEnabled(name string, enabled bool) bool {
	c, ok := m.items[name]
	if !ok {
		return false
	}
	b := c.base()
	if b.enabled == enabled {
		return true
	}
	b.enabled = enabled
	if enabled {
		if h, ok := c.(Enabler); ok {
			h.OnEnable()
		}
	} else if h, ok := c.(Disabler); ok {
		h.OnDisable()
	}
	return true
}

// Update calls Update on every enabled Updater. Components attached during the
// pass wait for the next frame; one removed or disabled earlier in the pass is
// skipped.
func (m *ComponentManager) Update(dt time.Duration) {
	for _, name := range m.Names() {
		c, ok := m.items[name]
		if !ok || !c.base().enabled {
			continue
		}
		if u, ok := c.(Updater); ok {
			u.Update(dt)
		}
	}
}

// Clear disables and detaches every component, newest first.
func (m *ComponentManager) Clear() {
	names := m.Names()
	for i := len(names) - 1; i >= 0; i-- {
		m.Remove(names[i])
	}
}
