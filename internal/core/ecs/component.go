package ecs

import (
	"reflect"
	"time"
)

// Component is implemented by embedding BaseComponent in a struct and using
// the struct through a pointer:
//
//	type Health struct {
//		ecs.BaseComponent
//		Current, Max int
//	}
type Component interface {
	base() *BaseComponent
}

// BaseComponent carries the owner back-reference and the enabled flag.
type BaseComponent struct {
	entity  *Entity
	enabled bool
}

func (b *BaseComponent) base() *BaseComponent { return b }

// Entity returns the owning entity, or nil once detached.
func (b *BaseComponent) Entity() *Entity { return b.entity }

// Enabled reports whether the component takes part in per-frame updates.
func (b *BaseComponent) Enabled() bool { return b.enabled }

// Optional lifecycle capabilities. ComponentManager checks for each one.
type (
	Attacher interface{ OnAttach(e *Entity) }
	Detacher interface{ OnDetach() }
	Enabler  interface{ OnEnable() }
	Disabler interface{ OnDisable() }
	Updater  interface{ Update(dt time.Duration) }
)

// Cloner lets a component choose its own copy depth. Components without it
// are copied field by field, so slices and maps stay shared with the source.
type Cloner interface {
	Clone() Component
}

// Named overrides the Go type name as the component key.
type Named interface {
	ComponentName() string
}

// ComponentPtr constrains the generic helpers to *T component types.
type ComponentPtr[T any] interface {
	*T
	Component
}

// NameOf returns the registry key for component type T.
func NameOf[T any, PT ComponentPtr[T]]() string {
	if n, ok := any(PT(new(T))).(Named); ok {
		return n.ComponentName()
	}
	return reflect.TypeFor[T]().Name()
}

func nameOf(c Component) string {
	if n, ok := c.(Named); ok {
		return n.ComponentName()
	}
	t := reflect.TypeOf(c)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// cloneComponent returns a detached copy of c.
func cloneComponent(c Component) Component {
	var out Component
	if cl, ok := c.(Cloner); ok {
		out = cl.Clone()
	}
	if out == nil {
		v := reflect.ValueOf(c)
		cp := reflect.New(v.Elem().Type())
		cp.Elem().Set(v.Elem())
		out = cp.Interface().(Component)
	}
	*out.base() = BaseComponent{}
	return out
}

// Add attaches a new T to e. Overrides run on the fresh instance before it is
// attached. When e already holds a T, the existing instance is returned.
func Add[T any, PT ComponentPtr[T]](e *Entity, overrides ...func(PT)) PT {
	if existing, ok := Get[T, PT](e); ok {
		e.components.warnDuplicate(NameOf[T, PT]())
		return existing
	}
	c := PT(new(T))
	for _, o := range overrides {
		o(c)
	}
	got, _ := e.AddComponent(c).(PT)
	return got
}

// Get returns e's T, if attached.
func Get[T any, PT ComponentPtr[T]](e *Entity) (PT, bool) {
	c, ok := e.components.Get(NameOf[T, PT]()).(PT)
	return c, ok
}

// Has reports whether e holds a T.
func Has[T any, PT ComponentPtr[T]](e *Entity) bool {
	return e.components.Has(NameOf[T, PT]())
}

// Remove detaches e's T. Returns whether a component was removed.
func Remove[T any, PT ComponentPtr[T]](e *Entity) bool {
	return e.RemoveComponent(NameOf[T, PT]())
}
