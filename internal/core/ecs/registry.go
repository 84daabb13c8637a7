package ecs

import (
	"fmt"
	"sort"
)

// ComponentTypes maps component names to factories. Fill it once at startup;
// Restore and archetype defaults build components through it.
type ComponentTypes struct {
	factories map[string]func() Component
}

func NewComponentTypes() *ComponentTypes {
	return &ComponentTypes{
		factories: make(map[string]func() Component, 16),
	}
}

// RegisterType adds T under its component name and returns that name.
func RegisterType[T any, PT ComponentPtr[T]](r *ComponentTypes) string {
	name := NameOf[T, PT]()
	r.factories[name] = func() Component { return PT(new(T)) }
	return name
}

// Register adds a factory under name, for components that need dependencies
// injected at construction.
func (r *ComponentTypes) Register(name string, fn func() Component) {
	r.factories[name] = fn
}

// New returns a zero-valued component registered under name. A nil registry
// knows no names.
func (r *ComponentTypes) New(name string) (Component, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownComponent, name)
	}
	fn, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownComponent, name)
	}
	return fn(), nil
}

func (r *ComponentTypes) Has(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.factories[name]
	return ok
}

// Names returns the registered names, sorted.
func (r *ComponentTypes) Names() []string {
	out := make([]string, 0, len(r.factories))
	for n := range r.factories {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
