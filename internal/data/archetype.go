package data

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/scenekit/scenekit/internal/core/ecs"
	"github.com/scenekit/scenekit/internal/scene"
	"gopkg.in/yaml.v3"
)

// ArchetypeEntry defines one archetype: the prefab its node comes from, the
// tags it starts with and optional default component data.
type ArchetypeEntry struct {
	Name       string               `yaml:"name"`
	Prefab     string               `yaml:"prefab"`
	Tags       []string             `yaml:"tags"`
	Note       string               `yaml:"note"`
	Components map[string]yaml.Node `yaml:"components"`
}

// ArchetypeTable provides lookup of archetypes by name.
type ArchetypeTable struct {
	entries map[string]*ArchetypeEntry
	types   *ecs.ComponentTypes
}

// LoadArchetypeTable loads an archetype list. Component names in the file must
// be registered in types; types may be nil when no entry declares components.
func LoadArchetypeTable(path string, types *ecs.ComponentTypes) (*ArchetypeTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read archetype list: %w", err)
	}
	return ParseArchetypeTable(raw, types)
}

// ParseArchetypeTable decodes archetype YAML already in memory.
func ParseArchetypeTable(raw []byte, types *ecs.ComponentTypes) (*ArchetypeTable, error) {
	var entries []ArchetypeEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse archetype list: %w", err)
	}
	t := &ArchetypeTable{
		entries: make(map[string]*ArchetypeEntry, len(entries)),
		types:   types,
	}
	for i := range entries {
		e := &entries[i]
		if e.Name == "" {
			return nil, fmt.Errorf("archetype #%d: missing name", i)
		}
		if _, dup := t.entries[e.Name]; dup {
			return nil, fmt.Errorf("archetype %s: defined twice", e.Name)
		}
		for comp := range e.Components {
			if types == nil || !types.Has(comp) {
				return nil, fmt.Errorf("archetype %s: component %s: %w", e.Name, comp, ecs.ErrUnknownComponent)
			}
		}
		t.entries[e.Name] = e
	}
	return t, nil
}

// Get returns the archetype with the given name, or nil if none.
func (t *ArchetypeTable) Get(name string) *ArchetypeEntry {
	return t.entries[name]
}

// Count returns the total number of archetypes loaded.
func (t *ArchetypeTable) Count() int {
	return len(t.entries)
}

// Names returns archetype names, sorted.
func (t *ArchetypeTable) Names() []string {
	out := make([]string, 0, len(t.entries))
	for n := range t.entries {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Prefabs returns the distinct prefab paths referenced by the table, sorted.
func (t *ArchetypeTable) Prefabs() []string {
	seen := make(map[string]struct{}, len(t.entries))
	out := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		if e.Prefab == "" {
			continue
		}
		if _, ok := seen[e.Prefab]; ok {
			continue
		}
		seen[e.Prefab] = struct{}{}
		out = append(out, e.Prefab)
	}
	sort.Strings(out)
	return out
}

// Apply registers every archetype that names a prefab on m.
func (t *ArchetypeTable) Apply(m *ecs.Manager) int {
	n := 0
	for _, name := range t.Names() {
		e := t.entries[name]
		if e.Prefab == "" {
			continue
		}
		m.RegisterArchetype(e.Name, e.Prefab)
		n++
	}
	return n
}

// DefaultTags returns a copy of the archetype's initial tags.
func (t *ArchetypeTable) DefaultTags(name string) []string {
	e := t.entries[name]
	if e == nil {
		return nil
	}
	return append([]string(nil), e.Tags...)
}

// Spawn creates an entity from the archetype and applies its default tags and
// components. An unknown name still creates a bare entity, like CreateEntity.
func (t *ArchetypeTable) Spawn(ctx context.Context, m *ecs.Manager, name string, parent scene.Node) (*ecs.Entity, error) {
	ent, err := m.CreateEntity(ctx, name, parent)
	if err != nil {
		return nil, err
	}
	e := t.entries[name]
	if e == nil {
		return ent, nil
	}
	ent.Tag(e.Tags...)
	for _, comp := range sortedKeys(e.Components) {
		c, err := t.types.New(comp)
		if err != nil {
			ent.Destroy()
			return nil, fmt.Errorf("archetype %s: %w", name, err)
		}
		node := e.Components[comp]
		if err := node.Decode(c); err != nil {
			ent.Destroy()
			return nil, fmt.Errorf("archetype %s: decode %s: %w", name, comp, err)
		}
		ent.AddComponent(c)
	}
	return ent, nil
}

func sortedKeys(m map[string]yaml.Node) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
