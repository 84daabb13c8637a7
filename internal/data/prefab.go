package data

import (
	"context"
	"fmt"
	"os"

	"github.com/scenekit/scenekit/internal/pool"
	"github.com/scenekit/scenekit/internal/scene"
	"gopkg.in/yaml.v3"
)

// PrefabNode is one node of a prefab template.
type PrefabNode struct {
	Name     string       `yaml:"name"`
	Active   *bool        `yaml:"active"` // nil = active
	Children []PrefabNode `yaml:"children"`
}

// PrefabEntry is a node template addressed by resource path.
type PrefabEntry struct {
	Path       string `yaml:"path"`
	PrefabNode `yaml:",inline"`
}

// PrefabTable provides lookup of node templates by path.
type PrefabTable struct {
	prefabs map[string]*PrefabEntry
}

// LoadPrefabTable loads a prefab list.
func LoadPrefabTable(path string) (*PrefabTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prefab list: %w", err)
	}
	var entries []PrefabEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse prefab list: %w", err)
	}
	t := &PrefabTable{
		prefabs: make(map[string]*PrefabEntry, len(entries)),
	}
	for i := range entries {
		e := &entries[i]
		if e.Path == "" {
			return nil, fmt.Errorf("prefab #%d: missing path", i)
		}
		if e.Name == "" {
			e.Name = e.Path
		}
		t.prefabs[e.Path] = e
	}
	return t, nil
}

// Get returns the prefab at path, or nil if none.
func (t *PrefabTable) Get(path string) *PrefabEntry {
	return t.prefabs[path]
}

// Count returns the total number of prefabs loaded.
func (t *PrefabTable) Count() int {
	return len(t.prefabs)
}

// Factory builds node trees from the table for a NodePool.
func (t *PrefabTable) Factory() pool.Factory {
	return func(_ context.Context, path string) (scene.Node, error) {
		e := t.prefabs[path]
		if e == nil {
			return nil, fmt.Errorf("%s: %w", path, pool.ErrUnknownPrefab)
		}
		return build(e.PrefabNode), nil
	}
}

func build(p PrefabNode) scene.Node {
	n := scene.NewNode(p.Name)
	if p.Active != nil {
		n.SetActive(*p.Active)
	}
	for _, c := range p.Children {
		n.AddChild(build(c))
	}
	return n
}
