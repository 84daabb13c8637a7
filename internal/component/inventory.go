package component

import (
	"slices"

	"github.com/scenekit/scenekit/internal/core/ecs"
)

// Inventory holds item keys. Clones get their own slice.
type Inventory struct {
	ecs.BaseComponent
	Items []string `json:"items" yaml:"items"`
}

func (i *Inventory) Clone() ecs.Component {
	return &Inventory{Items: slices.Clone(i.Items)}
}

func (i *Inventory) Add(item string) { i.Items = append(i.Items, item) }

// Take removes the first occurrence of item.
func (i *Inventory) Take(item string) bool {
	idx := slices.Index(i.Items, item)
	if idx < 0 {
		return false
	}
	i.Items = slices.Delete(i.Items, idx, idx+1)
	return true
}
