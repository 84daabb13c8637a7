package ecs

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/scenekit/scenekit/internal/scene"
)

// Snapshot is a serializable copy of the registry. Component data is the JSON
// encoding of each component's exported fields.
type Snapshot struct {
	TakenAt  time.Time      `json:"taken_at"`
	Entities []EntityRecord `json:"entities"`
}

type EntityRecord struct {
	ID         ID                `json:"id"`
	Archetype  string            `json:"archetype,omitempty"`
	Active     bool              `json:"active"`
	Tags       []string          `json:"tags,omitempty"`
	Components []ComponentRecord `json:"components,omitempty"`
}

type ComponentRecord struct {
	Name    string          `json:"name"`
	Enabled bool            `json:"enabled"`
	Data    json.RawMessage `json:"data"`
}

// Snapshot captures every live entity ordered by id.
func (m *Manager) Snapshot() (Snapshot, error) {
	snap := Snapshot{
		TakenAt:  time.Now().UTC(),
		Entities: make([]EntityRecord, 0, len(m.entities)),
	}
	for _, e := range m.Entities() {
		rec := EntityRecord{
			ID:        e.id,
			Archetype: e.archetype,
			Active:    e.active,
			Tags:      e.tags.All(),
		}
		for _, c := range e.components.All() {
			data, err := json.Marshal(c)
			if err != nil {
				return Snapshot{}, fmt.Errorf("encode %s component %s: %w", e, nameOf(c), err)
			}
			rec.Components = append(rec.Components, ComponentRecord{
				Name:    nameOf(c),
				Enabled: c.base().enabled,
				Data:    data,
			})
		}
		snap.Entities = append(snap.Entities, rec)
	}
	return snap, nil
}

// Restore recreates the snapshot's entities under parent. Ids are newly
// assigned; the returned map is keyed by the snapshot id. Component names are
// checked against types before anything is created. A later error leaves the
// entities restored so far registered.
func (m *Manager) Restore(ctx context.Context, snap Snapshot, types *ComponentTypes, parent scene.Node) (map[ID]*Entity, error) {
	for _, rec := range snap.Entities {
		for _, cr := range rec.Components {
			if !types.Has(cr.Name) {
				return nil, fmt.Errorf("restore entity#%d: %w: %s", rec.ID, ErrUnknownComponent, cr.Name)
			}
		}
	}
	out := make(map[ID]*Entity, len(snap.Entities))
	for _, rec := range snap.Entities {
		e, err := m.CreateEntity(ctx, rec.Archetype, parent)
		if err != nil {
			return out, fmt.Errorf("restore entity#%d: %w", rec.ID, err)
		}
		out[rec.ID] = e
		for _, cr := range rec.Components {
			c, err := types.New(cr.Name)
			if err != nil {
				return out, fmt.Errorf("restore entity#%d: %w", rec.ID, err)
			}
			if len(cr.Data) > 0 {
				if err := json.Unmarshal(cr.Data, c); err != nil {
					return out, fmt.Errorf("decode entity#%d component %s: %w", rec.ID, cr.Name, err)
				}
			}
			e.AddComponent(c)
			if !cr.Enabled {
				e.components.SetEnabled(cr.Name, false)
			}
		}
		e.tags.AddAll(rec.Tags...)
		if !rec.Active {
			e.Disable()
		}
	}
	return out, nil
}

// Marshal encodes the snapshot as JSON.
func (s Snapshot) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalSnapshot decodes a snapshot produced by Marshal.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}
