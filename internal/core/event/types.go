package event

// Registry lifecycle signals. Entity ids are carried as plain uint64 so this
// package stays below ecs in the import graph.

type EntityCreated struct {
	EntityID  uint64
	Archetype string
}

type EntityDestroyed struct {
	EntityID  uint64
	Archetype string
}

type ComponentAttached struct {
	EntityID  uint64
	Component string
}

type ComponentDetached struct {
	EntityID  uint64
	Component string
}

type TagAdded struct {
	EntityID uint64
	Tag      string
}

type TagRemoved struct {
	EntityID uint64
	Tag      string
}
