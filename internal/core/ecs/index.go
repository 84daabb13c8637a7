package ecs

// index is a reverse lookup from a component name or tag to the live entities
// carrying it. It is a cache over per-entity state, never the source of truth.
// Empty sets are dropped so len(index) counts keys in use.
type index map[string]map[ID]*Entity

func (ix index) add(key string, e *Entity) {
	set := ix[key]
	if set == nil {
		set = make(map[ID]*Entity, 8)
		ix[key] = set
	}
	set[e.id] = e
}

func (ix index) remove(key string, e *Entity) {
	set, ok := ix[key]
	if !ok {
		return
	}
	delete(set, e.id)
	if len(set) == 0 {
		delete(ix, key)
	}
}

func (ix index) contains(key string, id ID) bool {
	_, ok := ix[key][id]
	return ok
}

func (ix index) size(key string) int {
	return len(ix[key])
}

// smallest returns the key with the fewest members and its set. ok is false
// when keys is empty.
func (ix index) smallest(keys []string) (set map[ID]*Entity, ok bool) {
	for i, k := range keys {
		s := ix[k]
		if i == 0 || len(s) < len(set) {
			set = s
		}
		ok = true
	}
	return set, ok
}
