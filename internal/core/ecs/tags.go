package ecs

import "sort"

// TagManager is a per-entity set of string labels. It never touches the
// registry indexes itself; the owning Entity installs hooks for that.
type TagManager struct {
	tags     map[string]struct{}
	onAdd    func(tag string)
	onRemove func(tag string)
}

func NewTagManager() *TagManager {
	return &TagManager{tags: make(map[string]struct{}, 4)}
}

// Add returns true if tag was not present.
func (t *TagManager) Add(tag string) bool {
	if _, ok := t.tags[tag]; ok {
		return false
	}
	t.tags[tag] = struct{}{}
	if t.onAdd != nil {
		t.onAdd(tag)
	}
	return true
}

// Remove returns true if tag was present.
func (t *TagManager) Remove(tag string) bool {
	if _, ok := t.tags[tag]; !ok {
		return false
	}
	delete(t.tags, tag)
	if t.onRemove != nil {
		t.onRemove(tag)
	}
	return true
}

// AddAll adds every tag and returns how many were new.
func (t *TagManager) AddAll(tags ...string) int {
	n := 0
	for _, tag := range tags {
		if t.Add(tag) {
			n++
		}
	}
	return n
}

// RemoveAll removes every tag and returns how many were present.
func (t *TagManager) RemoveAll(tags ...string) int {
	n := 0
	for _, tag := range tags {
		if t.Remove(tag) {
			n++
		}
	}
	return n
}

func (t *TagManager) Has(tag string) bool {
	_, ok := t.tags[tag]
	return ok
}

// HasAll is true for an empty argument list.
func (t *TagManager) HasAll(tags ...string) bool {
	for _, tag := range tags {
		if !t.Has(tag) {
			return false
		}
	}
	return true
}

// HasAny is false for an empty argument list.
func (t *TagManager) HasAny(tags ...string) bool {
	for _, tag := range tags {
		if t.Has(tag) {
			return true
		}
	}
	return false
}

// Toggle flips tag and returns whether it is now present.
func (t *TagManager) Toggle(tag string) bool {
	if t.Remove(tag) {
		return false
	}
	t.Add(tag)
	return true
}

func (t *TagManager) Clear() {
	for _, tag := range t.All() {
		t.Remove(tag)
	}
}

// All returns a sorted snapshot of the tags.
func (t *TagManager) All() []string {
	out := make([]string, 0, len(t.tags))
	for tag := range t.tags {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

func (t *TagManager) Count() int {
	return len(t.tags)
}
