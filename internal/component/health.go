package component

import "github.com/scenekit/scenekit/internal/core/ecs"

// Health tracks hit points. Current stays within [0, Max].
type Health struct {
	ecs.BaseComponent
	Current int `json:"current" yaml:"current"`
	Max     int `json:"max" yaml:"max"`
}

// Damage lowers Current by n and reports whether it reached zero.
func (h *Health) Damage(n int) bool {
	if n < 0 {
		n = 0
	}
	h.Current -= n
	if h.Current < 0 {
		h.Current = 0
	}
	return h.Current == 0
}

// Heal raises Current by n, capped at Max. Returns the amount applied.
func (h *Health) Heal(n int) int {
	if n <= 0 || h.Current >= h.Max {
		return 0
	}
	before := h.Current
	h.Current += n
	if h.Current > h.Max {
		h.Current = h.Max
	}
	return h.Current - before
}

func (h *Health) Dead() bool { return h.Current <= 0 }
