package component

import "github.com/scenekit/scenekit/internal/core/ecs"

// Transform is a 2D position. Pure data; MovementSystem writes it.
type Transform struct {
	ecs.BaseComponent
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Velocity is units per second.
type Velocity struct {
	ecs.BaseComponent
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}
