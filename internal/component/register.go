package component

import "github.com/scenekit/scenekit/internal/core/ecs"

// Register adds every component in this package to types.
func Register(types *ecs.ComponentTypes) {
	ecs.RegisterType[Health](types)
	ecs.RegisterType[Transform](types)
	ecs.RegisterType[Velocity](types)
	ecs.RegisterType[Lifetime](types)
	ecs.RegisterType[Inventory](types)
}
