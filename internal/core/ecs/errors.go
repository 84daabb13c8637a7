package ecs

import "errors"

var (
	ErrEntityDestroyed  = errors.New("entity destroyed")
	ErrUnknownComponent = errors.New("unknown component type")
)
