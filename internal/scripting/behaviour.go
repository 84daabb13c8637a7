package scripting

import (
	"time"

	"github.com/scenekit/scenekit/internal/core/ecs"
	"go.uber.org/zap"
)

const ScriptBehaviourName = "ScriptBehaviour"

// ScriptBehaviour calls a global Lua function each frame with
// (entity_id, dt_seconds). Script errors are logged and the behaviour keeps
// running.
type ScriptBehaviour struct {
	ecs.BaseComponent
	Function string `json:"function" yaml:"function"`

	engine *Engine
	Errors int `json:"-" yaml:"-"`
}

// NewBehaviour returns a behaviour bound to e that calls fn.
func (e *Engine) NewBehaviour(fn string) *ScriptBehaviour {
	return &ScriptBehaviour{Function: fn, engine: e}
}

func (*ScriptBehaviour) ComponentName() string { return ScriptBehaviourName }

func (s *ScriptBehaviour) Update(dt time.Duration) {
	ent := s.Entity()
	if s.engine == nil || ent == nil || s.Function == "" {
		return
	}
	if err := s.engine.CallEntity(s.Function, ent.ID(), dt); err != nil {
		s.Errors++
		s.engine.log.Warn("script behaviour failed",
			zap.String("function", s.Function),
			zap.Uint64("entity", uint64(ent.ID())),
			zap.Error(err),
		)
	}
}

// Clone keeps the engine binding.
func (s *ScriptBehaviour) Clone() ecs.Component {
	return &ScriptBehaviour{Function: s.Function, engine: s.engine}
}
