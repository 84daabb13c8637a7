package system

import (
	"time"

	coresys "github.com/scenekit/scenekit/internal/core/system"
	"github.com/scenekit/scenekit/internal/scripting"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// FrameHook is the global Lua function ScriptSystem calls once per frame.
const FrameHook = "on_frame"

// ScriptSystem calls on_frame(dt_seconds, frame) when the loaded scripts
// define it. Phase 1 (Update), after entity updates.
type ScriptSystem struct {
	lua   *scripting.Engine
	log   *zap.Logger
	frame uint64
}

func NewScriptSystem(sc coresys.Context, engine *scripting.Engine) *ScriptSystem {
	return &ScriptSystem{lua: engine, log: sc.Log}
}

func (s *ScriptSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *ScriptSystem) Update(dt time.Duration) {
	s.frame++
	if s.lua == nil || !s.lua.HasFunc(FrameHook) {
		return
	}
	if _, err := s.lua.Call(FrameHook, lua.LNumber(dt.Seconds()), lua.LNumber(s.frame)); err != nil {
		s.log.Error("lua on_frame error", zap.Uint64("frame", s.frame), zap.Error(err))
	}
}
