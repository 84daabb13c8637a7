package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/scenekit/scenekit/internal/core/ecs"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// ErrNoFunction is returned by Call when the global is not a Lua function.
var ErrNoFunction = errors.New("lua function not defined")

// Engine wraps a single gopher-lua VM bound to one entity Manager.
// Single-goroutine access only (frame loop).
type Engine struct {
	vm  *lua.LState
	m   *ecs.Manager
	log *zap.Logger
}

// NewEngine creates a VM with the ecs module installed and loads every .lua
// file under scriptsDir. A missing directory loads nothing.
func NewEngine(scriptsDir string, m *ecs.Manager, log *zap.Logger) (*Engine, error) {
	e := New(m, log)
	if scriptsDir == "" {
		return e, nil
	}
	if err := e.loadDir(scriptsDir); err != nil {
		e.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

// New creates a VM with the ecs module installed and no scripts loaded.
func New(m *ecs.Manager, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	e := &Engine{vm: vm, m: m, log: log}
	e.installModule()
	return e
}

// loadDir loads .lua files in dir and its subdirectories, in lexical order.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if err := e.loadDir(path); err != nil {
				return err
			}
			continue
		}
		if filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// LoadString runs a chunk of Lua source in the engine's VM.
func (e *Engine) LoadString(src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("load lua chunk: %w", err)
	}
	return nil
}

// HasFunc reports whether a global Lua function called name exists.
func (e *Engine) HasFunc(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// Call runs the global function name with args and returns its first result
// (LNil when it returns nothing).
func (e *Engine) Call(name string, args ...lua.LValue) (lua.LValue, error) {
	fn, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return lua.LNil, fmt.Errorf("%w: %s", ErrNoFunction, name)
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		return lua.LNil, fmt.Errorf("lua %s: %w", name, err)
	}
	ret := e.vm.Get(-1)
	e.vm.Pop(1)
	return ret, nil
}

// CallEntity runs fn(entity_id, dt_seconds).
func (e *Engine) CallEntity(name string, id ecs.ID, dt time.Duration) error {
	_, err := e.Call(name, lua.LNumber(id), lua.LNumber(dt.Seconds()))
	return err
}

// RegisterTypes adds the script components to types so snapshots holding them
// can be restored against this engine.
func (e *Engine) RegisterTypes(types *ecs.ComponentTypes) {
	types.Register(ScriptBehaviourName, func() ecs.Component { return &ScriptBehaviour{engine: e} })
}

func (e *Engine) Close() {
	e.vm.Close()
}
