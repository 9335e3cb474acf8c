package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// APIVersion is exposed to scripts as API_VERSION.
const APIVersion = 1

// ErrNoFunction means a behaviour names a Lua global that is not a function.
var ErrNoFunction = errors.New("lua function not found")

// Engine wraps a single gopher-lua VM running entity behaviours.
// Single-goroutine access only (frame loop).
type Engine struct {
	vm    *lua.LState
	log   *zap.Logger
	files int
}

// NewEngine creates a Lua engine and loads the scripts in dir and in its
// behaviour/ subdirectory. Missing directories are skipped.
func NewEngine(dir string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)
	for _, d := range []string{dir, filepath.Join(dir, "behaviour")} {
		if err := e.loadDir(d); err != nil {
			e.vm.Close()
			return nil, fmt.Errorf("load scripts: %w", err)
		}
	}
	log.Info("lua scripts loaded", zap.String("dir", dir), zap.Int("files", e.files))
	return e, nil
}

func newEngine(log *zap.Logger) *Engine {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(APIVersion))
	return &Engine{vm: vm, log: log}
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.files++
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// LoadString runs a chunk of Lua source in the engine.
func (e *Engine) LoadString(src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("load lua chunk: %w", err)
	}
	return nil
}

// HasFunction reports whether name is a global Lua function.
func (e *Engine) HasFunction(name string) bool {
	return e.vm.GetGlobal(name).Type() == lua.LTFunction
}

// Close releases the VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// BehaviourContext is the per-call input of a behaviour.
type BehaviourContext struct {
	Entity   uint32
	DT       float64 // seconds
	Elapsed  float64 // seconds since the behaviour first ran
	Position mgl32.Vec3
	Scale    mgl32.Vec3
}

// BehaviourResult is what a behaviour asks to change. Position and Scale
// default to the context values; Euler is nil unless the script set any of
// yaw, pitch or roll.
type BehaviourResult struct {
	Position mgl32.Vec3
	Scale    mgl32.Vec3
	Euler    *mgl32.Vec3 // pitch (X), yaw (Y), roll (Z) in radians
	Destroy  bool
}

// CallBehaviour calls the Lua function fn with a context table. The function
// may return nil for no change, or a table with any of x, y, z, pitch, yaw,
// roll, scale and destroy.
func (e *Engine) CallBehaviour(fn string, ctx BehaviourContext) (BehaviourResult, error) {
	res := BehaviourResult{Position: ctx.Position, Scale: ctx.Scale}

	f := e.vm.GetGlobal(fn)
	if f.Type() != lua.LTFunction {
		return res, fmt.Errorf("behaviour %s: %w", fn, ErrNoFunction)
	}

	t := e.vm.NewTable()
	t.RawSetString("entity", lua.LNumber(ctx.Entity))
	t.RawSetString("dt", lua.LNumber(ctx.DT))
	t.RawSetString("elapsed", lua.LNumber(ctx.Elapsed))
	t.RawSetString("x", lua.LNumber(ctx.Position[0]))
	t.RawSetString("y", lua.LNumber(ctx.Position[1]))
	t.RawSetString("z", lua.LNumber(ctx.Position[2]))
	t.RawSetString("scale", lua.LNumber(ctx.Scale[0]))

	if err := e.vm.CallByParam(lua.P{
		Fn:      f,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		return res, fmt.Errorf("behaviour %s: %w", fn, err)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	if result == lua.LNil {
		return res, nil
	}
	rt, ok := result.(*lua.LTable)
	if !ok {
		return res, fmt.Errorf("behaviour %s returned %s, want table or nil", fn, result.Type())
	}

	for i, key := range [3]string{"x", "y", "z"} {
		if v, ok := number(rt, key); ok {
			res.Position[i] = v
		}
	}
	var euler mgl32.Vec3
	rotated := false
	for i, key := range [3]string{"pitch", "yaw", "roll"} {
		if v, ok := number(rt, key); ok {
			euler[i] = v
			rotated = true
		}
	}
	if rotated {
		res.Euler = &euler
	}
	if v, ok := number(rt, "scale"); ok {
		res.Scale = mgl32.Vec3{v, v, v}
	}
	res.Destroy = lua.LVAsBool(rt.RawGetString("destroy"))
	return res, nil
}

func number(t *lua.LTable, key string) (float32, bool) {
	n, ok := t.RawGetString(key).(lua.LNumber)
	return float32(n), ok
}
