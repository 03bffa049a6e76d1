package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/textrope/internal/engine"
)

// DefaultExecutionTimeout bounds a single script run.
const DefaultExecutionTimeout = 5 * time.Second

// State wraps gopher-lua with the rope module installed.
//
// gopher-lua's LState is not goroutine-safe. The mutex in State serializes
// calls from Go; Lua code itself always runs on the calling goroutine.
type State struct {
	L *lua.LState

	mu sync.Mutex

	engine *engine.Engine
	out    io.Writer

	// Configuration
	executionTimeout time.Duration

	closed bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the deadline of each run. Zero disables it.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		if d >= 0 {
			s.executionTimeout = d
		}
	}
}

// WithOutput redirects the Lua print function.
func WithOutput(w io.Writer) StateOption {
	return func(s *State) {
		if w != nil {
			s.out = w
		}
	}
}

// NewState creates a sandboxed Lua state whose rope module uses e.
func NewState(e *engine.Engine, opts ...StateOption) (*State, error) {
	if e == nil {
		return nil, fmt.Errorf("script: nil engine")
	}
	state := &State{
		engine:           e,
		out:              os.Stdout,
		executionTimeout: DefaultExecutionTimeout,
	}

	for _, opt := range opts {
		opt(state)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs: true, // We'll open selectively
	})
	state.L = L

	openSafeLibraries(L)
	state.installPrint()
	registerRopeModule(L, e)

	return state, nil
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	// Open base library (print, type, pairs, ipairs, etc.)
	lua.OpenBase(L)

	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// io, os, debug and package stay closed
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// installPrint replaces print with one that writes to the state output.
func (s *State) installPrint() {
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, n)
		for i := 1; i <= n; i++ {
			parts[i-1] = L.ToStringMeta(L.Get(i)).String()
		}
		fmt.Fprintln(s.out, strings.Join(parts, "\t"))
		return 0
	}))
}

// Run executes a Lua chunk.
// Execution is synchronous - the call blocks until completion, error,
// cancellation of ctx or the execution timeout.
func (s *State) Run(ctx context.Context, code string) error {
	return s.run(ctx, "<string>", func() error {
		return s.L.DoString(code)
	})
}

// RunFile executes a Lua file.
func (s *State) RunFile(ctx context.Context, path string) error {
	return s.run(ctx, path, func() error {
		return s.L.DoFile(path)
	})
}

func (s *State) run(ctx context.Context, source string, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	if s.executionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.executionTimeout)
		defer cancel()
	}
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	start := time.Now()
	err := s.doWithRecovery(fn)
	tracer().Debugf("script: ran %s in %v", source, time.Since(start))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s", ErrExecutionTimeout, source)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// doWithRecovery executes a function with panic recovery.
func (s *State) doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// Rope returns the rope held by a global variable.
func (s *State) Rope(name string) (*engine.Rope, bool) {
	return checkRopeValue(s.GetGlobal(name))
}

// SetRope stores r in a global variable.
func (s *State) SetRope(name string, r *engine.Rope) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.L.SetGlobal(name, pushableRope(s.L, r))
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases all resources associated with the Lua state.
// After Close is called, all other methods will return ErrStateClosed.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}
