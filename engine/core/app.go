package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/hubastard/hiopengl/engine/gfx"
	"github.com/hubastard/hiopengl/engine/profiler"
)

// App defines the application hooks.
type App interface {
	OnStart(e *Engine) error     // called once after window/device init
	OnRender(e *Engine)          // called every frame after the clear
	OnEvent(e *Engine, ev Event) // window events, before the loop reacts to them
	OnShutdown(e *Engine)        // release GPU objects; the context is still current
}

// State of the frame loop.
type State int

const (
	StateRunning State = iota
	StateClosing
)

func (s State) String() string {
	if s == StateClosing {
		return "closing"
	}
	return "running"
}

// Engine exposes core services to the App.
type Engine struct {
	Window   Window
	Device   gfx.Device
	Config   Config
	Profiler *profiler.Profiler

	state  State
	frames int
	start  time.Time
}

func (e *Engine) Uptime() time.Duration { return time.Since(e.start) }
func (e *Engine) State() State          { return e.state }

// Frames is the number of completed frames.
func (e *Engine) Frames() int { return e.frames }

// RequestClose asks the loop to stop after the current frame.
func (e *Engine) RequestClose() { e.Window.SetShouldClose(true) }

// Window abstraction over the platform window and its context.
type Window interface {
	PollEvents()
	SwapBuffers()
	ShouldClose() bool
	SetShouldClose(bool)
	KeyPressed(k Key) bool
	FramebufferSize() (int, int)
	SetEventCallback(cb func(Event))
	// Destroy tears down the window and the context. It must be the last call.
	Destroy()
}

// Event model.
type Event interface{ isEvent() }

type EventCloseRequested struct{}

func (EventCloseRequested) isEvent() {}

type EventResize struct{ W, H int }

func (EventResize) isEvent() {}

type EventKey struct {
	Key  Key
	Down bool
}

func (EventKey) isEvent() {}

// Key enum (subset; add as needed).
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeySpace
	KeyEnter
	KeyQ
	KeyW
	KeyA
	KeyS
	KeyD
)

var keyNames = map[Key]string{
	KeyEscape: "escape",
	KeySpace:  "space",
	KeyEnter:  "enter",
	KeyQ:      "q",
	KeyW:      "w",
	KeyA:      "a",
	KeyS:      "s",
	KeyD:      "d",
}

func (k Key) String() string {
	if n, ok := keyNames[k]; ok {
		return n
	}
	return "unknown"
}

// ParseKey maps a case-insensitive key name to a Key.
func ParseKey(name string) (Key, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "esc" {
		name = "escape"
	}
	for k, n := range keyNames {
		if n == name {
			return k, nil
		}
	}
	return KeyUnknown, fmt.Errorf("unknown key %q", name)
}
