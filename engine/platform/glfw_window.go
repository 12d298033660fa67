package platform

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/hubastard/hiopengl/engine/core"
	"github.com/hubastard/hiopengl/engine/logging"
)

// GLFWWindow implements core.Window and pushes events to the app via a handler.
type GLFWWindow struct {
	w    *glfw.Window
	onEv func(core.Event)
}

// Must be called from the process main thread, locked with
// runtime.LockOSThread, before any GL calls. On failure GLFW is
// already terminated.
func NewGLFWWindow(cfg core.Config, onEvent func(core.Event)) (*GLFWWindow, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	// Core profile; Mac requires the forward-compatible flag.
	glfw.WindowHint(glfw.ContextVersionMajor, cfg.GLMajor)
	glfw.WindowHint(glfw.ContextVersionMinor, cfg.GLMinor)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, err
	}
	win.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	gw := &GLFWWindow{w: win, onEv: onEvent}

	// Callbacks -> translate to core.Event
	win.SetCloseCallback(func(*glfw.Window) { gw.emit(core.EventCloseRequested{}) })
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		gw.emit(core.EventResize{W: w, H: h})
	})
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		k := translateKey(key)
		if k == core.KeyUnknown || action == glfw.Repeat {
			return
		}
		gw.emit(core.EventKey{Key: k, Down: action == glfw.Press})
	})

	logging.Logger().Debug("window created", "title", cfg.Title, "width", cfg.Width, "height", cfg.Height)
	return gw, nil
}

func (g *GLFWWindow) emit(ev core.Event) {
	if g.onEv != nil {
		g.onEv(ev)
	}
}

// core.Window impl
func (g *GLFWWindow) PollEvents()                          { glfw.PollEvents() }
func (g *GLFWWindow) SwapBuffers()                         { g.w.SwapBuffers() }
func (g *GLFWWindow) ShouldClose() bool                    { return g.w.ShouldClose() }
func (g *GLFWWindow) SetShouldClose(v bool)                { g.w.SetShouldClose(v) }
func (g *GLFWWindow) FramebufferSize() (int, int)          { return g.w.GetFramebufferSize() }
func (g *GLFWWindow) SetEventCallback(cb func(core.Event)) { g.onEv = cb }

// KeyPressed polls the current key state.
func (g *GLFWWindow) KeyPressed(k core.Key) bool {
	key, ok := glfwKey(k)
	return ok && g.w.GetKey(key) == glfw.Press
}

// Destroy releases the window and terminates GLFW.
func (g *GLFWWindow) Destroy() {
	if g.w == nil {
		return
	}
	g.w.Destroy()
	g.w = nil
	glfw.Terminate()
}

var keyMap = map[glfw.Key]core.Key{
	glfw.KeyEscape: core.KeyEscape,
	glfw.KeySpace:  core.KeySpace,
	glfw.KeyEnter:  core.KeyEnter,
	glfw.KeyQ:      core.KeyQ,
	glfw.KeyW:      core.KeyW,
	glfw.KeyA:      core.KeyA,
	glfw.KeyS:      core.KeyS,
	glfw.KeyD:      core.KeyD,
}

func translateKey(k glfw.Key) core.Key {
	if ck, ok := keyMap[k]; ok {
		return ck
	}
	return core.KeyUnknown
}

func glfwKey(k core.Key) (glfw.Key, bool) {
	for gk, ck := range keyMap {
		if ck == k {
			return gk, true
		}
	}
	return glfw.KeyUnknown, false
}
