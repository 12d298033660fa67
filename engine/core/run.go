package core

import (
	"fmt"
	"runtime"
	"time"

	"github.com/hubastard/hiopengl/engine/gfx"
	"github.com/hubastard/hiopengl/engine/logging"
	"github.com/hubastard/hiopengl/engine/profiler"
)

// Run wires the platform window + device and executes the main loop.
func Run(app App, cfg Config, newWindow func(Config) (Window, error), newDevice func(Window, Config) (gfx.Device, error)) error {
	// The GL context is bound to the calling OS thread. Callers pin that
	// thread to the process main thread from init.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	log := logging.Logger()

	win, err := newWindow(cfg)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	// Registered first so it runs last: the window owns the context.
	defer win.Destroy()

	dev, err := newDevice(win, cfg)
	if err != nil {
		return fmt.Errorf("init device: %w", err)
	}

	eng := &Engine{
		Window:   win,
		Device:   dev,
		Config:   cfg,
		Profiler: profiler.New(),
		start:    time.Now(),
	}

	w, h := win.FramebufferSize()
	resize(dev, w, h)
	if cfg.Wireframe {
		dev.Wireframe(true)
	}

	win.SetEventCallback(func(ev Event) {
		app.OnEvent(eng, ev)
		if r, ok := ev.(EventResize); ok {
			resize(dev, r.W, r.H)
		}
	})

	if err := app.OnStart(eng); err != nil {
		eng.state = StateClosing
		app.OnShutdown(eng)
		return fmt.Errorf("start: %w", err)
	}
	log.Info("engine running", "exit_key", cfg.ExitKey, "width", w, "height", h)

	for !win.ShouldClose() {
		frameEnd := eng.Profiler.Start("frame")

		if win.KeyPressed(cfg.ExitKey) {
			win.SetShouldClose(true)
		}

		dev.ClearColor(cfg.ClearColor)
		dev.Clear()
		app.OnRender(eng)

		win.SwapBuffers()
		win.PollEvents()

		frameEnd()
		eng.frames++
		if cfg.MaxFrames > 0 && eng.frames >= cfg.MaxFrames {
			win.SetShouldClose(true)
		}
	}

	eng.state = StateClosing
	app.OnShutdown(eng)

	for _, s := range eng.Profiler.Scopes() {
		log.Debug("profile", "scope", s.Name, "count", s.Count, "mean", s.Mean(), "max", s.Max)
	}
	log.Info("engine exit", "frames", eng.frames, "uptime", eng.Uptime().Round(time.Millisecond),
		"heap_bytes", profiler.MemoryUsage())
	return nil
}

// resize maps the viewport to the full framebuffer. Minimised windows
// report 0x0 and keep the previous viewport.
func resize(dev gfx.Device, w, h int) {
	if w < 1 || h < 1 {
		return
	}
	dev.Viewport(0, 0, int32(w), int32(h))
}
