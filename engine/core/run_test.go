package core

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/hiopengl/engine/colors"
	"github.com/hubastard/hiopengl/engine/gfx"
	"github.com/hubastard/hiopengl/engine/gfx/gfxtest"
)

// fakeWindow drives the loop from scripted per-frame hooks.
type fakeWindow struct {
	dev       *gfxtest.Device
	w, h      int
	close     bool
	destroyed int
	swaps     int
	polls     int
	pressed   map[int]Key // frame index -> key held during that frame
	onPoll    map[int]func(emit func(Event))
	cb        func(Event)
}

func newFakeWindow(dev *gfxtest.Device, w, h int) *fakeWindow {
	return &fakeWindow{dev: dev, w: w, h: h, pressed: map[int]Key{}, onPoll: map[int]func(func(Event)){}}
}

func (f *fakeWindow) PollEvents() {
	if fn, ok := f.onPoll[f.polls]; ok && f.cb != nil {
		fn(f.cb)
	}
	f.polls++
}
func (f *fakeWindow) SwapBuffers()                { f.swaps++ }
func (f *fakeWindow) ShouldClose() bool           { return f.close }
func (f *fakeWindow) SetShouldClose(v bool)       { f.close = v }
func (f *fakeWindow) FramebufferSize() (int, int) { return f.w, f.h }
func (f *fakeWindow) SetEventCallback(cb func(Event)) {
	f.cb = cb
}
func (f *fakeWindow) KeyPressed(k Key) bool { return f.pressed[f.swaps] == k }
func (f *fakeWindow) Destroy() {
	f.destroyed++
	f.dev.Lose()
}

// triangleApp draws one triangle and checks the framebuffer after the clear.
type triangleApp struct {
	pass       gfx.Pass
	startErr   error
	rendered   int
	shutdowns  int
	events     []Event
	afterClear [][]byte
	states     []State // loop state seen by each OnRender, then by OnShutdown
}

func (a *triangleApp) OnStart(e *Engine) error {
	if a.startErr != nil {
		return a.startErr
	}
	vs, err := gfx.Compile(e.Device, gfx.Source{Stage: gfx.StageVertex, Text: "void main() { gl_Position = vec4(0); }"})
	if err != nil {
		return err
	}
	defer vs.Release()
	fs, err := gfx.Compile(e.Device, gfx.Source{Stage: gfx.StageFragment, Text: "void main() {}"})
	if err != nil {
		return err
	}
	defer fs.Release()
	prog, err := gfx.Link(e.Device, vs, fs)
	if err != nil {
		return err
	}
	geo, err := gfx.UploadPositions(e.Device, []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	if err != nil {
		prog.Release()
		return err
	}
	a.pass = gfx.Pass{Program: prog, Geometry: geo}
	return nil
}

func (a *triangleApp) OnRender(e *Engine) {
	w, h := e.Window.FramebufferSize()
	a.afterClear = append(a.afterClear, e.Device.ReadPixels(0, 0, int32(w), int32(h)))
	a.pass.Draw()
	a.rendered++
	a.states = append(a.states, e.State())
}

func (a *triangleApp) OnEvent(_ *Engine, ev Event) { a.events = append(a.events, ev) }

func (a *triangleApp) OnShutdown(e *Engine) {
	a.shutdowns++
	a.states = append(a.states, e.State())
	a.pass.Release()
}

func runFake(t *testing.T, app App, cfg Config, win *fakeWindow, dev *gfxtest.Device) error {
	t.Helper()
	return Run(app, cfg,
		func(Config) (Window, error) { return win, nil },
		func(Window, Config) (gfx.Device, error) { return dev, nil },
	)
}

func TestExitKeyStopsWithinOneFrame(t *testing.T) {
	dev := gfxtest.NewDevice(4, 3)
	win := newFakeWindow(dev, 4, 3)
	win.pressed[2] = KeySpace
	app := &triangleApp{}

	require.NoError(t, runFake(t, app, DefaultConfig(), win, dev))

	assert.Equal(t, 3, app.rendered, "the frame that saw the key still completes")
	assert.Equal(t, []State{StateRunning, StateRunning, StateRunning, StateClosing}, app.states)
	assert.Equal(t, 3, win.swaps)
	assert.Equal(t, 1, app.shutdowns)
	assert.Equal(t, 1, win.destroyed)
	assert.Empty(t, dev.Live(gfxtest.KindProgram))
	assert.Empty(t, dev.Live(gfxtest.KindBuffer))
	assert.Empty(t, dev.Live(gfxtest.KindArray))
	assert.Empty(t, dev.Live(gfxtest.KindShader))
	assert.Empty(t, dev.Violations)
}

func TestOtherKeysDoNotClose(t *testing.T) {
	dev := gfxtest.NewDevice(1, 1)
	win := newFakeWindow(dev, 1, 1)
	win.pressed[0] = KeyEscape
	cfg := DefaultConfig()
	cfg.MaxFrames = 4
	app := &triangleApp{}

	require.NoError(t, runFake(t, app, cfg, win, dev))
	assert.Equal(t, 4, app.rendered)
}

func TestClearColorBeforeDraw(t *testing.T) {
	dev := gfxtest.NewDevice(5, 4)
	win := newFakeWindow(dev, 5, 4)
	cfg := DefaultConfig()
	cfg.MaxFrames = 1
	app := &triangleApp{}

	require.NoError(t, runFake(t, app, cfg, win, dev))

	require.Len(t, app.afterClear, 1)
	px := app.afterClear[0]
	require.Len(t, px, 5*4*4)
	want := colors.Navy.RGBA8()
	for i := 0; i < len(px); i += 4 {
		assert.Equal(t, want[:], px[i:i+4], "pixel %d", i/4)
	}
}

func TestFrameOrder(t *testing.T) {
	dev := gfxtest.NewDevice(2, 2)
	win := newFakeWindow(dev, 2, 2)
	cfg := DefaultConfig()
	cfg.MaxFrames = 1
	app := &triangleApp{}
	require.NoError(t, runFake(t, app, cfg, win, dev))

	var clear, read, draw int = -1, -1, -1
	for i, c := range dev.Calls {
		switch {
		case c == "Clear()":
			clear = i
		case c == "ReadPixels(0, 0, 2, 2)":
			read = i
		case len(c) > 13 && c[:13] == "DrawTriangles":
			draw = i
		}
	}
	assert.True(t, clear >= 0 && clear < read && read < draw, "clear %d, read %d, draw %d", clear, read, draw)
	assert.Equal(t, [4]int32{0, 0, 2, 2}, dev.ViewportAt, "initial viewport")
}

func TestResizeUpdatesViewport(t *testing.T) {
	dev := gfxtest.NewDevice(1, 1)
	win := newFakeWindow(dev, 1, 1)
	win.onPoll[0] = func(emit func(Event)) {
		win.w, win.h = 8, 6
		dev.ResizeFramebuffer(8, 6)
		emit(EventResize{W: 8, H: 6})
	}
	win.onPoll[1] = func(emit func(Event)) { emit(EventResize{W: 0, H: 0}) }
	cfg := DefaultConfig()
	cfg.MaxFrames = 3
	app := &triangleApp{}

	require.NoError(t, runFake(t, app, cfg, win, dev))
	assert.Equal(t, [4]int32{0, 0, 8, 6}, dev.ViewportAt, "minimised size is ignored")
	assert.Equal(t, []Event{EventResize{W: 8, H: 6}, EventResize{W: 0, H: 0}}, app.events)
	require.Len(t, app.afterClear, 3)
	assert.Len(t, app.afterClear[2], 8*6*4, "readback covers the resized framebuffer")
	assert.Empty(t, dev.Violations)
}

func TestStartFailureTearsDown(t *testing.T) {
	dev := gfxtest.NewDevice(1, 1)
	win := newFakeWindow(dev, 1, 1)
	boom := errors.New("boom")
	app := &triangleApp{startErr: boom}

	err := runFake(t, app, DefaultConfig(), win, dev)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, app.rendered)
	assert.Equal(t, 1, app.shutdowns)
	assert.Equal(t, []State{StateClosing}, app.states)
	assert.Equal(t, 1, win.destroyed)
	assert.Empty(t, dev.Violations)
}

func TestWindowFailure(t *testing.T) {
	boom := errors.New("no display")
	err := Run(&triangleApp{}, DefaultConfig(),
		func(Config) (Window, error) { return nil, boom },
		func(Window, Config) (gfx.Device, error) { t.Fatal("device created without window"); return nil, nil },
	)
	assert.ErrorIs(t, err, boom)
}

func TestDeviceFailureDestroysWindow(t *testing.T) {
	dev := gfxtest.NewDevice(1, 1)
	win := newFakeWindow(dev, 1, 1)
	boom := errors.New("gl loader")
	app := &triangleApp{}

	err := Run(app, DefaultConfig(),
		func(Config) (Window, error) { return win, nil },
		func(Window, Config) (gfx.Device, error) { return nil, boom },
	)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, win.destroyed)
	assert.Zero(t, app.shutdowns)
}

func TestWireframe(t *testing.T) {
	dev := gfxtest.NewDevice(1, 1)
	win := newFakeWindow(dev, 1, 1)
	cfg := DefaultConfig()
	cfg.MaxFrames = 1
	cfg.Wireframe = true

	require.NoError(t, runFake(t, &triangleApp{}, cfg, win, dev))
	assert.True(t, dev.WireOn)
}
