package main

import (
	"github.com/hubastard/hiopengl/engine/assets"
	"github.com/hubastard/hiopengl/engine/core"
	"github.com/hubastard/hiopengl/engine/logging"
)

// captureApp saves the first rendered frame to a PNG and closes the window.
type captureApp struct {
	core.App
	path string
	done bool
	err  error
}

func (c *captureApp) OnRender(e *core.Engine) {
	c.App.OnRender(e)
	if c.done {
		return
	}
	c.done = true

	w, h := e.Window.FramebufferSize()
	px := e.Device.ReadPixels(0, 0, int32(w), int32(h))
	if c.err = assets.SavePNG(c.path, w, h, px); c.err == nil {
		logging.Logger().Info("frame captured", "path", c.path, "width", w, "height", h)
	}
	e.RequestClose()
}
