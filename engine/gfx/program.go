package gfx

import (
	"errors"
	"fmt"

	"github.com/hubastard/hiopengl/engine/logging"
)

var errReleased = errors.New("shader already released")

// LinkError carries the linker diagnostics for a failed program.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string { return "program link failed: " + e.Log }

// Program is an owned, successfully linked program object.
type Program struct {
	dev Device
	id  uint32
}

func (p *Program) ID() uint32 { return p.id }

// Use makes p the current program.
func (p *Program) Use() { p.dev.UseProgram(p.id) }

func (p *Program) Release() {
	if p == nil || p.id == 0 {
		return
	}
	p.dev.DeleteProgram(p.id)
	p.id = 0
}

// Link attaches vs and fs to a new program and links it. The shaders stay
// owned by the caller and may be released as soon as Link returns.
func Link(dev Device, vs, fs *Shader) (*Program, error) {
	if vs == nil || vs.stage != StageVertex {
		return nil, fmt.Errorf("link: want a vertex shader")
	}
	if fs == nil || fs.stage != StageFragment {
		return nil, fmt.Errorf("link: want a fragment shader")
	}
	if vs.id == 0 || fs.id == 0 {
		return nil, fmt.Errorf("link: %w", errReleased)
	}

	id := dev.CreateProgram()
	if id == 0 {
		return nil, fmt.Errorf("create program: no object name")
	}
	dev.AttachShader(id, vs.id)
	dev.AttachShader(id, fs.id)
	dev.LinkProgram(id)

	if !dev.ProgramLinked(id) {
		log := dev.ProgramInfoLog(id, InfoLogSize)
		if log == "" {
			log = "no diagnostics"
		}
		dev.DeleteProgram(id)
		logging.Logger().Error("program link failed", "log", log)
		return nil, &LinkError{Log: log}
	}
	logging.Logger().Debug("program linked", "id", id, "vs", vs.id, "fs", fs.id)
	return &Program{dev: dev, id: id}, nil
}
