package gfx

import (
	"fmt"

	"github.com/hubastard/hiopengl/engine/logging"
)

// Source is shader text for one stage.
type Source struct {
	Name  string
	Stage Stage
	Text  string
}

// CompileError carries the compiler diagnostics for a failed stage.
type CompileError struct {
	Name  string
	Stage Stage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s shader %q compile failed: %s", e.Stage, e.Name, e.Log)
}

// Shader is an owned compiled shader object.
type Shader struct {
	dev   Device
	id    uint32
	stage Stage
}

func (s *Shader) ID() uint32   { return s.id }
func (s *Shader) Stage() Stage { return s.stage }

// Release deletes the shader object. Programs linked from it keep working.
func (s *Shader) Release() {
	if s == nil || s.id == 0 {
		return
	}
	s.dev.DeleteShader(s.id)
	s.id = 0
}

// Compile compiles src for its stage. On failure the bounded log is reported
// and returned in a *CompileError; no shader object is left behind.
func Compile(dev Device, src Source) (*Shader, error) {
	id := dev.CreateShader(src.Stage)
	if id == 0 {
		return nil, fmt.Errorf("create %s shader %q: no object name", src.Stage, src.Name)
	}
	dev.ShaderSource(id, src.Text)
	dev.CompileShader(id)

	if !dev.ShaderCompiled(id) {
		log := dev.ShaderInfoLog(id, InfoLogSize)
		if log == "" {
			log = "no diagnostics"
		}
		dev.DeleteShader(id)
		logging.Logger().Error("shader compile failed", "stage", src.Stage, "name", src.Name, "log", log)
		return nil, &CompileError{Name: src.Name, Stage: src.Stage, Log: log}
	}
	logging.Logger().Debug("shader compiled", "stage", src.Stage, "name", src.Name, "id", id)
	return &Shader{dev: dev, id: id, stage: src.Stage}, nil
}
