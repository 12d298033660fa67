package main

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/hiopengl/engine/assets"
	"github.com/hubastard/hiopengl/engine/colors"
	"github.com/hubastard/hiopengl/engine/core"
	"github.com/hubastard/hiopengl/engine/gfx"
	"github.com/hubastard/hiopengl/engine/logging"
)

//go:embed shaders/*.vert shaders/*.frag
var embedded embed.FS

// builtinShaders is the embedded shader directory.
var builtinShaders = func() fs.FS {
	sub, err := fs.Sub(embedded, "shaders")
	if err != nil {
		panic(err)
	}
	return sub
}()

const vertexShader = "triangle.vert"

// Left and right triangles, sharing the origin vertex.
var (
	TriangleA = []mgl32.Vec3{{-0.25, 0.5, 0}, {-0.5, 0, 0}, {0, 0, 0}}
	TriangleB = []mgl32.Vec3{{0.25, 0.5, 0}, {0, 0, 0}, {0.5, 0, 0}}
)

type passDesc struct {
	name     string
	fragment string
	color    colors.Color // the solid color the fragment shader writes
	verts    []mgl32.Vec3
}

var passDescs = []passDesc{
	{"orange", "orange.frag", colors.Orange, TriangleA},
	{"yellow", "yellow.frag", colors.Yellow, TriangleB},
}

// Scene draws the two triangles, each with its own program and geometry.
type Scene struct {
	shaders fs.FS // overrides, may be nil
	passes  []gfx.Pass
}

func NewScene(overrides fs.FS) *Scene { return &Scene{shaders: overrides} }

// Passes returns the passes drawn each frame, in order.
func (s *Scene) Passes() []gfx.Pass { return s.passes }

func (s *Scene) source(name string) (gfx.Source, error) {
	return assets.Overlay(name, s.shaders, builtinShaders)
}

func (s *Scene) OnStart(e *core.Engine) error {
	dev := e.Device
	report := e.Config.ShaderPolicy == core.ShaderReport

	vsSrc, err := s.source(vertexShader)
	if err != nil {
		return err
	}
	vs, err := gfx.Compile(dev, vsSrc)
	if err != nil {
		if report && isShaderError(err) {
			logging.Logger().Warn("vertex stage failed, nothing to draw", "err", err)
			return nil
		}
		return err
	}
	defer vs.Release()

	for _, d := range passDescs {
		pass, err := s.buildPass(dev, vs, d)
		if err != nil {
			if report && isShaderError(err) {
				logging.Logger().Warn("pass skipped", "pass", d.name, "err", err)
				continue
			}
			return fmt.Errorf("pass %s: %w", d.name, err)
		}
		logging.Logger().Debug("pass ready", "pass", d.name, "color", d.color.RGBA8())
		s.passes = append(s.passes, pass)
	}
	return nil
}

func (s *Scene) buildPass(dev gfx.Device, vs *gfx.Shader, d passDesc) (gfx.Pass, error) {
	fsSrc, err := s.source(d.fragment)
	if err != nil {
		return gfx.Pass{}, err
	}
	frag, err := gfx.Compile(dev, fsSrc)
	if err != nil {
		return gfx.Pass{}, err
	}
	defer frag.Release()

	prog, err := gfx.Link(dev, vs, frag)
	if err != nil {
		return gfx.Pass{}, err
	}
	geo, err := gfx.UploadPositions(dev, d.verts)
	if err != nil {
		prog.Release()
		return gfx.Pass{}, err
	}
	return gfx.Pass{Name: d.name, Program: prog, Geometry: geo}, nil
}

func (s *Scene) OnRender(*core.Engine) {
	for _, p := range s.passes {
		p.Draw()
	}
}

func (s *Scene) OnEvent(_ *core.Engine, ev core.Event) {
	if r, ok := ev.(core.EventResize); ok {
		logging.Logger().Debug("resize", "width", r.W, "height", r.H)
	}
}

func (s *Scene) OnShutdown(*core.Engine) {
	for _, p := range s.passes {
		p.Release()
	}
	s.passes = nil
}

func isShaderError(err error) bool {
	var ce *gfx.CompileError
	var le *gfx.LinkError
	return errors.As(err, &ce) || errors.As(err, &le)
}
