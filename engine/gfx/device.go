// Package gfx wraps the handful of graphics objects the renderer needs in
// owned handles. Backends implement Device; the types here never talk to a
// graphics API directly.
package gfx

import "github.com/hubastard/hiopengl/engine/colors"

// Stage identifies a programmable pipeline stage.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// InfoLogSize bounds shader and program diagnostics.
const InfoLogSize = 512

// Device is the subset of a GL-style immediate API used by the renderer.
// Object names are backend handles; zero is never a valid name.
type Device interface {
	CreateShader(stage Stage) uint32
	ShaderSource(shader uint32, src string)
	CompileShader(shader uint32)
	ShaderCompiled(shader uint32) bool
	// ShaderInfoLog returns at most maxLen bytes of the compile log.
	ShaderInfoLog(shader uint32, maxLen int) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	ProgramLinked(program uint32) bool
	ProgramInfoLog(program uint32, maxLen int) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	GenVertexArray() uint32
	BindVertexArray(vao uint32)
	DeleteVertexArray(vao uint32)
	GenBuffer() uint32
	BindArrayBuffer(buf uint32)
	// BufferStaticData uploads data to the bound array buffer once.
	BufferStaticData(data []float32)
	DeleteBuffer(buf uint32)
	// VertexAttribFloat declares and enables a float attribute on the bound
	// vertex array, sourced from the bound array buffer.
	VertexAttribFloat(location uint32, components, stride int32, offset uintptr)

	Viewport(x, y, width, height int32)
	ClearColor(c colors.Color)
	Clear()
	DrawTriangles(first, count int32)
	Wireframe(on bool)
	// ReadPixels returns width*height RGBA8 pixels, bottom row first.
	ReadPixels(x, y, width, height int32) []byte

	Vendor() string
	Renderer() string
	Version() string
}
