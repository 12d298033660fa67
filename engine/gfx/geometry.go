package gfx

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/hiopengl/engine/logging"
)

const floatSize = 4

// PositionLayout is the attribute layout of UploadPositions buffers:
// location 0, three tightly packed floats starting at byte 0.
var PositionLayout = struct {
	Location   uint32
	Components int32
	Stride     int32
	Offset     uintptr
}{0, 3, 3 * floatSize, 0}

// Geometry is an owned vertex buffer plus the vertex array describing it.
type Geometry struct {
	dev   Device
	vao   uint32
	vbo   uint32
	count int32
}

func (g *Geometry) VAO() uint32 { return g.vao }
func (g *Geometry) VBO() uint32 { return g.vbo }

// Count is the number of vertices.
func (g *Geometry) Count() int32 { return g.count }

func (g *Geometry) Bind() { g.dev.BindVertexArray(g.vao) }

// Release deletes the vertex array and then the buffer.
func (g *Geometry) Release() {
	if g == nil {
		return
	}
	if g.vao != 0 {
		g.dev.DeleteVertexArray(g.vao)
		g.vao = 0
	}
	if g.vbo != 0 {
		g.dev.DeleteBuffer(g.vbo)
		g.vbo = 0
	}
}

// Flatten packs positions into x, y, z order.
func Flatten(verts []mgl32.Vec3) []float32 {
	out := make([]float32, 0, len(verts)*3)
	for _, v := range verts {
		out = append(out, v[0], v[1], v[2])
	}
	return out
}

// UploadPositions copies a triangle list into a static buffer with its own
// vertex array.
func UploadPositions(dev Device, verts []mgl32.Vec3) (*Geometry, error) {
	if len(verts) == 0 || len(verts)%3 != 0 {
		return nil, fmt.Errorf("upload: %d vertices is not a triangle list", len(verts))
	}

	g := &Geometry{dev: dev, count: int32(len(verts))}
	g.vao = dev.GenVertexArray()
	g.vbo = dev.GenBuffer()
	if g.vao == 0 || g.vbo == 0 {
		g.Release()
		return nil, fmt.Errorf("upload: no object name")
	}

	dev.BindVertexArray(g.vao)
	dev.BindArrayBuffer(g.vbo)
	dev.BufferStaticData(Flatten(verts))

	l := PositionLayout
	dev.VertexAttribFloat(l.Location, l.Components, l.Stride, l.Offset)

	dev.BindArrayBuffer(0)
	dev.BindVertexArray(0)

	logging.Logger().Debug("geometry uploaded", "vao", g.vao, "vbo", g.vbo, "vertices", g.count)
	return g, nil
}
