// Package gfxtest provides a recording gfx.Device for tests that run without
// a graphics context.
package gfxtest

import (
	"fmt"
	"strings"

	"github.com/hubastard/hiopengl/engine/colors"
	"github.com/hubastard/hiopengl/engine/gfx"
)

// Kind names the object types tracked by Device.
type Kind string

const (
	KindShader  Kind = "shader"
	KindProgram Kind = "program"
	KindBuffer  Kind = "buffer"
	KindArray   Kind = "vertex array"
)

// Attrib is a declared vertex attribute.
type Attrib struct {
	Location   uint32
	Components int32
	Stride     int32
	Offset     uintptr
	Buffer     uint32
}

// DrawCall is one recorded DrawTriangles.
type DrawCall struct {
	Program uint32
	VAO     uint32
	First   int32
	Count   int32
}

// Device records every call and simulates a framebuffer that only Clear
// writes to. Misuse (double delete, unknown names, calls after Lose) is
// collected in Violations rather than panicking.
type Device struct {
	// CompileLog decides whether a source compiles; a non-empty result is the
	// failure log. Defaults to DefaultCompileLog.
	CompileLog func(stage gfx.Stage, src string) string
	// LinkLog works the same way for programs.
	LinkLog func(program uint32) string

	Calls      []string
	Violations []string
	Draws      []DrawCall
	ViewportAt [4]int32
	ClearedTo  colors.Color
	WireOn     bool

	next    uint32
	live    map[uint32]Kind
	deleted map[uint32]Kind
	sources map[uint32]string
	stages  map[uint32]gfx.Stage
	logs    map[uint32]string
	attach  map[uint32][]uint32
	linked  map[uint32]bool
	data    map[uint32][]float32
	attribs map[uint32][]Attrib

	program, vao, buffer uint32
	width, height        int
	fb                   []byte
	lost                 bool
}

// NewDevice returns a device with a width x height framebuffer.
func NewDevice(width, height int) *Device {
	return &Device{
		next:    1,
		live:    map[uint32]Kind{},
		deleted: map[uint32]Kind{},
		sources: map[uint32]string{},
		stages:  map[uint32]gfx.Stage{},
		logs:    map[uint32]string{},
		attach:  map[uint32][]uint32{},
		linked:  map[uint32]bool{},
		data:    map[uint32][]float32{},
		attribs: map[uint32][]Attrib{},
		width:   width,
		height:  height,
		fb:      make([]byte, width*height*4),
	}
}

// DefaultCompileLog fails sources without a main function or containing
// an unbalanced brace.
func DefaultCompileLog(stage gfx.Stage, src string) string {
	switch {
	case !strings.Contains(src, "void main"):
		return fmt.Sprintf("0:1(1): error: %s shader has no main function", stage)
	case strings.Count(src, "{") != strings.Count(src, "}"):
		return "0:1(1): error: syntax error, unexpected end of file"
	}
	return ""
}

// Lose marks the context as destroyed; any later call is a violation.
func (d *Device) Lose() { d.lost = true }

// Live returns the names of objects of kind k not yet deleted.
func (d *Device) Live(k Kind) []uint32 {
	var out []uint32
	for id, kind := range d.live {
		if kind == k {
			out = append(out, id)
		}
	}
	return out
}

// Deleted reports whether id was deleted.
func (d *Device) Deleted(id uint32) bool {
	_, ok := d.deleted[id]
	return ok
}

// BufferData returns what was uploaded to buf.
func (d *Device) BufferData(buf uint32) []float32 { return d.data[buf] }

// Attribs returns the attributes declared on vao.
func (d *Device) Attribs(vao uint32) []Attrib { return d.attribs[vao] }

// Attached returns the shaders attached to program.
func (d *Device) Attached(program uint32) []uint32 { return d.attach[program] }

func (d *Device) call(format string, args ...any) {
	c := fmt.Sprintf(format, args...)
	if d.lost {
		d.violate("%s after context loss", c)
	}
	d.Calls = append(d.Calls, c)
}

func (d *Device) violate(format string, args ...any) {
	d.Violations = append(d.Violations, fmt.Sprintf(format, args...))
}

func (d *Device) gen(k Kind) uint32 {
	id := d.next
	d.next++
	d.live[id] = k
	return id
}

func (d *Device) check(id uint32, k Kind) bool {
	if got, ok := d.live[id]; ok && got == k {
		return true
	}
	if got, ok := d.deleted[id]; ok && got == k {
		d.violate("%s %d used after delete", k, id)
	} else {
		d.violate("unknown %s %d", k, id)
	}
	return false
}

func (d *Device) del(id uint32, k Kind) {
	if id == 0 {
		return
	}
	if !d.check(id, k) {
		return
	}
	delete(d.live, id)
	d.deleted[id] = k
}

func (d *Device) CreateShader(stage gfx.Stage) uint32 {
	d.call("CreateShader(%s)", stage)
	id := d.gen(KindShader)
	d.stages[id] = stage
	return id
}

func (d *Device) ShaderSource(shader uint32, src string) {
	d.call("ShaderSource(%d)", shader)
	if d.check(shader, KindShader) {
		d.sources[shader] = src
	}
}

func (d *Device) CompileShader(shader uint32) {
	d.call("CompileShader(%d)", shader)
	if !d.check(shader, KindShader) {
		return
	}
	fn := d.CompileLog
	if fn == nil {
		fn = DefaultCompileLog
	}
	d.logs[shader] = fn(d.stages[shader], d.sources[shader])
}

func (d *Device) ShaderCompiled(shader uint32) bool {
	d.call("ShaderCompiled(%d)", shader)
	return d.check(shader, KindShader) && d.logs[shader] == ""
}

func (d *Device) ShaderInfoLog(shader uint32, maxLen int) string {
	d.call("ShaderInfoLog(%d)", shader)
	return clip(d.logs[shader], maxLen)
}

func (d *Device) DeleteShader(shader uint32) {
	d.call("DeleteShader(%d)", shader)
	d.del(shader, KindShader)
}

func (d *Device) CreateProgram() uint32 {
	d.call("CreateProgram()")
	return d.gen(KindProgram)
}

func (d *Device) AttachShader(program, shader uint32) {
	d.call("AttachShader(%d, %d)", program, shader)
	if d.check(program, KindProgram) && d.check(shader, KindShader) {
		d.attach[program] = append(d.attach[program], shader)
	}
}

func (d *Device) LinkProgram(program uint32) {
	d.call("LinkProgram(%d)", program)
	if !d.check(program, KindProgram) {
		return
	}
	if d.LinkLog != nil {
		d.logs[program] = d.LinkLog(program)
	}
	if d.logs[program] == "" {
		var vs, fs int
		for _, sh := range d.attach[program] {
			if d.logs[sh] != "" {
				d.logs[program] = fmt.Sprintf("error: shader %d was not compiled", sh)
			}
			if d.stages[sh] == gfx.StageVertex {
				vs++
			} else {
				fs++
			}
		}
		if vs != 1 || fs != 1 {
			d.logs[program] = "error: program needs one vertex and one fragment shader"
		}
	}
	d.linked[program] = d.logs[program] == ""
}

func (d *Device) ProgramLinked(program uint32) bool {
	d.call("ProgramLinked(%d)", program)
	return d.check(program, KindProgram) && d.linked[program]
}

func (d *Device) ProgramInfoLog(program uint32, maxLen int) string {
	d.call("ProgramInfoLog(%d)", program)
	return clip(d.logs[program], maxLen)
}

func (d *Device) UseProgram(program uint32) {
	d.call("UseProgram(%d)", program)
	if program != 0 && d.check(program, KindProgram) && !d.linked[program] {
		d.violate("program %d used without a successful link", program)
	}
	d.program = program
}

func (d *Device) DeleteProgram(program uint32) {
	d.call("DeleteProgram(%d)", program)
	d.del(program, KindProgram)
}

func (d *Device) GenVertexArray() uint32 {
	d.call("GenVertexArray()")
	return d.gen(KindArray)
}

func (d *Device) BindVertexArray(vao uint32) {
	d.call("BindVertexArray(%d)", vao)
	if vao != 0 {
		d.check(vao, KindArray)
	}
	d.vao = vao
}

func (d *Device) DeleteVertexArray(vao uint32) {
	d.call("DeleteVertexArray(%d)", vao)
	d.del(vao, KindArray)
}

func (d *Device) GenBuffer() uint32 {
	d.call("GenBuffer()")
	return d.gen(KindBuffer)
}

func (d *Device) BindArrayBuffer(buf uint32) {
	d.call("BindArrayBuffer(%d)", buf)
	if buf != 0 {
		d.check(buf, KindBuffer)
	}
	d.buffer = buf
}

func (d *Device) BufferStaticData(data []float32) {
	d.call("BufferStaticData(%d floats)", len(data))
	if d.buffer == 0 {
		d.violate("buffer upload with no array buffer bound")
		return
	}
	d.data[d.buffer] = append([]float32(nil), data...)
}

func (d *Device) DeleteBuffer(buf uint32) {
	d.call("DeleteBuffer(%d)", buf)
	d.del(buf, KindBuffer)
}

func (d *Device) VertexAttribFloat(location uint32, components, stride int32, offset uintptr) {
	d.call("VertexAttribFloat(%d, %d, %d, %d)", location, components, stride, offset)
	if d.vao == 0 || d.buffer == 0 {
		d.violate("attribute %d declared without vertex array and buffer bound", location)
		return
	}
	d.attribs[d.vao] = append(d.attribs[d.vao], Attrib{
		Location: location, Components: components, Stride: stride, Offset: offset, Buffer: d.buffer,
	})
}

func (d *Device) Viewport(x, y, width, height int32) {
	d.call("Viewport(%d, %d, %d, %d)", x, y, width, height)
	d.ViewportAt = [4]int32{x, y, width, height}
}

func (d *Device) ClearColor(c colors.Color) {
	d.call("ClearColor(%v)", c)
	d.ClearedTo = c
}

func (d *Device) Clear() {
	d.call("Clear()")
	px := d.ClearedTo.RGBA8()
	for i := 0; i < len(d.fb); i += 4 {
		copy(d.fb[i:i+4], px[:])
	}
}

func (d *Device) DrawTriangles(first, count int32) {
	d.call("DrawTriangles(%d, %d)", first, count)
	if d.program == 0 || d.vao == 0 {
		d.violate("draw with program %d and vertex array %d", d.program, d.vao)
	}
	d.Draws = append(d.Draws, DrawCall{Program: d.program, VAO: d.vao, First: first, Count: count})
}

func (d *Device) Wireframe(on bool) {
	d.call("Wireframe(%t)", on)
	d.WireOn = on
}

func (d *Device) ReadPixels(x, y, width, height int32) []byte {
	d.call("ReadPixels(%d, %d, %d, %d)", x, y, width, height)
	if width <= 0 || height <= 0 {
		d.violate("ReadPixels with empty region %dx%d", width, height)
		return nil
	}
	out := make([]byte, int(width)*int(height)*4)
	if x < 0 || y < 0 || int(x+width) > d.width || int(y+height) > d.height {
		d.violate("ReadPixels region (%d, %d, %d, %d) outside %dx%d framebuffer",
			x, y, width, height, d.width, d.height)
	}
	for row := int32(0); row < height; row++ {
		fy := int(y + row)
		if fy < 0 || fy >= d.height {
			continue
		}
		for col := int32(0); col < width; col++ {
			fx := int(x + col)
			if fx < 0 || fx >= d.width {
				continue
			}
			src := (fy*d.width + fx) * 4
			dst := (int(row)*int(width) + int(col)) * 4
			copy(out[dst:dst+4], d.fb[src:src+4])
		}
	}
	return out
}

// ResizeFramebuffer reallocates the simulated framebuffer, as a window
// resize does. The new contents are black until the next Clear.
func (d *Device) ResizeFramebuffer(width, height int) {
	d.width, d.height = width, height
	d.fb = make([]byte, width*height*4)
}

func (d *Device) Vendor() string   { return "gfxtest" }
func (d *Device) Renderer() string { return "recording device" }
func (d *Device) Version() string  { return "3.3 (fake)" }

func clip(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

var _ gfx.Device = (*Device)(nil)
