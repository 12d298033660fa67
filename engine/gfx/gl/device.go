package glbackend

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/hubastard/hiopengl/engine/colors"
	"github.com/hubastard/hiopengl/engine/gfx"
	"github.com/hubastard/hiopengl/engine/logging"
)

// DeviceGL implements gfx.Device on the current OpenGL 3.3 core context.
type DeviceGL struct{}

// NewDeviceGL loads the GL entry points. A context must be current on the
// calling thread.
func NewDeviceGL() (*DeviceGL, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("load gl functions: %w", err)
	}
	d := &DeviceGL{}
	logging.Logger().Info("gl context", "vendor", d.Vendor(), "renderer", d.Renderer(), "version", d.Version())
	return d, nil
}

// --- shaders ---

func (*DeviceGL) CreateShader(stage gfx.Stage) uint32 {
	switch stage {
	case gfx.StageVertex:
		return gl.CreateShader(gl.VERTEX_SHADER)
	case gfx.StageFragment:
		return gl.CreateShader(gl.FRAGMENT_SHADER)
	}
	return 0
}

func (*DeviceGL) ShaderSource(sh uint32, src string) {
	if !strings.HasSuffix(src, "\x00") {
		src += "\x00"
	}
	csrc, free := gl.Strs(src)
	defer free()
	gl.ShaderSource(sh, 1, csrc, nil)
}

func (*DeviceGL) CompileShader(sh uint32) { gl.CompileShader(sh) }

func (*DeviceGL) ShaderCompiled(sh uint32) bool {
	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	return status != gl.FALSE
}

func (*DeviceGL) ShaderInfoLog(sh uint32, maxLen int) string {
	return infoLog(maxLen, func(size int32, length *int32, buf *uint8) {
		gl.GetShaderInfoLog(sh, size, length, buf)
	})
}

func (*DeviceGL) DeleteShader(sh uint32) { gl.DeleteShader(sh) }

// --- programs ---

func (*DeviceGL) CreateProgram() uint32 { return gl.CreateProgram() }

func (*DeviceGL) AttachShader(prog, sh uint32) { gl.AttachShader(prog, sh) }

func (*DeviceGL) LinkProgram(prog uint32) { gl.LinkProgram(prog) }

func (*DeviceGL) UseProgram(prog uint32) { gl.UseProgram(prog) }

func (*DeviceGL) DeleteProgram(prog uint32) { gl.DeleteProgram(prog) }

func (*DeviceGL) ProgramLinked(prog uint32) bool {
	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	return status != gl.FALSE
}

func (*DeviceGL) ProgramInfoLog(prog uint32, maxLen int) string {
	return infoLog(maxLen, func(size int32, length *int32, buf *uint8) {
		gl.GetProgramInfoLog(prog, size, length, buf)
	})
}

// infoLog reads a log into a fixed buffer; GL writes at most size-1 bytes
// plus a terminator.
func infoLog(maxLen int, get func(size int32, length *int32, buf *uint8)) string {
	if maxLen <= 0 {
		return ""
	}
	buf := make([]byte, maxLen)
	var n int32
	get(int32(maxLen), &n, &buf[0])
	return strings.TrimRight(string(buf[:n]), "\x00\n")
}

// --- buffers ---

func (*DeviceGL) GenVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (*DeviceGL) BindVertexArray(vao uint32) { gl.BindVertexArray(vao) }

func (*DeviceGL) DeleteVertexArray(vao uint32) { gl.DeleteVertexArrays(1, &vao) }

func (*DeviceGL) GenBuffer() uint32 {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	return vbo
}

func (*DeviceGL) BindArrayBuffer(vbo uint32) { gl.BindBuffer(gl.ARRAY_BUFFER, vbo) }

func (*DeviceGL) BufferStaticData(data []float32) {
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (*DeviceGL) DeleteBuffer(vbo uint32) { gl.DeleteBuffers(1, &vbo) }

func (*DeviceGL) VertexAttribFloat(loc uint32, components, stride int32, offset uintptr) {
	gl.VertexAttribPointerWithOffset(loc, components, gl.FLOAT, false, stride, offset)
	gl.EnableVertexAttribArray(loc)
}

// --- frame ---

func (*DeviceGL) Viewport(x, y, w, h int32) { gl.Viewport(x, y, w, h) }

func (*DeviceGL) ClearColor(c colors.Color) { gl.ClearColor(c[0], c[1], c[2], c[3]) }

func (*DeviceGL) Clear() { gl.Clear(gl.COLOR_BUFFER_BIT) }

func (*DeviceGL) DrawTriangles(first, count int32) { gl.DrawArrays(gl.TRIANGLES, first, count) }

func (*DeviceGL) Wireframe(on bool) {
	mode := uint32(gl.FILL)
	if on {
		mode = gl.LINE
	}
	gl.PolygonMode(gl.FRONT_AND_BACK, mode)
}

func (*DeviceGL) ReadPixels(x, y, w, h int32) []byte {
	px := make([]byte, int(w)*int(h)*4)
	if len(px) == 0 {
		return px
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(x, y, w, h, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(px))
	return px
}

func (*DeviceGL) Vendor() string   { return gl.GoStr(gl.GetString(gl.VENDOR)) }
func (*DeviceGL) Renderer() string { return gl.GoStr(gl.GetString(gl.RENDERER)) }
func (*DeviceGL) Version() string  { return gl.GoStr(gl.GetString(gl.VERSION)) }

var _ gfx.Device = (*DeviceGL)(nil)
