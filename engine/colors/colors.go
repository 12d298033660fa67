package colors

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Color is a linear RGBA color with components in [0, 1].
type Color mgl32.Vec4

var (
	Orange = Color{1, 0.5, 0.2, 1}
	Yellow = Color{1, 1, 0, 1}

	// Navy is the translucent dark blue the demo clears to.
	Navy = Color{0, 0, 0.5, 0.1}
)

// RGBA8 converts c to 8-bit channels the way a UNORM framebuffer stores it.
func (c Color) RGBA8() [4]uint8 {
	var out [4]uint8
	for i, v := range c {
		v = mgl32.Clamp(v, 0, 1)
		out[i] = uint8(math.Round(float64(v) * 255))
	}
	return out
}
