package assets

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/hiopengl/engine/gfx"
)

func TestLoadShader(t *testing.T) {
	fsys := fstest.MapFS{
		"a.vert": {Data: []byte("void main() {}")},
		"b.frag": {Data: []byte("void main() {}")},
		"c.glsl": {Data: []byte("void main() {}")},
		"e.frag": {Data: nil},
	}

	src, err := LoadShader(fsys, "a.vert")
	require.NoError(t, err)
	assert.Equal(t, gfx.StageVertex, src.Stage)
	assert.Equal(t, "a.vert", src.Name)

	src, err = LoadShader(fsys, "b.frag")
	require.NoError(t, err)
	assert.Equal(t, gfx.StageFragment, src.Stage)

	_, err = LoadShader(fsys, "c.glsl")
	assert.Error(t, err)
	_, err = LoadShader(fsys, "missing.vert")
	assert.Error(t, err)
	_, err = LoadShader(fsys, "e.frag")
	assert.Error(t, err)
}

func TestOverlay(t *testing.T) {
	override := fstest.MapFS{"solid.frag": {Data: []byte("override")}, "bad.frag": {Data: nil}}
	base := fstest.MapFS{
		"solid.frag": {Data: []byte("base")},
		"pos.vert":   {Data: []byte("base vert")},
		"bad.frag":   {Data: []byte("base bad")},
	}

	src, err := Overlay("solid.frag", override, base)
	require.NoError(t, err)
	assert.Equal(t, "override", src.Text)

	src, err = Overlay("pos.vert", nil, override, base)
	require.NoError(t, err)
	assert.Equal(t, "base vert", src.Text)

	_, err = Overlay("bad.frag", override, base)
	assert.Error(t, err, "an invalid override must not silently fall back")

	_, err = Overlay("nope.vert", override, base)
	assert.Error(t, err)
	_, err = Overlay("nope.vert")
	assert.Error(t, err)
}

func TestSavePNGFlipsRows(t *testing.T) {
	// Two rows, bottom row first as GL returns them: bottom red, top blue.
	px := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, SavePNG(path, 1, 2, px))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)

	assert.Equal(t, color.NRGBA{0, 0, 255, 255}, color.NRGBAModel.Convert(img.At(0, 0)))
	assert.Equal(t, color.NRGBA{255, 0, 0, 255}, color.NRGBAModel.Convert(img.At(0, 1)))
}

func TestFramebufferImageSizeMismatch(t *testing.T) {
	_, err := FramebufferImage(2, 2, make([]byte, 4))
	assert.Error(t, err)
	_, err = FramebufferImage(0, 2, nil)
	assert.Error(t, err)
}
