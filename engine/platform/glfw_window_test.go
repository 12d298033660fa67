package platform

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/hubastard/hiopengl/engine/core"
	"github.com/stretchr/testify/assert"
)

func TestKeyTranslationRoundTrips(t *testing.T) {
	for gk, ck := range keyMap {
		assert.Equal(t, ck, translateKey(gk))
		back, ok := glfwKey(ck)
		assert.True(t, ok)
		assert.Equal(t, gk, back)
	}
	assert.Equal(t, core.KeyUnknown, translateKey(glfw.KeyF12))
	_, ok := glfwKey(core.KeyUnknown)
	assert.False(t, ok)
}
