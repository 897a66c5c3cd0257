package uibackend

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
)

func TestKeyName(t *testing.T) {
	assert.Equal(t, "A", KeyName(glfw.KeyA))
	assert.Equal(t, "Z", KeyName(glfw.KeyZ))
	assert.Equal(t, "7", KeyName(glfw.Key7))
	assert.Equal(t, "F10", KeyName(glfw.KeyF10))
	assert.Equal(t, "Esc", KeyName(glfw.KeyEscape))
	assert.Equal(t, "Enter", KeyName(glfw.KeyKPEnter))
	assert.Equal(t, "Left", KeyName(glfw.KeyLeft))
	assert.Equal(t, "", KeyName(glfw.KeyUnknown))
}

func TestMouseButtonName(t *testing.T) {
	assert.Equal(t, "Left", MouseButtonName(glfw.MouseButtonLeft))
	assert.Equal(t, "Right", MouseButtonName(glfw.MouseButtonRight))
	assert.Equal(t, "", MouseButtonName(glfw.MouseButton5))
}
