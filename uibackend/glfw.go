package uibackend

import (
	"fmt"
	"log"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"

	"github.com/mogaika/bsg_viewer/config"
	"github.com/mogaika/bsg_viewer/vr"
)

// GLFW is a desktop window with an OpenGL 4.3 core context. Input is
// translated by vr.DesktopInput, so the viewer sees wand-like events.
type GLFW struct {
	window *glfw.Window
	input  *vr.DesktopInput

	onResize func(width, height int)
}

var _ vr.Display = (*GLFW)(nil)

// NewGLFW creates the window and makes its context current. Must be called
// from the locked main thread.
func NewGLFW(cfg config.Window, keyMap map[string]string) (*GLFW, error) {
	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "Failed to initialize glfw")
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLDebugContext, glfw.True)
	glfw.WindowHint(glfw.Samples, 4)

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, errors.Wrap(err, "Failed to create window")
	}
	window.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	g := &GLFW{
		window: window,
		input:  vr.NewDesktopInput(keyMap),
	}
	g.input.SetSize(window.GetSize())

	window.SetKeyCallback(g.keyCallback)
	window.SetMouseButtonCallback(g.mouseButtonCallback)
	window.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		g.input.CursorMove(x, y)
	})
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		g.input.Scroll(yoff)
	})
	window.SetSizeCallback(func(w *glfw.Window, width, height int) {
		g.input.SetSize(width, height)
	})
	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		if g.onResize != nil {
			g.onResize(width, height)
		}
	})

	log.Printf("[glfw] Window %dx%d %q created", cfg.Width, cfg.Height, cfg.Title)
	return g, nil
}

// OnFramebufferResize sets the function called with the new framebuffer
// size, usually the device viewport.
func (g *GLFW) OnFramebufferResize(fn func(width, height int)) {
	g.onResize = fn
	if fn != nil {
		fn(g.window.GetFramebufferSize())
	}
}

func (g *GLFW) PollEvents() []*vr.Event {
	glfw.PollEvents()
	return g.input.Poll()
}

func (g *GLFW) FramebufferSize() (int, int) { return g.window.GetFramebufferSize() }
func (g *GLFW) SwapBuffers()                { g.window.SwapBuffers() }
func (g *GLFW) ShouldClose() bool           { return g.window.ShouldClose() }

func (g *GLFW) Destroy() {
	g.window.Destroy()
	glfw.Terminate()
}

func (g *GLFW) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	name := KeyName(key)
	if name == "" {
		return
	}
	switch action {
	case glfw.Press:
		g.input.Key(name, vr.KeyPress)
	case glfw.Release:
		g.input.Key(name, vr.KeyRelease)
	case glfw.Repeat:
		g.input.Key(name, vr.KeyRepeat)
	}
}

func (g *GLFW) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	name := MouseButtonName(button)
	if name == "" || action == glfw.Repeat {
		return
	}
	g.input.MouseButton(name, action == glfw.Press)
}

var glfwKeyNames = map[glfw.Key]string{
	glfw.KeyEscape:       "Esc",
	glfw.KeyEnter:        "Enter",
	glfw.KeyKPEnter:      "Enter",
	glfw.KeySpace:        "Space",
	glfw.KeyTab:          "Tab",
	glfw.KeyBackspace:    "Backspace",
	glfw.KeyDelete:       "Delete",
	glfw.KeyInsert:       "Insert",
	glfw.KeyHome:         "Home",
	glfw.KeyEnd:          "End",
	glfw.KeyPageUp:       "PageUp",
	glfw.KeyPageDown:     "PageDown",
	glfw.KeyLeft:         "Left",
	glfw.KeyRight:        "Right",
	glfw.KeyUp:           "Up",
	glfw.KeyDown:         "Down",
	glfw.KeyLeftShift:    "Shift",
	glfw.KeyRightShift:   "Shift",
	glfw.KeyLeftControl:  "Ctrl",
	glfw.KeyRightControl: "Ctrl",
	glfw.KeyLeftAlt:      "Alt",
	glfw.KeyRightAlt:     "Alt",
	glfw.KeyMinus:        "Minus",
	glfw.KeyEqual:        "Equal",
	glfw.KeyKPAdd:        "Plus",
	glfw.KeyKPSubtract:   "Minus",
}

// KeyName returns the event name part for key, "" for keys that are not reported.
func KeyName(key glfw.Key) string {
	switch {
	case key >= glfw.KeyA && key <= glfw.KeyZ:
		return string(rune('A' + (key - glfw.KeyA)))
	case key >= glfw.Key0 && key <= glfw.Key9:
		return string(rune('0' + (key - glfw.Key0)))
	case key >= glfw.KeyF1 && key <= glfw.KeyF12:
		return fmt.Sprintf("F%d", key-glfw.KeyF1+1)
	}
	return glfwKeyNames[key]
}

func MouseButtonName(button glfw.MouseButton) string {
	switch button {
	case glfw.MouseButtonLeft:
		return "Left"
	case glfw.MouseButtonRight:
		return "Right"
	case glfw.MouseButtonMiddle:
		return "Middle"
	}
	return ""
}
