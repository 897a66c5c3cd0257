package vr

import (
	"github.com/go-gl/mathgl/mgl32"
)

type KeyAction int

const (
	KeyPress KeyAction = iota
	KeyRelease
	KeyRepeat
)

const (
	EventWandMove  = "Wand0_Move"
	KeyTransform   = "Transform"
	EventJoystickY = "Wand_Joystick_Y_Change"
	KeyAnalogValue = "AnalogValue"
)

const (
	orbitDegreesPerPx   = 0.3
	scrollAnalogPerStep = 0.5

	// cursor maps onto a wand plane this many units wide, in front of the origin
	wandPlaneSize  = 4
	wandPlaneDepth = -1
)

// DesktopInput turns keyboard and mouse activity into the events a tracked
// wand would send. Window callbacks feed it; Poll hands the events out once
// per frame.
type DesktopInput struct {
	keyMap map[string]string

	width, height int

	orbiting     bool
	haveCursor   bool
	lastX, lastY float64

	scrolled     bool
	joystickHeld bool

	queue []*Event
}

// NewDesktopInput takes aliases from key names to wand buttons,
// e.g. "Left" -> "Wand_Left".
func NewDesktopInput(keyMap map[string]string) *DesktopInput {
	return &DesktopInput{keyMap: keyMap, width: 1, height: 1}
}

func (in *DesktopInput) SetSize(width, height int) {
	if width > 0 && height > 0 {
		in.width, in.height = width, height
	}
}

func (in *DesktopInput) push(e *Event) { in.queue = append(in.queue, e) }

func (in *DesktopInput) Key(name string, action KeyAction) {
	suffix := "_Down"
	switch action {
	case KeyRelease:
		suffix = "_Up"
	case KeyRepeat:
		in.push(NewEvent("Kbd" + name + "_Repeat"))
		return
	}
	in.push(NewEvent("Kbd" + name + suffix))
	if alias, ok := in.keyMap[name]; ok {
		in.push(NewEvent(alias + suffix))
	}
}

// MouseButton takes "Left", "Right" or "Middle". The right button orbits the camera.
func (in *DesktopInput) MouseButton(name string, down bool) {
	if down {
		in.push(NewEvent("MouseBtn" + name + "_Down"))
	} else {
		in.push(NewEvent("MouseBtn" + name + "_Up"))
	}
	if name == "Right" {
		in.orbiting = down
	}
}

func (in *DesktopInput) CursorMove(x, y float64) {
	if in.orbiting && in.haveCursor {
		in.push(NewEvent(EventCameraOrbit).
			With(KeyYaw, float32(in.lastX-x)*orbitDegreesPerPx).
			With(KeyPitch, float32(y-in.lastY)*orbitDegreesPerPx))
	}
	in.lastX, in.lastY, in.haveCursor = x, y, true

	nx := float32(x/float64(in.width))*2 - 1
	ny := 1 - float32(y/float64(in.height))*2
	transform := mgl32.Translate3D(nx*wandPlaneSize/2, ny*wandPlaneSize/2, wandPlaneDepth)
	in.push(NewEvent(EventWandMove).With(KeyTransform, transform))
}

// Scroll pushes the joystick for one frame. Scrolling up reports a negative
// axis value, the way pushing a stick forward does.
func (in *DesktopInput) Scroll(dy float64) {
	v := mgl32.Clamp(float32(-dy)*scrollAnalogPerStep, -1, 1)
	in.push(NewEvent(EventJoystickY).With(KeyAnalogValue, v))
	in.scrolled = true
	in.joystickHeld = true
}

// Poll returns the events gathered since the last call. A joystick pushed by
// the scroll wheel is released on the first poll without scrolling.
func (in *DesktopInput) Poll() []*Event {
	if !in.scrolled && in.joystickHeld {
		in.push(NewEvent(EventJoystickY).With(KeyAnalogValue, float32(0)))
		in.joystickHeld = false
	}
	in.scrolled = false
	events := in.queue
	in.queue = nil
	return events
}
