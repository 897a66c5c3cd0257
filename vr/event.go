// Package vr is the contract between an application and the host that owns
// the window, the input devices and the frame loop.
package vr

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

const (
	EventFrameStart   = "FrameStart"
	KeyElapsedSeconds = "ElapsedSeconds"

	// EventCameraOrbit turns the host camera by Yaw and Pitch degrees.
	EventCameraOrbit = "Camera_Orbit"
	KeyYaw           = "Yaw"
	KeyPitch         = "Pitch"
)

// Event is a named input or timing event carrying a data index.
// Keys are either relative to the event ("Pose", "State/Axis1Button_Pressed")
// or absolute ("/HTC_Controller_1/Pose").
type Event struct {
	Name string                 `json:"name"`
	Data map[string]interface{} `json:"data,omitempty"`
}

func NewEvent(name string) *Event {
	return &Event{Name: name, Data: make(map[string]interface{})}
}

// With sets key and returns the event, for building events inline.
func (e *Event) With(key string, value interface{}) *Event {
	if e.Data == nil {
		e.Data = make(map[string]interface{})
	}
	e.Data[e.key(key)] = value
	return e
}

func (e *Event) key(k string) string {
	prefix := "/" + e.Name + "/"
	if strings.HasPrefix(k, prefix) {
		return k[len(prefix):]
	}
	return strings.TrimPrefix(k, "/")
}

// UnmarshalJSON stores data keys in relative form, so trackers may send
// either "Pose" or "/HTC_Controller_1/Pose".
func (e *Event) UnmarshalJSON(b []byte) error {
	var raw struct {
		Name string                 `json:"name"`
		Data map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	e.Name = raw.Name
	e.Data = make(map[string]interface{}, len(raw.Data))
	for k, v := range raw.Data {
		e.Data[e.key(k)] = v
	}
	return nil
}

func (e *Event) Exists(key string) bool {
	_, ok := e.Data[e.key(key)]
	return ok
}

func (e *Event) Value(key string) (interface{}, bool) {
	v, ok := e.Data[e.key(key)]
	return v, ok
}

// Keys lists the data index in absolute form, sorted.
func (e *Event) Keys() []string {
	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, "/"+e.Name+"/"+k)
	}
	sort.Strings(keys)
	return keys
}

func toFloat(v interface{}) (float32, bool) {
	switch n := v.(type) {
	case float32:
		return n, true
	case float64:
		return float32(n), true
	case int:
		return float32(n), true
	case int32:
		return float32(n), true
	case int64:
		return float32(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case json.Number:
		f, err := n.Float64()
		return float32(f), err == nil
	}
	return 0, false
}

func (e *Event) Float(key string) (float32, error) {
	v, ok := e.Value(key)
	if !ok {
		return 0, errors.Errorf("Event %s has no %q", e.Name, key)
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, errors.Errorf("Event %s: %q is %T, not a number", e.Name, key, v)
	}
	return f, nil
}

// Int truncates numeric values toward zero.
func (e *Event) Int(key string) (int, error) {
	f, err := e.Float(key)
	return int(f), err
}

func (e *Event) FloatArray(key string) ([]float32, error) {
	v, ok := e.Value(key)
	if !ok {
		return nil, errors.Errorf("Event %s has no %q", e.Name, key)
	}
	switch arr := v.(type) {
	case []float32:
		return arr, nil
	case mgl32.Mat4:
		return arr[:], nil
	case []float64:
		out := make([]float32, len(arr))
		for i, f := range arr {
			out[i] = float32(f)
		}
		return out, nil
	case []interface{}:
		out := make([]float32, len(arr))
		for i, item := range arr {
			f, ok := toFloat(item)
			if !ok {
				return nil, errors.Errorf("Event %s: %q[%d] is %T, not a number", e.Name, key, i, item)
			}
			out[i] = f
		}
		return out, nil
	}
	return nil, errors.Errorf("Event %s: %q is %T, not an array", e.Name, key, v)
}

// Matrix reads 16 floats in column major order.
func (e *Event) Matrix(key string) (mgl32.Mat4, error) {
	arr, err := e.FloatArray(key)
	if err != nil {
		return mgl32.Mat4{}, err
	}
	if len(arr) != 16 {
		return mgl32.Mat4{}, errors.Errorf("Event %s: %q has %d values, matrix needs 16", e.Name, key, len(arr))
	}
	var m mgl32.Mat4
	copy(m[:], arr)
	return m, nil
}

func (e *Event) String() string {
	var sb strings.Builder
	sb.WriteString(e.Name)
	for _, k := range e.Keys() {
		v, _ := e.Value(k)
		fmt.Fprintf(&sb, " %s=%v", k, v)
	}
	return sb.String()
}
