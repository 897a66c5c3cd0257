// Package viewer shows a set of OBJ models and lets a tracked wand (or the
// mouse standing in for one) grab, scale and hide them.
package viewer

import (
	"log"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/bsg_viewer/bsg"
	"github.com/mogaika/bsg_viewer/config"
	"github.com/mogaika/bsg_viewer/r3d"
	"github.com/mogaika/bsg_viewer/status"
	"github.com/mogaika/bsg_viewer/utils"
	"github.com/mogaika/bsg_viewer/vr"
)

const (
	ShaderSetModel = "model"
	ShaderSetAxes  = "axes"

	WandGroupName = "wand"
)

const (
	controllerPrefix   = "HTC_Controller_1"
	controllerPressed  = "/HTC_Controller_1/State/Axis1Button_Pressed"
	controllerPose     = "/HTC_Controller_1/Pose"
	joystickDeadZone   = 0.05
	joystickScaleSpeed = 0.005
	minModelScale      = 0.01
	maxModelScale      = 5
)

// Viewer implements vr.App. All fields are owned by the render thread.
type Viewer struct {
	// Verbose dumps every event except frame starts and idle wand moves.
	Verbose bool

	cfg     *config.Config
	dev     r3d.Device
	runtime vr.Runtime

	scene       *bsg.Scene
	lights      *bsg.LightList
	texture     *bsg.TextureMgr
	modelShader *bsg.ShaderMgr
	axesShader  *bsg.ShaderMgr
	models      []bsg.Drawable
	wandGroup   *bsg.Collection
	wand        *bsg.ObjModel
	laser       *bsg.Compound

	activeId         int
	moving           bool
	showLaser        bool
	toggleVisibility bool
	scaleChange      float32

	wandDrag        mgl32.Mat4
	lastPose        mgl32.Mat4
	lastTranslation mgl32.Vec3
	lastRotation    mgl32.Quat
}

var _ vr.App = (*Viewer)(nil)

func NewViewer(cfg *config.Config, dev r3d.Device, runtime vr.Runtime) *Viewer {
	return &Viewer{
		cfg:          cfg,
		dev:          dev,
		runtime:      runtime,
		wandDrag:     mgl32.Ident4(),
		lastPose:     mgl32.Ident4(),
		lastRotation: mgl32.QuatIdent(),
	}
}

// Scene returns nil until the first frame has built it.
func (v *Viewer) Scene() *bsg.Scene { return v.scene }

func (v *Viewer) ActiveModel() bsg.Drawable {
	if len(v.models) == 0 {
		return nil
	}
	return v.models[v.activeId]
}

func (v *Viewer) Moving() bool               { return v.moving }
func (v *Viewer) ShowLaser() bool            { return v.showLaser }
func (v *Viewer) ScaleChange() float32       { return v.scaleChange }
func (v *Viewer) WandDrag() mgl32.Mat4       { return v.wandDrag }
func (v *Viewer) WandGroup() *bsg.Collection { return v.wandGroup }

func (v *Viewer) OnVREvent(e *vr.Event) {
	if v.Verbose && traced(e.Name, v.moving) {
		utils.LogDump(e)
	}

	if strings.HasPrefix(e.Name, controllerPrefix) {
		pressed, err := e.Int(controllerPressed)
		v.moving = err == nil && pressed != 0

		if e.Exists(controllerPose) {
			if pose, err := e.Matrix(controllerPose); err != nil {
				log.Printf("[viewer] %s: %v", e.Name, err)
			} else {
				v.trackWand(pose)
			}
		}
	}

	if e.Name == vr.EventWandMove {
		if transform, err := e.Matrix(vr.KeyTransform); err != nil {
			log.Printf("[viewer] %s: %v", e.Name, err)
		} else {
			v.trackWand(transform)
		}
	}

	switch e.Name {
	case "KbdEsc_Down", "Wand_Select_Down":
		status.Info("Shutting down")
		v.runtime.Shutdown()
	case "MouseBtnLeft_Down", "Wand_Bottom_Trigger_Down", "Wand_Top_Trigger_Down":
		v.moving = true
	case "MouseBtnLeft_Up", "Wand_Bottom_Trigger_Up", "Wand_Top_Trigger_Up":
		v.moving = false
	case "Wand_Up_Down":
		v.showLaser = true
	case "Wand_Up_Up":
		v.showLaser = false
	case "Wand_Left_Down":
		v.selectModel(-1)
	case "Wand_Right_Down":
		v.selectModel(1)
	case "Wand_Down_Down":
		v.toggleVisibility = true
	case vr.EventJoystickY:
		value, err := e.Float(vr.KeyAnalogValue)
		if err != nil {
			log.Printf("[viewer] %s: %v", e.Name, err)
			return
		}
		if mgl32.Abs(value) > joystickDeadZone {
			v.scaleChange = -value * joystickScaleSpeed
		} else {
			v.scaleChange = 0
		}
	}
}

func traced(name string, moving bool) bool {
	if name == vr.EventWandMove {
		return moving
	}
	return name != vr.EventFrameStart && !strings.HasPrefix(name, "HTC")
}

// trackWand remembers the wand pose. While moving, the change since the
// previous pose is accumulated into the drag applied on the next render.
func (v *Viewer) trackWand(pose mgl32.Mat4) {
	translation, rotation, _ := r3d.Decompose(pose)
	if v.moving {
		change := pose.Mul4(v.lastPose.Inv())
		v.wandDrag = change.Mul4(v.wandDrag)
	}
	v.lastRotation = rotation
	v.lastTranslation = translation
	v.lastPose = pose
}

func (v *Viewer) selectModel(step int) {
	if len(v.models) == 0 {
		return
	}
	v.activeId += step
	if v.activeId < 0 {
		v.activeId = len(v.models) - 1
	} else if v.activeId >= len(v.models) {
		v.activeId = 0
	}
	status.Info("Active model: %s", v.models[v.activeId].Base().Name())
}

func (v *Viewer) OnRenderGraphicsContext(state *vr.GraphicsState) error {
	if !state.InitialRenderCall {
		return nil
	}
	if err := v.initializeScene(); err != nil {
		status.Error("Failed to build scene: %v", err)
		return err
	}
	if err := v.scene.Prepare(); err != nil {
		status.Error("Failed to prepare scene: %v", err)
		return errors.Wrap(err, "Prepare scene")
	}
	status.Info("Scene ready: %d models", len(v.models))
	return nil
}

func (v *Viewer) OnRenderGraphics(state *vr.GraphicsState) {
	if !v.runtime.IsRunning() || v.scene == nil {
		return
	}

	active := v.ActiveModel()
	if active != nil {
		node := active.Base()
		if v.toggleVisibility {
			node.ToggleVisible()
			v.toggleVisibility = false
		}

		node.SetTransformMatrix(v.wandDrag)

		newScale := node.Scale().X() + v.scaleChange
		if newScale > minModelScale && newScale < maxModelScale {
			node.SetScalef(newScale)
		}
	}

	v.wandGroup.SetPosition(v.lastTranslation)
	v.wandGroup.SetOrientation(v.lastRotation.Inverse())
	v.laser.SetVisible(v.showLaser)

	v.dev.Clear()
	v.scene.Load()
	v.scene.Draw(state.ViewMatrix, state.ProjectionMatrix)

	if active != nil && v.wandDrag != mgl32.Ident4() {
		log.Printf("[viewer] %s", r3d.FormatMat(active.Base().Name(), active.Base().ModelMatrix()))
	}
	v.wandDrag = mgl32.Ident4()
}
