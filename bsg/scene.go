package bsg

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mogaika/bsg_viewer/r3d"
	"github.com/pkg/errors"
)

// Scene is the root collection together with the camera that looks at it.
type Scene struct {
	root   *Collection
	camera r3d.LookAtCamera

	fov      float32 // radians
	aspect   float32
	nearClip float32
	farClip  float32
}

func NewScene() *Scene {
	return &Scene{
		root: NewCollection("root"),
		camera: r3d.LookAtCamera{
			Position: mgl32.Vec3{10, 10, 10},
			LookAt:   mgl32.Vec3{0, 0, 0},
		},
		fov:      mgl32.DegToRad(45),
		aspect:   1,
		nearClip: 0.1,
		farClip:  100,
	}
}

func (s *Scene) Root() *Collection { return s.root }

// AddObject adds d to the root collection and returns the name used.
func (s *Scene) AddObject(d Drawable) string {
	return s.root.AddObject(d)
}

func (s *Scene) SetCameraPosition(p mgl32.Vec3) { s.camera.Position = p }
func (s *Scene) SetLookAtPosition(p mgl32.Vec3) { s.camera.LookAt = p }
func (s *Scene) CameraPosition() mgl32.Vec3     { return s.camera.Position }
func (s *Scene) LookAtPosition() mgl32.Vec3     { return s.camera.LookAt }

// SetPerspective sets the projection. Fov is in radians.
func (s *Scene) SetPerspective(fov, aspect, nearClip, farClip float32) {
	s.fov = fov
	s.aspect = aspect
	s.nearClip = nearClip
	s.farClip = farClip
}

func (s *Scene) AddToCameraViewAngle(horizAngle, vertAngle float32) {
	s.camera.AddToViewAngle(horizAngle, vertAngle)
}

func (s *Scene) ProjMatrix() mgl32.Mat4 {
	return mgl32.Perspective(s.fov, s.aspect, s.nearClip, s.farClip)
}

func (s *Scene) ViewMatrix() mgl32.Mat4 {
	return s.camera.GetViewMatrix()
}

// Find resolves a slash separated path of names below the root collection,
// e.g. "controllers/wand0".
func (s *Scene) Find(path string) (Drawable, error) {
	want := strings.Split(strings.Trim(path, "/"), "/")
	var found Drawable
	Walk(s.root, func(p []string, d Drawable) bool {
		if found != nil {
			return false
		}
		// p[0] is the root collection itself
		rel := p[1:]
		if len(rel) > len(want) {
			return false
		}
		for i := range rel {
			if rel[i] != want[i] {
				return false
			}
		}
		if len(rel) == len(want) {
			found = d
			return false
		}
		return true
	})
	if found == nil {
		return nil, errors.Errorf("what object is %s?", path)
	}
	return found, nil
}

func (s *Scene) Prepare() error { return s.root.Prepare() }
func (s *Scene) Load()          { s.root.Load() }

func (s *Scene) Draw(view, proj mgl32.Mat4) {
	s.root.Draw(view, proj)
}
