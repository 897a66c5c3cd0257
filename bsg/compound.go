package bsg

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mogaika/bsg_viewer/r3d"
	"github.com/pkg/errors"
)

const (
	ModelMatrixUniform  = "modelMatrix"
	NormalMatrixUniform = "normalMatrix"
	ViewMatrixUniform   = "viewMatrix"
	ProjMatrixUniform   = "projMatrix"
)

// Compound is a group of DrawableObj sharing one shader and one model matrix.
type Compound struct {
	Node

	shader  *ShaderMgr
	objects []*DrawableObj

	modelMatrixName  string
	normalMatrixName string
	viewMatrixName   string
	projMatrixName   string

	modelMatrixId  int32
	normalMatrixId int32
	viewMatrixId   int32
	projMatrixId   int32

	totalModelMatrix mgl32.Mat4
	normalMatrix     mgl32.Mat4
}

var _ Drawable = (*Compound)(nil)

func NewCompound(name string, shader *ShaderMgr) *Compound {
	c := &Compound{
		shader:           shader,
		modelMatrixName:  ModelMatrixUniform,
		normalMatrixName: NormalMatrixUniform,
		viewMatrixName:   ViewMatrixUniform,
		projMatrixName:   ProjMatrixUniform,
		totalModelMatrix: mgl32.Ident4(),
		normalMatrix:     mgl32.Ident4(),
	}
	c.init(name)
	return c
}

func (c *Compound) Base() *Node { return &c.Node }

func (c *Compound) Shader() *ShaderMgr { return c.shader }

func (c *Compound) AddObject(o *DrawableObj) {
	c.objects = append(c.objects, o)
}

func (c *Compound) Objects() []*DrawableObj { return c.objects }

// TotalModelMatrix is the model matrix captured by the last Load.
func (c *Compound) TotalModelMatrix() mgl32.Mat4 { return c.totalModelMatrix }

func (c *Compound) Prepare() error {
	if !c.shader.Compiled() {
		return errors.Errorf("Compound %q: shader is not compiled", c.name)
	}
	c.shader.UseProgram()

	c.modelMatrixId = c.shader.UniformID(c.modelMatrixName)
	c.normalMatrixId = c.shader.UniformID(c.normalMatrixName)
	c.viewMatrixId = c.shader.UniformID(c.viewMatrixName)
	c.projMatrixId = c.shader.UniformID(c.projMatrixName)

	for i, o := range c.objects {
		if err := o.Prepare(c.shader); err != nil {
			return errors.Wrapf(err, "Compound %q object %d", c.name, i)
		}
	}
	return nil
}

func (c *Compound) Load() {
	c.shader.UseProgram()
	c.shader.Load()

	c.totalModelMatrix = c.ModelMatrix()

	for _, o := range c.objects {
		o.Load()
	}
}

func (c *Compound) Draw(view, proj mgl32.Mat4) {
	if !c.visible {
		return
	}
	dev := c.shader.Device()

	c.shader.UseProgram()
	c.shader.Draw()

	dev.UniformMatrix4(c.modelMatrixId, c.totalModelMatrix)
	c.normalMatrix = r3d.NormalMatrix(view, c.totalModelMatrix)
	dev.UniformMatrix4(c.normalMatrixId, c.normalMatrix)
	dev.UniformMatrix4(c.viewMatrixId, view)
	dev.UniformMatrix4(c.projMatrixId, proj)

	for _, o := range c.objects {
		o.Draw()
	}
}

// Release frees the buffers of every object.
func (c *Compound) Release() {
	for _, o := range c.objects {
		o.Release()
	}
}
