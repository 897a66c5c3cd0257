package viewer

import (
	"log"

	"github.com/pkg/errors"

	"github.com/mogaika/bsg_viewer/bsg"
	"github.com/mogaika/bsg_viewer/config"
	"github.com/mogaika/bsg_viewer/r3d"
	"github.com/mogaika/bsg_viewer/status"
)

// initializeScene builds the shaders and every object named by the config.
// Models go straight into the scene, the wand model and laser into their
// own collection that follows the wand.
func (v *Viewer) initializeScene() error {
	v.lights = bsg.NewLightList()
	for _, l := range v.cfg.Lights {
		v.lights.AddLight(l.Position, l.Color)
	}

	v.texture = bsg.NewTextureMgr()
	texType, err := bsg.ParseTextureType(v.cfg.Texture.Type)
	if err != nil {
		return err
	}
	if err := v.texture.ReadFile(texType, v.cfg.Path(v.cfg.Texture.File)); err != nil {
		return errors.Wrap(err, "Texture")
	}

	v.modelShader = bsg.NewShaderMgr(v.dev)
	if err := v.modelShader.AddLights(v.lights); err != nil {
		return err
	}
	if err := v.loadShaderSet(v.modelShader, ShaderSetModel, "lit-textured"); err != nil {
		return err
	}
	v.modelShader.AddTexture(v.texture)

	v.axesShader = bsg.NewShaderMgr(v.dev)
	if err := v.loadShaderSet(v.axesShader, ShaderSetAxes, "colored"); err != nil {
		return err
	}

	scene := bsg.NewScene()
	v.models = v.models[:0]
	for i, m := range v.cfg.Models {
		status.Progress(float32(i)/float32(len(v.cfg.Models)), "Loading %s", m.File)
		model, err := v.loadModel(m)
		if err != nil {
			return err
		}
		scene.AddObject(model)
		v.models = append(v.models, model)
	}
	v.activeId = 0

	scene.AddObject(bsg.NewAxes(v.axesShader, v.cfg.AxesLength))

	v.laser = bsg.NewLine(v.axesShader, v.cfg.LaserLength)
	v.laser.SetVisible(false)

	v.wandGroup = bsg.NewCollection(WandGroupName)
	if v.cfg.Wand.File != "" {
		v.wand, err = v.loadModel(v.cfg.Wand)
		if err != nil {
			return errors.Wrap(err, "Wand")
		}
		v.wandGroup.AddObject(v.wand)
	} else {
		log.Printf("[viewer] No wand model configured, showing the laser only")
	}
	v.wandGroup.AddObject(v.laser)
	scene.AddObject(v.wandGroup)

	v.scene = scene
	return nil
}

// loadShaderSet compiles the files configured under name, or the embedded
// fallback set when the config has none.
func (v *Viewer) loadShaderSet(sm *bsg.ShaderMgr, name string, fallback string) error {
	set, ok := v.cfg.Shaders[name]
	if !ok || (set.Vertex == "" && set.Fragment == "") {
		if err := sm.AddDefaultShaders(fallback); err != nil {
			return err
		}
	} else {
		for _, stage := range []struct {
			stage r3d.ShaderStage
			file  string
		}{
			{r3d.ShaderVertex, set.Vertex},
			{r3d.ShaderFragment, set.Fragment},
			{r3d.ShaderGeometry, set.Geometry},
		} {
			if stage.file == "" {
				continue
			}
			if err := sm.AddShader(stage.stage, v.cfg.Path(stage.file)); err != nil {
				return errors.Wrapf(err, "Shader set %q", name)
			}
		}
	}
	if err := sm.CompileShaders(); err != nil {
		return errors.Wrapf(err, "Shader set %q", name)
	}
	return nil
}

func (v *Viewer) loadModel(m config.Model) (*bsg.ObjModel, error) {
	model, err := bsg.NewObjModel(v.modelShader, v.cfg.Path(m.File), m.TexCoords)
	if err != nil {
		return nil, err
	}
	model.SetPosition(m.Position)
	model.SetRotation(m.Rotation[0], m.Rotation[1], m.Rotation[2])
	model.SetScale(m.Scale)
	model.SetVisible(!m.Hidden)
	return model, nil
}
