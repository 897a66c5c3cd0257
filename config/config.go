package config

import (
	"io/ioutil"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	VSync  bool   `yaml:"vsync"`
}

// Camera describes the host camera. Angles are in degrees.
type Camera struct {
	Target   mgl32.Vec3 `yaml:"target"`
	Distance float32    `yaml:"distance"`
	Pitch    float32    `yaml:"pitch"`
	Yaw      float32    `yaml:"yaw"`
	Fov      float32    `yaml:"fov"`
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
}

type Web struct {
	// Empty address disables the web server
	Addr string `yaml:"addr"`
}

type Light struct {
	Position mgl32.Vec4 `yaml:"position"`
	Color    mgl32.Vec4 `yaml:"color"`
}

type Texture struct {
	// png, bmp, dds or checkerboard
	Type string `yaml:"type"`
	File string `yaml:"file"`
}

// ShaderSet lists shader files. Empty paths select the embedded sources.
type ShaderSet struct {
	Vertex   string `yaml:"vertex"`
	Fragment string `yaml:"fragment"`
	Geometry string `yaml:"geometry"`
}

// Model places one OBJ file in the scene. Rotation holds euler angles in radians.
type Model struct {
	File      string     `yaml:"file"`
	TexCoords bool       `yaml:"texcoords"`
	Position  mgl32.Vec3 `yaml:"position"`
	Rotation  mgl32.Vec3 `yaml:"rotation"`
	Scale     mgl32.Vec3 `yaml:"scale"`
	Hidden    bool       `yaml:"hidden"`
}

type Config struct {
	Window      Window               `yaml:"window"`
	Camera      Camera               `yaml:"camera"`
	Web         Web                  `yaml:"web"`
	Encoding    string               `yaml:"encoding"`
	ClearColor  mgl32.Vec4           `yaml:"clear_color"`
	LineWidth   float32              `yaml:"line_width"`
	Lights      []Light              `yaml:"lights"`
	Texture     Texture              `yaml:"texture"`
	Shaders     map[string]ShaderSet `yaml:"shaders"`
	Models      []Model              `yaml:"models"`
	Wand        Model                `yaml:"wand"`
	AxesLength  float32              `yaml:"axes_length"`
	LaserLength float32              `yaml:"laser_length"`
	KeyMap      map[string]string    `yaml:"keymap"`

	dir string
}

func Default() *Config {
	return &Config{
		Window: Window{Title: "bsg viewer", Width: 1024, Height: 768, VSync: true},
		Camera: Camera{Distance: 10, Pitch: 20, Fov: 60, Near: 0.1, Far: 1000},
		Encoding:   GetEncoding().String(),
		ClearColor: mgl32.Vec4{0.1, 0.1, 0.1, 1.0},
		LineWidth:  4,
		Lights: []Light{{
			Position: mgl32.Vec4{0, 0, 0, 1},
			Color:    mgl32.Vec4{1, 1, 1, 0},
		}},
		Texture: Texture{Type: "checkerboard"},
		Shaders: map[string]ShaderSet{},
		Wand: Model{
			Position: mgl32.Vec3{0, 0, -0.3},
			Rotation: mgl32.Vec3{-1.5708, 0, 1.5708},
			Scale:    mgl32.Vec3{0.1, 0.1, 0.1},
		},
		AxesLength:  100,
		LaserLength: 100,
		KeyMap: map[string]string{
			"Left":  "Wand_Left",
			"Right": "Wand_Right",
			"Up":    "Wand_Up",
			"Down":  "Wand_Down",
			"Enter": "Wand_Bottom_Trigger",
		},
	}
}

// Load reads a yaml config on top of Default. Scalars and lists replace the
// defaults, while the keymap and shaders maps merge into them entry by entry.
// An entry with an empty value removes the default of that name.
func Load(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot read config %q", path)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "Config %q", path)
	}
	c.dir = filepath.Dir(path)
	return c, nil
}

func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrap(err, "Unmarshaling error")
	}
	if err := c.normalize(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) normalize() error {
	if err := SetEncoding(c.Encoding); err != nil {
		return err
	}
	for key, event := range c.KeyMap {
		if event == "" {
			delete(c.KeyMap, key)
		}
	}
	for name, set := range c.Shaders {
		if set == (ShaderSet{}) {
			delete(c.Shaders, name)
		}
	}
	if len(c.Models) == 0 {
		return errors.Errorf("No models configured")
	}
	for i := range c.Models {
		if c.Models[i].File == "" {
			return errors.Errorf("Model %d has no file", i)
		}
		if c.Models[i].Scale == (mgl32.Vec3{}) {
			c.Models[i].Scale = mgl32.Vec3{1, 1, 1}
		}
	}
	if c.Wand.Scale == (mgl32.Vec3{}) {
		c.Wand.Scale = mgl32.Vec3{1, 1, 1}
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Errorf("Invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return errors.Errorf("Invalid clip planes %v..%v", c.Camera.Near, c.Camera.Far)
	}
	return nil
}

// Path resolves p relative to the directory of the config file.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.dir, p)
}
