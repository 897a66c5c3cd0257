package bsg

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"io/ioutil"
	"strings"

	"github.com/mogaika/bsg_viewer/r3d"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

type TextureType int

const (
	TextureDDS TextureType = iota
	TextureBMP
	TexturePNG
	TextureCHK
)

const TextureSamplerUniform = "textureImage"

func (t TextureType) String() string {
	switch t {
	case TextureDDS:
		return "dds"
	case TextureBMP:
		return "bmp"
	case TexturePNG:
		return "png"
	case TextureCHK:
		return "checkerboard"
	default:
		return "unknown"
	}
}

// ParseTextureType maps config names to texture types.
func ParseTextureType(name string) (TextureType, error) {
	switch strings.ToLower(name) {
	case "dds":
		return TextureDDS, nil
	case "bmp":
		return TextureBMP, nil
	case "png":
		return TexturePNG, nil
	case "chk", "checkerboard":
		return TextureCHK, nil
	default:
		return -1, errors.Errorf("What texture type is %q?", name)
	}
}

// png IHDR layout: signature(8) length(4) type(4) width(4) height(4) depth(1) colortype(1)
const (
	pngDepthOffset     = 24
	pngColorTypeOffset = 25

	pngColorRGB  = 2
	pngColorRGBA = 6
)

// TextureMgr holds one 2D texture bound to texture unit 0.
// Pixels are decoded by ReadFile and uploaded on the first Load.
type TextureMgr struct {
	image    r3d.TextureImage
	fileName string

	samplerName string
	samplers    map[uint32]int32
	textureId   uint32
	uploaded    bool

	dev r3d.Device
}

func NewTextureMgr() *TextureMgr {
	return &TextureMgr{samplerName: TextureSamplerUniform, samplers: make(map[uint32]int32)}
}

func (tm *TextureMgr) ReadFile(t TextureType, fileName string) error {
	var img r3d.TextureImage
	var err error

	switch t {
	case TextureDDS:
		return errors.Errorf("still working on DDS, try PNG")
	case TextureBMP:
		img, err = readBMP(fileName)
	case TexturePNG:
		img, err = readPNG(fileName)
	case TextureCHK:
		img = CheckerBoard(64, 8)
	default:
		return errors.Errorf("What texture type is this? (%d)", int(t))
	}
	if err != nil {
		return err
	}

	if tm.uploaded && tm.dev != nil {
		tm.dev.DeleteTexture(tm.textureId)
	}
	tm.image = img
	tm.fileName = fileName
	tm.uploaded = false
	return nil
}

func (tm *TextureMgr) Width() int              { return tm.image.Width }
func (tm *TextureMgr) Height() int             { return tm.image.Height }
func (tm *TextureMgr) Image() r3d.TextureImage { return tm.image }
func (tm *TextureMgr) FileName() string        { return tm.fileName }

// Load uploads the pixels once and looks up the sampler uniform.
// Program must be in use.
func (tm *TextureMgr) Load(dev r3d.Device, program uint32) {
	tm.dev = dev
	if !tm.uploaded && tm.image.Pixels != nil {
		tm.textureId = dev.CreateTexture(tm.image)
		tm.uploaded = true
	}
	tm.samplers[program] = dev.UniformLocation(program, tm.samplerName)
}

// Draw binds the texture to unit 0 and points the sampler of program at it.
func (tm *TextureMgr) Draw(program uint32) {
	if tm.dev == nil || !tm.uploaded {
		return
	}
	sampler, ok := tm.samplers[program]
	if !ok {
		return
	}
	tm.dev.BindTexture(0, tm.textureId)
	tm.dev.Uniform1i(sampler, 0)
}

// CheckerBoard builds a size x size RGB image of numFields x numFields squares.
func CheckerBoard(size, numFields int) r3d.TextureImage {
	fieldWidth := size / numFields
	if fieldWidth == 0 {
		fieldWidth = 1
	}
	pixels := make([]byte, size*size*3)
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			c := byte(31)
			if (i/fieldWidth)%2 == (j/fieldWidth)%2 {
				c = 255
			}
			off := (i*size + j) * 3
			pixels[off+0] = c
			pixels[off+1] = c
			pixels[off+2] = c
		}
	}
	return r3d.TextureImage{Width: size, Height: size, Format: r3d.TextureRGB, Pixels: pixels}
}

func readPNG(fileName string) (r3d.TextureImage, error) {
	data, err := ioutil.ReadFile(fileName)
	if err != nil {
		return r3d.TextureImage{}, errors.Wrapf(err, "Cannot open %q", fileName)
	}
	if _, err := png.DecodeConfig(bytes.NewReader(data)); err != nil {
		return r3d.TextureImage{}, errors.Wrapf(err, "%q is not recognized as a PNG file", fileName)
	}
	if data[pngDepthOffset] != 8 {
		return r3d.TextureImage{}, errors.Errorf("%q: only 8 bit PNG is supported, got %d bit", fileName, data[pngDepthOffset])
	}

	format := r3d.TextureRGB
	switch data[pngColorTypeOffset] {
	case pngColorRGB:
	case pngColorRGBA:
		format = r3d.TextureRGBA
	default:
		return r3d.TextureImage{}, errors.Errorf("%q: unsupported PNG color type %d, use RGB or RGBA",
			fileName, data[pngColorTypeOffset])
	}
	return decodeImage(fileName, bytes.NewReader(data), png.Decode, format)
}

func readBMP(fileName string) (r3d.TextureImage, error) {
	data, err := ioutil.ReadFile(fileName)
	if err != nil {
		return r3d.TextureImage{}, errors.Wrapf(err, "Cannot open %q", fileName)
	}
	return decodeImage(fileName, bytes.NewReader(data), bmp.Decode, r3d.TextureRGB)
}

func decodeImage(fileName string, r io.Reader, decode func(io.Reader) (image.Image, error), format r3d.TextureFormat) (r3d.TextureImage, error) {
	img, err := decode(r)
	if err != nil {
		return r3d.TextureImage{}, errors.Wrapf(err, "Cannot decode %q", fileName)
	}
	return ImageToTexture(img, format), nil
}

// ImageToTexture converts img into packed rows, bottom row first as GL expects.
func ImageToTexture(img image.Image, format r3d.TextureFormat) r3d.TextureImage {
	b := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)

	w, h := b.Dx(), b.Dy()
	comps := format.Components()
	pixels := make([]byte, w*h*comps)
	for y := 0; y < h; y++ {
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		dst := pixels[(h-1-y)*w*comps : (h-y)*w*comps]
		if comps == 4 {
			copy(dst, src)
			continue
		}
		for x := 0; x < w; x++ {
			copy(dst[x*3:x*3+3], src[x*4:x*4+3])
		}
	}
	return r3d.TextureImage{Width: w, Height: h, Format: format, Pixels: pixels}
}
