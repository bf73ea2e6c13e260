package scene

import "image"

type ColorSpace uint8

const (
	// NoColorSpace uploads pixel values as they are.
	NoColorSpace ColorSpace = iota

	// SRGBColorSpace marks pixel values as srgb encoded. They are converted
	// to linear rgb when sampled.
	SRGBColorSpace
)

func (c ColorSpace) String() string {
	switch c {
	case SRGBColorSpace:
		return "srgb"
	default:
		return "none"
	}
}

type TextureStatus uint8

const (
	TexturePending TextureStatus = iota
	TextureLoaded
	TextureFailed
)

func (s TextureStatus) String() string {
	switch s {
	case TexturePending:
		return "pending"
	case TextureLoaded:
		return "loaded"
	case TextureFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Texture is something a material can sample from. It is either backed by an
// image or it is the color output of a RenderTarget.
type Texture struct {
	disposer

	Name       string
	ColorSpace ColorSpace

	// Image holds the pixels of an image backed texture. It is nil for render
	// target textures and for textures that are still loading.
	Image image.Image

	Status TextureStatus
	Err    error

	// Version is incremented each time Image changes. Renderers use it to
	// detect that a texture needs to be uploaded again.
	Version uint64

	target *RenderTarget
}

func NewTexture(name string) *Texture {
	return &Texture{Name: name}
}

// SetImage marks the texture as loaded with the given pixels.
func (t *Texture) SetImage(img image.Image) {
	t.Image = img
	t.Status = TextureLoaded
	t.Err = nil
	t.Version++
}

// SetError marks the texture as failed. The texture keeps rendering blank.
func (t *Texture) SetError(err error) {
	t.Status = TextureFailed
	t.Err = err
}

// RenderTarget returns the target this texture is the output of,
// or nil for image backed textures.
func (t *Texture) RenderTarget() *RenderTarget {
	return t.target
}

// RenderTarget is an offscreen color buffer of a fixed size. A render pass can
// draw into it and materials can sample it through Texture.
type RenderTarget struct {
	disposer

	Width  uint32
	Height uint32

	Texture *Texture
}

func NewRenderTarget(width, height uint32) *RenderTarget {
	rt := &RenderTarget{Width: width, Height: height}

	rt.Texture = &Texture{
		Name:   "RenderTarget",
		Status: TextureLoaded,
		target: rt,
	}

	return rt
}

// Dispose disposes the target and its texture.
func (rt *RenderTarget) Dispose() {
	rt.disposer.Dispose()
	rt.Texture.Dispose()
}
