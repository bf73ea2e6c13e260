package pulse

import (
	"fmt"

	"github.com/oliverbestmann/webgpu/wgpu"
)

// RenderTarget holds everything a render pass draws into.
// This is either an offscreen texture or the screen.
type RenderTarget struct {
	Color *Texture

	// optional depth buffer, same size as Color
	Depth *Texture

	// true if the textures were allocated for this target
	owned bool
}

type RenderTargetOptions struct {
	Label  string
	Format wgpu.TextureFormat
	Width  uint32
	Height uint32
	Depth  bool
}

// NewRenderTarget allocates an offscreen target that can be rendered to
// and later be sampled from.
func NewRenderTarget(ctx *Context, opts RenderTargetOptions) (*RenderTarget, error) {
	color, err := NewTexture(ctx, NewTextureOptions{
		Label:  opts.Label,
		Format: opts.Format,
		Width:  opts.Width,
		Height: opts.Height,
	})
	if err != nil {
		return nil, fmt.Errorf("create color texture: %w", err)
	}

	rt := &RenderTarget{Color: color, owned: true}

	if opts.Depth {
		rt.Depth, err = createDepthTexture(ctx, opts.Width, opts.Height, 1)
		if err != nil {
			color.Release()
			return nil, fmt.Errorf("create depth texture: %w", err)
		}
	}

	return rt, nil
}

func (rt *RenderTarget) Width() uint32 {
	return rt.Color.Width()
}

func (rt *RenderTarget) Height() uint32 {
	return rt.Color.Height()
}

// Release releases textures allocated by NewRenderTarget. For a screen target
// only the acquired surface texture is released.
func (rt *RenderTarget) Release() {
	rt.Color.Release()

	if !rt.owned {
		return
	}

	if rt.Depth != nil {
		rt.Depth.Release()
	}
}
