package pulse

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/oliverbestmann/webgpu/wgpu"
)

type ViewOptions struct {
	// Depth allocates a depth texture matching the surface size.
	Depth bool

	// Transparent composites the surface with the page behind it
	// using premultiplied alpha, if supported.
	Transparent bool
}

// View is the configured surface of a window.
type View struct {
	*Context

	surfaceConfig *wgpu.SurfaceConfiguration

	// depth texture to render to, same size as the surface
	depthTexture *Texture

	depth bool
}

func NewView(ctx *Context, opts ViewOptions) *View {
	st := &View{Context: ctx, depth: opts.Depth}

	// Print the available render formats
	caps := ctx.Surface.GetCapabilities(ctx.Adapter)
	slog.Info("Available surface formats", slog.Any("formats", caps.Formats))

	alphaMode := caps.AlphaModes[0]
	if opts.Transparent && slices.Contains(caps.AlphaModes, wgpu.CompositeAlphaModePremultiplied) {
		alphaMode = wgpu.CompositeAlphaModePremultiplied
	}

	st.surfaceConfig = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      wgpu.TextureFormatBGRA8Unorm,
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   alphaMode,

		// try to reduce input latency
		DesiredMaximumFrameLatency: 1,
	}

	return st
}

func (vs *View) Format() wgpu.TextureFormat {
	return vs.surfaceConfig.Format
}

func (vs *View) Size() (width, height uint32) {
	return vs.surfaceConfig.Width, vs.surfaceConfig.Height
}

func (vs *View) Release() {
	if vs.depthTexture != nil {
		vs.depthTexture.Release()
		vs.depthTexture = nil
	}
}

// Configure resizes the surface and recreates the depth texture.
func (vs *View) Configure(width, height uint32) error {
	vs.surfaceConfig.Width = width
	vs.surfaceConfig.Height = height
	vs.Surface.Configure(vs.Device, vs.surfaceConfig)

	vs.Release()

	if vs.depth {
		depthTexture, err := createDepthTexture(vs.Context, width, height, 1)
		if err != nil {
			return fmt.Errorf("create depth texture: %w", err)
		}

		vs.depthTexture = depthTexture
	}

	return nil
}

// CurrentTarget acquires the next surface texture. Call Present
// after rendering, or Release on the target if rendering failed.
func (vs *View) CurrentTarget() (*RenderTarget, error) {
	surface, err := vs.Surface.GetCurrentTexture()
	if err != nil {
		return nil, fmt.Errorf("get current texture: %w", err)
	}

	surfaceView, err := surface.CreateView(nil)
	if err != nil {
		surface.Release()
		return nil, fmt.Errorf("create surface view: %w", err)
	}

	return &RenderTarget{
		Color: WrapTexture(surface, surfaceView, nil),
		Depth: vs.depthTexture,
		owned: false,
	}, nil
}

func (vs *View) Present() {
	vs.Surface.Present()
}

func createDepthTexture(ctx *Context, width, height, sampleCount uint32) (*Texture, error) {
	return NewTextureFromDesc(ctx, &wgpu.TextureDescriptor{
		Label:     "DepthTexture",
		Usage:     wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatDepth32Float,
		MipLevelCount: 1,
		SampleCount:   sampleCount,
	})
}
