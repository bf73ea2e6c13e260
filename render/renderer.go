// Package render draws scene graphs with webgpu.
package render

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/oliverbestmann/rtcylinder/glm"
	"github.com/oliverbestmann/rtcylinder/pulse"
	"github.com/oliverbestmann/rtcylinder/pulse/commands"
	"github.com/oliverbestmann/rtcylinder/scene"
	"github.com/oliverbestmann/webgpu/wgpu"
)

// ErrFeedbackLoop is returned when a scene samples the target it is rendered into.
var ErrFeedbackLoop = errors.New("scene samples its own render target")

// BufferSizer resizes the drawing buffer backing the surface, e.g. the
// width and height attributes of a html canvas.
type BufferSizer interface {
	SetBufferSize(width, height uint32)
}

type Options struct {
	// color the screen and every render target is cleared with,
	// default fully transparent
	ClearColor pulse.Color

	// Format of render target textures, default wgpu.TextureFormatRGBA8Unorm
	TargetFormat wgpu.TextureFormat

	BufferSizer BufferSizer
}

func (opts Options) withDefaults() Options {
	if opts.TargetFormat == wgpu.TextureFormatUndefined {
		opts.TargetFormat = wgpu.TextureFormatRGBA8Unorm
	}

	return opts
}

type gpuTexture struct {
	texture *pulse.Texture
	version uint64
}

// Renderer renders scenes into render targets or to the surface of a window.
// It keeps gpu copies of geometries, textures and render targets and releases
// them once their scene counterpart is disposed.
type Renderer struct {
	ctx  *pulse.Context
	view *pulse.View
	mesh *commands.Mesh3dCommand
	opts Options

	viewport scene.Viewport

	// size the surface is currently configured with
	surfaceWidth, surfaceHeight uint32

	target *scene.RenderTarget

	geometries map[*scene.Geometry]*commands.MeshBuffers
	textures   map[*scene.Texture]*gpuTexture
	targets    map[*scene.RenderTarget]*pulse.RenderTarget

	// bound in place of textures that are not loaded yet
	blank *pulse.Texture

	draws []commands.DrawMesh3dOptions
}

func New(ctx *pulse.Context, opts Options) (*Renderer, error) {
	opts = opts.withDefaults()

	blank, err := pulse.NewTexture(ctx, pulse.NewTextureOptions{
		Label:  "Blank",
		Format: wgpu.TextureFormatRGBA8Unorm,
		Width:  1,
		Height: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("create blank texture: %w", err)
	}

	if err := blank.WritePixels(ctx, []byte{0, 0, 0, 0}); err != nil {
		blank.Release()
		return nil, fmt.Errorf("clear blank texture: %w", err)
	}

	return &Renderer{
		ctx:  ctx,
		view: pulse.NewView(ctx, pulse.ViewOptions{Depth: true, Transparent: true}),
		mesh: commands.NewMesh3dCommand(ctx),
		opts: opts,

		viewport: scene.Viewport{PixelRatio: 1},

		geometries: map[*scene.Geometry]*commands.MeshBuffers{},
		textures:   map[*scene.Texture]*gpuTexture{},
		targets:    map[*scene.RenderTarget]*pulse.RenderTarget{},

		blank: blank,
	}, nil
}

// SetSize sets the size of the surface in logical pixels. The surface is
// reconfigured on the next render to the screen.
func (r *Renderer) SetSize(width, height uint32) {
	r.viewport.Width = width
	r.viewport.Height = height
}

func (r *Renderer) SetPixelRatio(ratio float64) {
	r.viewport.PixelRatio = ratio
}

func (r *Renderer) SetRenderTarget(target *scene.RenderTarget) {
	r.target = target
}

// Render draws the scene as seen by camera into the current render target.
// Rendering to the screen presents the frame.
func (r *Renderer) Render(s *scene.Scene, camera *scene.PerspectiveCamera) error {
	if r.target != nil {
		target, err := r.renderTarget(r.target)
		if err != nil {
			return err
		}

		return r.renderTo(target, s, camera)
	}

	ok, err := r.configureSurface()
	if err != nil || !ok {
		return err
	}

	screen, err := r.view.CurrentTarget()
	if err != nil {
		return err
	}

	if err := r.renderTo(screen, s, camera); err != nil {
		screen.Release()
		return err
	}

	r.view.Present()

	// the surface owns a presented texture, only our view needs releasing
	screen.Color.SourceView().Release()

	return nil
}

func (r *Renderer) renderTo(target *pulse.RenderTarget, s *scene.Scene, camera *scene.PerspectiveCamera) error {
	// map the opengl style clip space of the camera to webgpu
	viewProjection := glm.DepthZeroToOne[float32]().Mul(camera.ViewProjectionMatrix())

	r.draws = r.draws[:0]

	for _, mesh := range s.Meshes {
		params, err := drawParamsOf(mesh.Material)
		if err != nil {
			return fmt.Errorf("mesh %q: %w", mesh.Name, err)
		}

		if params.texture != nil && params.texture.RenderTarget() == r.target && r.target != nil {
			return fmt.Errorf("mesh %q: %w", mesh.Name, ErrFeedbackLoop)
		}

		buffers, err := r.meshBuffers(mesh.Geometry)
		if err != nil {
			return fmt.Errorf("mesh %q: %w", mesh.Name, err)
		}

		texture, err := r.texture(params.texture)
		if err != nil {
			return fmt.Errorf("mesh %q: %w", mesh.Name, err)
		}

		r.draws = append(r.draws, commands.DrawMesh3dOptions{
			Mesh:          buffers,
			Texture:       texture,
			Transform:     viewProjection.Mul(mesh.ModelMatrix()),
			Fragment:      params.fragment,
			Grid:          params.grid,
			Premultiplied: params.premultiplied,
			CullMode:      params.cullMode,
			AddressMode:   params.addressMode,
		})
	}

	return r.mesh.Render(target, r.opts.ClearColor, r.draws)
}

// configureSurface resizes the surface to the drawing buffer size. It returns
// false if there is nothing to draw to.
func (r *Renderer) configureSurface() (bool, error) {
	width, height := r.viewport.DrawingBufferSize()
	if width == 0 || height == 0 {
		return false, nil
	}

	if width == r.surfaceWidth && height == r.surfaceHeight {
		return true, nil
	}

	slog.Debug("Resize surface",
		slog.Int("width", int(width)),
		slog.Int("height", int(height)),
		slog.Float64("pixelRatio", r.viewport.PixelRatio),
	)

	if r.opts.BufferSizer != nil {
		r.opts.BufferSizer.SetBufferSize(width, height)
	}

	if err := r.view.Configure(width, height); err != nil {
		return false, fmt.Errorf("resize surface: %w", err)
	}

	r.surfaceWidth = width
	r.surfaceHeight = height

	return true, nil
}

func (r *Renderer) renderTarget(target *scene.RenderTarget) (*pulse.RenderTarget, error) {
	if cached, ok := r.targets[target]; ok {
		return cached, nil
	}

	if target.Disposed() {
		return nil, errors.New("render target is disposed")
	}

	slog.Info("Allocate render target",
		slog.Int("width", int(target.Width)),
		slog.Int("height", int(target.Height)))

	rt, err := pulse.NewRenderTarget(r.ctx, pulse.RenderTargetOptions{
		Label:  "RenderTarget",
		Format: r.opts.TargetFormat,
		Width:  target.Width,
		Height: target.Height,
		Depth:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("create render target: %w", err)
	}

	r.targets[target] = rt

	target.OnDispose(func() {
		if cached, ok := r.targets[target]; ok {
			cached.Release()
			delete(r.targets, target)
		}
	})

	return rt, nil
}

func (r *Renderer) meshBuffers(geometry *scene.Geometry) (*commands.MeshBuffers, error) {
	if cached, ok := r.geometries[geometry]; ok {
		return cached, nil
	}

	vertices := make([]commands.MeshVertex, len(geometry.Vertices))
	for idx, v := range geometry.Vertices {
		vertices[idx] = commands.MeshVertex{Position: v.Position, UV: v.UV}
	}

	buffers, err := commands.NewMeshBuffers(r.ctx, geometry.Label, vertices, geometry.Indices)
	if err != nil {
		return nil, fmt.Errorf("upload geometry: %w", err)
	}

	r.geometries[geometry] = buffers

	geometry.OnDispose(func() {
		if cached, ok := r.geometries[geometry]; ok {
			cached.Release()
			delete(r.geometries, geometry)
		}
	})

	return buffers, nil
}

// texture returns the gpu texture to sample for t. Image textures are
// uploaded on first use and again after their image changed.
func (r *Renderer) texture(t *scene.Texture) (*pulse.Texture, error) {
	if t == nil {
		return r.blank, nil
	}

	if target := t.RenderTarget(); target != nil {
		rt, err := r.renderTarget(target)
		if err != nil {
			return nil, err
		}

		return rt.Color, nil
	}

	cached, ok := r.textures[t]
	if ok && cached.version == t.Version {
		return cached.texture, nil
	}

	if t.Image == nil {
		return r.blank, nil
	}

	uploaded, err := pulse.NewTextureFromImage(r.ctx, t.Image, textureFormatOf(t.ColorSpace), t.Name)
	if err != nil {
		return nil, fmt.Errorf("upload texture %q: %w", t.Name, err)
	}

	slog.Debug("Uploaded texture",
		slog.String("name", t.Name),
		slog.Uint64("version", t.Version),
		slog.String("colorSpace", t.ColorSpace.String()))

	if ok {
		cached.texture.Release()
		cached.texture = uploaded
		cached.version = t.Version
		return uploaded, nil
	}

	r.textures[t] = &gpuTexture{texture: uploaded, version: t.Version}

	t.OnDispose(func() {
		if cached, ok := r.textures[t]; ok {
			cached.texture.Release()
			delete(r.textures, t)
		}
	})

	return uploaded, nil
}

// Dispose releases all gpu resources held by the renderer.
func (r *Renderer) Dispose() {
	for key, buffers := range r.geometries {
		buffers.Release()
		delete(r.geometries, key)
	}

	for key, cached := range r.textures {
		cached.texture.Release()
		delete(r.textures, key)
	}

	for key, target := range r.targets {
		target.Release()
		delete(r.targets, key)
	}

	if r.blank != nil {
		r.blank.Release()
		r.blank = nil
	}

	r.mesh.Release()
	r.view.Release()
}

type drawParams struct {
	texture       *scene.Texture
	fragment      string
	grid          glm.Vec2f
	premultiplied bool
	cullMode      wgpu.CullMode
	addressMode   wgpu.AddressMode
}

func drawParamsOf(material scene.Material) (drawParams, error) {
	var params drawParams

	switch material := material.(type) {
	case *scene.BasicMaterial:
		params.texture = material.Map
		params.fragment = commands.FragmentBasic
		params.addressMode = wgpu.AddressModeClampToEdge

	case *scene.TiledMaterial:
		params.texture = material.Texture
		params.fragment = commands.FragmentTiled
		params.grid = commands.TileGrid(material.Rows, material.Cols)
		params.addressMode = wgpu.AddressModeRepeat

	default:
		return params, fmt.Errorf("unsupported material %T", material)
	}

	params.cullMode = cullModeOf(material.Base().Side)

	// render targets are written with premultiplied alpha
	params.premultiplied = params.texture != nil && params.texture.RenderTarget() != nil

	return params, nil
}

// cullModeOf returns the faces to discard to render only the given side.
func cullModeOf(side scene.Side) wgpu.CullMode {
	switch side {
	case scene.BackSide:
		return wgpu.CullModeFront
	case scene.DoubleSide:
		return wgpu.CullModeNone
	default:
		return wgpu.CullModeBack
	}
}

func textureFormatOf(colorSpace scene.ColorSpace) wgpu.TextureFormat {
	if colorSpace == scene.SRGBColorSpace {
		return wgpu.TextureFormatRGBA8UnormSrgb
	}

	return wgpu.TextureFormatRGBA8Unorm
}
