// Package canvas renders a rotating cylinder whose surface shows the output
// of offscreen render passes. Each frame first renders one textured plane per
// layer into its own render target and then the main scene that samples those
// targets.
package canvas

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/oliverbestmann/rtcylinder/glm"
	"github.com/oliverbestmann/rtcylinder/loader"
	"github.com/oliverbestmann/rtcylinder/scene"
)

var (
	ErrNoSurface  = errors.New("canvas: no surface to render to")
	ErrNoRenderer = errors.New("canvas: no renderer")
	ErrZeroSize   = errors.New("canvas: surface has zero size")
	ErrDisposed   = errors.New("canvas: already disposed")
)

// Host is the surface a Canvas is displayed on. It drives the frame loop
// and reports size changes.
type Host interface {
	// GetSize returns the size of the surface in logical pixels.
	GetSize() (width, height uint32)

	DevicePixelRatio() float64

	// Pointer returns the pointer activity since the previous frame.
	Pointer() scene.PointerInput

	OnFrame(fn func()) (unsubscribe func())
	OnResize(fn func(width, height uint32)) (unsubscribe func())
}

// Renderer draws scenes either to the visible surface or into a render target.
type Renderer interface {
	// SetSize sets the size of the visible surface in logical pixels.
	SetSize(width, height uint32)

	SetPixelRatio(ratio float64)

	// SetRenderTarget selects the target of the following Render calls,
	// nil selects the visible surface.
	SetRenderTarget(target *scene.RenderTarget)

	Render(s *scene.Scene, camera *scene.PerspectiveCamera) error

	Dispose()
}

// Layer is one offscreen pass together with the cylinder that displays it.
type Layer struct {
	Target *scene.RenderTarget
	Scene  *scene.Scene
	Camera *scene.PerspectiveCamera

	// image shown on the plane of the offscreen scene
	Texture *scene.Texture

	Plane    *scene.Mesh
	Cylinder *scene.Mesh
}

type Canvas struct {
	host     Host
	renderer Renderer
	opts     Options

	loader *loader.TextureLoader

	viewport scene.Viewport

	Scene    *scene.Scene
	Camera   *scene.PerspectiveCamera
	Controls *scene.OrbitControls
	Layers   []*Layer

	unsubscribeFrame  func()
	unsubscribeResize func()

	stats    Stats
	now      func() time.Time
	disposed bool
}

// New builds the main scene and all offscreen layers and starts loading
// their images. Rendering begins with Start.
func New(host Host, renderer Renderer, opts Options) (*Canvas, error) {
	if host == nil {
		return nil, ErrNoSurface
	}

	if renderer == nil {
		return nil, ErrNoRenderer
	}

	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	width, height := host.GetSize()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrZeroSize, width, height)
	}

	c := &Canvas{
		host:     host,
		renderer: renderer,
		opts:     opts,
		loader:   loader.New(opts.Source),
		now:      time.Now,
		Scene:    scene.NewScene(),
	}

	c.loader.ColorSpace = scene.SRGBColorSpace

	c.viewport = scene.Viewport{
		Width:      width,
		Height:     height,
		PixelRatio: scene.ClampPixelRatio(host.DevicePixelRatio(), opts.PixelRatioCap),
	}

	renderer.SetSize(width, height)
	renderer.SetPixelRatio(c.viewport.PixelRatio)

	c.Camera = scene.NewPerspectiveCamera(opts.Fov, c.viewport.Aspect(), opts.Near, opts.Far)
	c.Camera.Position = glm.Vec3f{0, 0, opts.Distance}

	c.Controls = scene.NewOrbitControls(c.Camera)
	c.Controls.EnableZoom = true
	c.Controls.EnableDamping = opts.EnableDamping
	c.Controls.ZoomDuration = opts.ZoomDuration

	cylinder := scene.NewCylinderGeometry(scene.CylinderOptions{
		RadiusTop:      opts.CylinderRadius,
		RadiusBottom:   opts.CylinderRadius,
		Height:         opts.CylinderHeight,
		RadialSegments: opts.CylinderSegments,
		HeightSegments: 1,
		OpenEnded:      true,
	})

	for idx := range opts.Layers {
		layer := c.newLayer(idx, cylinder)
		c.Layers = append(c.Layers, layer)
		c.Scene.Add(layer.Cylinder)
	}

	slog.Info("Canvas created",
		slog.Int("width", int(width)),
		slog.Int("height", int(height)),
		slog.Float64("pixelRatio", c.viewport.PixelRatio),
		slog.Int("layers", len(c.Layers)),
	)

	return c, nil
}

func (c *Canvas) newLayer(idx int, cylinder *scene.Geometry) *Layer {
	opts := c.opts

	layer := &Layer{
		Target: scene.NewRenderTarget(opts.TargetSize, opts.TargetSize),
		Scene:  scene.NewScene(),
		Camera: scene.NewPerspectiveCamera(opts.Fov, 1, opts.Near, opts.Far),
	}

	layer.Camera.Position = glm.Vec3f{0, 0, opts.TargetCameraDistance}

	layer.Texture = c.loader.Load(opts.asset(idx), func(result loader.Result) {
		if opts.OnTextureLoad != nil {
			opts.OnTextureLoad(result)
		}
	})

	layer.Plane = scene.NewMesh(scene.NewPlaneGeometry(2, 2), scene.NewBasicMaterial(layer.Texture))
	layer.Plane.Name = fmt.Sprintf("plane.%d", idx)
	layer.Plane.Scale = glm.Vec3f{opts.PlaneScale, 1, 1}
	layer.Scene.Add(layer.Plane)

	material := scene.NewTiledMaterial(layer.Target.Texture, opts.Rows, opts.Cols)
	if idx > 0 {
		// inner walls are only visible from inside
		material.Side = scene.BackSide
	}

	scale := float32(math.Pow(float64(opts.InnerScale), float64(idx)))

	layer.Cylinder = scene.NewMesh(cylinder, material)
	layer.Cylinder.Name = fmt.Sprintf("cylinder.%d", idx)
	layer.Cylinder.Rotation = scene.Euler{X: math.Pi, Z: -math.Pi}
	layer.Cylinder.Scale = glm.Vec3f{scale, scale, scale}

	return layer
}

// Start subscribes to frames and resize events of the host.
func (c *Canvas) Start() {
	if c.disposed || c.unsubscribeFrame != nil {
		return
	}

	c.unsubscribeFrame = c.host.OnFrame(c.onFrame)

	if c.unsubscribeResize == nil {
		c.unsubscribeResize = c.host.OnResize(c.Resize)
	}
}

// Stop ends the frame loop. The canvas keeps reacting to resize events.
func (c *Canvas) Stop() {
	if c.unsubscribeFrame != nil {
		c.unsubscribeFrame()
		c.unsubscribeFrame = nil
	}
}

func (c *Canvas) onFrame() {
	if err := c.Frame(); err != nil {
		c.stats.Errors++

		slog.Warn("Failed to render frame", slog.String("error", err.Error()))

		if c.opts.OnError != nil {
			c.opts.OnError(err)
		}
	}
}

// Frame renders every offscreen layer into its target and then the main
// scene to the visible surface.
func (c *Canvas) Frame() error {
	if c.disposed {
		return ErrDisposed
	}

	c.loader.Poll()

	now := c.now()
	if c.stats.tick(now) {
		slog.Debug("Frame stats",
			slog.Uint64("frames", c.stats.FrameCount),
			slog.Duration("average", c.stats.AverageDuration),
			slog.Duration("max", c.stats.MaxDuration),
			slog.Float64("fps", c.stats.FPS()),
		)
	}

	c.Controls.HandleInput(c.host.Pointer(), float64(c.viewport.Height))
	c.Controls.Update(c.stats.Delta)

	for idx, layer := range c.Layers {
		c.renderer.SetRenderTarget(layer.Target)

		if err := c.renderer.Render(layer.Scene, layer.Camera); err != nil {
			c.renderer.SetRenderTarget(nil)
			return fmt.Errorf("render layer %d: %w", idx, err)
		}
	}

	c.renderer.SetRenderTarget(nil)

	if err := c.renderer.Render(c.Scene, c.Camera); err != nil {
		return fmt.Errorf("render main scene: %w", err)
	}

	return nil
}

// Resize adapts camera and renderer to a new surface size in logical pixels.
// The offscreen targets keep their resolution. Zero sizes are ignored.
func (c *Canvas) Resize(width, height uint32) {
	if c.disposed || width == 0 || height == 0 {
		return
	}

	c.viewport.Width = width
	c.viewport.Height = height
	c.viewport.PixelRatio = scene.ClampPixelRatio(c.host.DevicePixelRatio(), c.opts.PixelRatioCap)

	c.Camera.Aspect = c.viewport.Aspect()
	c.Camera.UpdateProjectionMatrix()

	c.renderer.SetSize(width, height)
	c.renderer.SetPixelRatio(c.viewport.PixelRatio)

	slog.Debug("Canvas resized",
		slog.Int("width", int(width)),
		slog.Int("height", int(height)),
		slog.Float64("pixelRatio", c.viewport.PixelRatio),
	)
}

// Viewport returns the current surface size and pixel ratio.
func (c *Canvas) Viewport() scene.Viewport {
	return c.viewport
}

func (c *Canvas) Stats() Stats {
	return c.stats
}

// Dispose stops the canvas and releases all scenes, targets, textures and
// the renderer. Calling Dispose more than once does nothing.
func (c *Canvas) Dispose() {
	if c.disposed {
		return
	}

	c.Stop()

	if c.unsubscribeResize != nil {
		c.unsubscribeResize()
		c.unsubscribeResize = nil
	}

	c.loader.Close()

	for _, layer := range c.Layers {
		layer.Scene.Dispose()
		layer.Texture.Dispose()
		layer.Target.Dispose()
	}

	c.Scene.Dispose()
	c.renderer.Dispose()

	c.disposed = true

	slog.Info("Canvas disposed", slog.Uint64("frames", c.stats.FrameCount))
}
