package canvas

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/oliverbestmann/rtcylinder/loader"
	"github.com/oliverbestmann/rtcylinder/scene"
)

// DefaultAssets are the images rendered into the offscreen targets, one per layer.
var DefaultAssets = []string{
	"/vt_logo_200x200_must.jpg",
	"/vt_logo_200x200_roh.jpg",
}

// Options configures a Canvas. Zero values are replaced by the defaults
// noted on each field.
type Options struct {
	// vertical field of view of the main camera in degrees, default 35
	Fov float32

	// distance of the main camera from the origin, default 24
	Distance float32

	// clipping planes of all cameras, default 0.1 and 1000
	Near float32
	Far  float32

	// edge length of the square offscreen targets in pixels, default 512
	TargetSize uint32

	// grid the tiled material partitions the cylinder into, default 1x4
	Rows float32
	Cols float32

	// upper bound of the pixel ratio, default scene.DefaultPixelRatioCap
	PixelRatioCap float64

	// number of nested cylinders, each with its own offscreen target, default 2
	Layers int

	// scale factor between a cylinder and the next inner one, default 0.98
	InnerScale float32

	// open ended cylinder dimensions, default radius 5, height 10, 32 segments
	CylinderRadius   float32
	CylinderHeight   float32
	CylinderSegments int

	// horizontal scale of the textured plane in each offscreen scene, default 1.6
	PlaneScale float32

	// distance of the offscreen cameras from their plane, default 5
	TargetCameraDistance float32

	// image per layer, layers without an entry reuse the last one.
	// Default DefaultAssets
	Assets []string

	// Source the assets are read from, default the working directory
	Source loader.Source

	// OnTextureLoad is called on the frame thread once an asset finished
	// loading or failed to load.
	OnTextureLoad func(loader.Result)

	// OnError is called with errors returned by the renderer during a frame.
	OnError func(error)

	// ZoomDuration eases zoom steps of the orbit controls, zero zooms immediately
	ZoomDuration time.Duration

	// EnableDamping lets the camera glide after releasing the pointer
	EnableDamping bool
}

func (opts Options) withDefaults() Options {
	if opts.Fov == 0 {
		opts.Fov = 35
	}

	if opts.Distance == 0 {
		opts.Distance = 24
	}

	if opts.Near == 0 {
		opts.Near = 0.1
	}

	if opts.Far == 0 {
		opts.Far = 1000
	}

	if opts.TargetSize == 0 {
		opts.TargetSize = 512
	}

	if opts.Rows == 0 {
		opts.Rows = 1
	}

	if opts.Cols == 0 {
		opts.Cols = 4
	}

	if opts.PixelRatioCap == 0 {
		opts.PixelRatioCap = scene.DefaultPixelRatioCap
	}

	if opts.Layers == 0 {
		opts.Layers = 2
	}

	if opts.InnerScale == 0 {
		opts.InnerScale = 0.98
	}

	if opts.CylinderRadius == 0 {
		opts.CylinderRadius = 5
	}

	if opts.CylinderHeight == 0 {
		opts.CylinderHeight = 10
	}

	if opts.CylinderSegments == 0 {
		opts.CylinderSegments = 32
	}

	if opts.PlaneScale == 0 {
		opts.PlaneScale = 1.6
	}

	if opts.TargetCameraDistance == 0 {
		opts.TargetCameraDistance = 5
	}

	if len(opts.Assets) == 0 {
		opts.Assets = DefaultAssets
	}

	if opts.Source == nil {
		opts.Source = loader.DirSource{FS: os.DirFS(".")}
	}

	return opts
}

// ErrInvalidOptions is returned by New for options that cannot describe a scene.
var ErrInvalidOptions = errors.New("canvas: invalid options")

// validate checks options after defaults have been applied.
func (opts Options) validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"Fov", float64(opts.Fov)},
		{"Distance", float64(opts.Distance)},
		{"Near", float64(opts.Near)},
		{"Far", float64(opts.Far)},
		{"Rows", float64(opts.Rows)},
		{"Cols", float64(opts.Cols)},
		{"PixelRatioCap", opts.PixelRatioCap},
		{"InnerScale", float64(opts.InnerScale)},
		{"CylinderRadius", float64(opts.CylinderRadius)},
		{"CylinderHeight", float64(opts.CylinderHeight)},
		{"PlaneScale", float64(opts.PlaneScale)},
		{"TargetCameraDistance", float64(opts.TargetCameraDistance)},
	}

	for _, field := range positive {
		// also rejects NaN
		if !(field.value > 0) {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidOptions, field.name, field.value)
		}
	}

	if opts.Layers < 1 {
		return fmt.Errorf("%w: Layers must be at least 1, got %d", ErrInvalidOptions, opts.Layers)
	}

	if opts.TargetSize > loader.DefaultMaxTextureSize {
		return fmt.Errorf("%w: TargetSize %d exceeds %d", ErrInvalidOptions, opts.TargetSize, loader.DefaultMaxTextureSize)
	}

	if opts.CylinderSegments < 3 {
		return fmt.Errorf("%w: CylinderSegments must be at least 3, got %d", ErrInvalidOptions, opts.CylinderSegments)
	}

	if opts.Near >= opts.Far {
		return fmt.Errorf("%w: Near %v must be less than Far %v", ErrInvalidOptions, opts.Near, opts.Far)
	}

	if opts.ZoomDuration < 0 {
		return fmt.Errorf("%w: ZoomDuration must not be negative, got %s", ErrInvalidOptions, opts.ZoomDuration)
	}

	return nil
}

// asset returns the image path of the given layer.
func (opts Options) asset(layer int) string {
	return opts.Assets[min(layer, len(opts.Assets)-1)]
}
