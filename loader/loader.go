// Package loader decodes textures in the background and hands them over to
// the render thread.
package loader

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"sync"

	"github.com/oliverbestmann/rtcylinder/scene"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DefaultMaxTextureSize is the largest edge length an image may have before
// it is scaled down. webgpu guarantees support for 2d textures of this size.
const DefaultMaxTextureSize = 8192

// Result reports the outcome of a texture load.
type Result struct {
	Path    string
	Texture *scene.Texture
	Err     error
}

type finished struct {
	texture *scene.Texture
	path    string
	image   image.Image
	err     error
	onLoad  func(Result)
}

// TextureLoader starts loads in the background. Results are applied
// to their textures only when Poll is called, so textures are never
// mutated concurrently to the thread that renders them.
type TextureLoader struct {
	source Source

	MaxTextureSize int
	ColorSpace     scene.ColorSpace

	ctx    context.Context
	cancel context.CancelFunc

	wg      sync.WaitGroup
	mu      sync.Mutex
	done    []finished
	pending int
}

func New(source Source) *TextureLoader {
	ctx, cancel := context.WithCancel(context.Background())

	return &TextureLoader{
		source:         source,
		MaxTextureSize: DefaultMaxTextureSize,
		ctx:            ctx,
		cancel:         cancel,
	}
}

// Load returns a pending texture right away and starts decoding the image
// at path. onLoad may be nil. It is called from Poll once the load finished.
func (l *TextureLoader) Load(path string, onLoad func(Result)) *scene.Texture {
	texture := scene.NewTexture(path)
	texture.ColorSpace = l.ColorSpace

	l.mu.Lock()
	l.pending++
	l.mu.Unlock()

	l.wg.Add(1)

	go func() {
		defer l.wg.Done()

		img, err := l.decode(path)

		l.mu.Lock()
		defer l.mu.Unlock()

		l.done = append(l.done, finished{
			texture: texture,
			path:    path,
			image:   img,
			err:     err,
			onLoad:  onLoad,
		})
	}()

	return texture
}

// Poll applies all finished loads to their textures and invokes their
// callbacks. It returns the number of loads that were applied.
func (l *TextureLoader) Poll() int {
	l.mu.Lock()
	done := l.done
	l.done = nil
	l.pending -= len(done)
	l.mu.Unlock()

	for _, f := range done {
		if f.err != nil {
			slog.Warn("Failed to load texture",
				slog.String("path", f.path),
				slog.String("error", f.err.Error()))

			f.texture.SetError(f.err)
		} else {
			bounds := f.image.Bounds()

			slog.Info("Texture loaded",
				slog.String("path", f.path),
				slog.Int("width", bounds.Dx()),
				slog.Int("height", bounds.Dy()))

			f.texture.SetImage(f.image)
		}

		if f.onLoad != nil {
			f.onLoad(Result{Path: f.path, Texture: f.texture, Err: f.err})
		}
	}

	return len(done)
}

// Pending returns the number of loads not yet applied by Poll.
func (l *TextureLoader) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.pending
}

// Wait blocks until all started loads are ready to be applied by Poll.
func (l *TextureLoader) Wait() {
	l.wg.Wait()
}

// Close aborts running loads and waits for them to finish.
// Aborted loads are still reported through Poll.
func (l *TextureLoader) Close() {
	l.cancel()
	l.wg.Wait()
}

func (l *TextureLoader) decode(path string) (image.Image, error) {
	fp, err := l.source.Open(l.ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}

	defer fp.Close()

	img, format, err := image.Decode(fp)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", path, err)
	}

	slog.Debug("Decoded image", slog.String("path", path), slog.String("format", format))

	return fitTextureSize(img, l.MaxTextureSize), nil
}

// fitTextureSize scales img down so that neither edge exceeds maxSize,
// keeping its aspect ratio.
func fitTextureSize(img image.Image, maxSize int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}

	scale := float64(maxSize) / float64(max(w, h))
	sw := max(1, int(float64(w)*scale))
	sh := max(1, int(float64(h)*scale))

	scaled := image.NewRGBA(image.Rect(0, 0, sw, sh))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, bounds, xdraw.Src, nil)

	return scaled
}
