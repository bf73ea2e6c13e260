package glimpse

import (
	"context"
	"sync"

	"github.com/oliverbestmann/rtcylinder/scene"
	"github.com/oliverbestmann/webgpu/wgpu"
)

type WindowOptions struct {
	Width  int
	Height int
	Title  string

	// CanvasID selects an existing canvas element in the browser. A new
	// canvas filling the page is created if empty.
	CanvasID string

	// Profile writes a cpu profile while the window is open (native only).
	Profile bool
}

func (opts WindowOptions) withDefaults() WindowOptions {
	if opts.Width == 0 {
		opts.Width = 1000
	}

	if opts.Height == 0 {
		opts.Height = 600
	}

	if opts.Title == "" {
		opts.Title = "rtcylinder"
	}

	return opts
}

type Window interface {
	// GetSize returns the size of the window in logical pixels.
	GetSize() (uint32, uint32)

	DevicePixelRatio() float64

	// SetBufferSize resizes the drawing buffer of the window in device pixels.
	SetBufferSize(width, height uint32)

	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Pointer returns the pointer activity of the current frame.
	Pointer() scene.PointerInput

	// OnFrame calls fn once per displayed frame until unsubscribe is called.
	OnFrame(fn func()) (unsubscribe func())

	// OnResize calls fn with the new logical size each time the window is resized.
	OnResize(fn func(width, height uint32)) (unsubscribe func())

	// Run dispatches frames until the window is closed or ctx is cancelled.
	Run(ctx context.Context) error

	Terminate()
}

type listener[F any] struct {
	fn      F
	removed bool
}

// listeners is an ordered list of callbacks. Callbacks may unsubscribe
// themselves or others while being dispatched.
type listeners[F any] struct {
	entries []*listener[F]
}

func (l *listeners[F]) add(fn F) (unsubscribe func()) {
	entry := &listener[F]{fn: fn}
	l.entries = append(l.entries, entry)

	return sync.OnceFunc(func() {
		entry.removed = true

		for idx, e := range l.entries {
			if e == entry {
				l.entries = append(l.entries[:idx:idx], l.entries[idx+1:]...)
				break
			}
		}
	})
}

func (l *listeners[F]) each(call func(fn F)) {
	// copy so callbacks can modify the list
	entries := append([]*listener[F](nil), l.entries...)

	for _, e := range entries {
		if !e.removed {
			call(e.fn)
		}
	}
}

func (l *listeners[F]) len() int {
	return len(l.entries)
}
