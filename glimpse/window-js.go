//go:build js

package glimpse

import (
	"context"
	"syscall/js"

	"github.com/oliverbestmann/rtcylinder/scene"
	"github.com/oliverbestmann/webgpu/wgpu"
)

type jsWindow struct {
	canvas js.Value
	input  InputState

	frames listeners[func()]

	// pointer event handlers, released on Terminate
	handlers []js.Func
}

func NewWindow(opts WindowOptions) (Window, error) {
	opts = opts.withDefaults()

	document := js.Global().Get("document")

	var canvas js.Value
	if opts.CanvasID != "" {
		canvas = document.Call("getElementById", opts.CanvasID)
	}

	if canvas.IsUndefined() || canvas.IsNull() {
		canvas = document.Call("createElement", "canvas")
		canvas.Set("style", "width:100%; height:100vh")
		document.Get("body").Call("appendChild", canvas)
	}

	document.Set("title", opts.Title)

	win := &jsWindow{
		canvas: canvas,
	}

	win.configureInput()

	return win, nil
}

func (g *jsWindow) GetSize() (uint32, uint32) {
	window := js.Global()
	return uint32(window.Get("innerWidth").Int()), uint32(window.Get("innerHeight").Int())
}

func (g *jsWindow) DevicePixelRatio() float64 {
	return js.Global().Get("devicePixelRatio").Float()
}

func (g *jsWindow) SetBufferSize(width, height uint32) {
	g.canvas.Set("width", width)
	g.canvas.Set("height", height)
}

func (g *jsWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return &wgpu.SurfaceDescriptor{Canvas: g.canvas}
}

func (g *jsWindow) Pointer() scene.PointerInput {
	return g.input.Pointer()
}

func (g *jsWindow) OnFrame(fn func()) func() {
	return g.frames.add(fn)
}

// OnResize registers a listener for the resize event of the browser window.
// The listener is removed from the window when unsubscribe is called.
func (g *jsWindow) OnResize(fn func(width, height uint32)) func() {
	handler := js.FuncOf(func(this js.Value, args []js.Value) any {
		fn(g.GetSize())
		return nil
	})

	js.Global().Call("addEventListener", "resize", handler)

	var done bool

	return func() {
		if done {
			return
		}

		done = true

		js.Global().Call("removeEventListener", "resize", handler)
		handler.Release()
	}
}

func (g *jsWindow) Terminate() {
	for _, handler := range g.handlers {
		handler.Release()
	}

	g.handlers = nil
}

// Run schedules frames with requestAnimationFrame until ctx is cancelled.
func (g *jsWindow) Run(ctx context.Context) error {
	window := js.Global()

	var handle js.Value
	var frame js.Func

	frame = js.FuncOf(func(this js.Value, args []js.Value) any {
		g.frames.each(func(fn func()) { fn() })
		g.input.nextTick()

		if ctx.Err() == nil {
			handle = window.Call("requestAnimationFrame", frame)
		}

		return nil
	})

	defer frame.Release()

	handle = window.Call("requestAnimationFrame", frame)

	<-ctx.Done()

	window.Call("cancelAnimationFrame", handle)

	return nil
}

func (g *jsWindow) configureInput() {
	on := func(event string, fn func(event js.Value)) {
		handler := js.FuncOf(func(this js.Value, args []js.Value) any {
			fn(args[0])
			return nil
		})

		g.canvas.Call("addEventListener", event, handler)
		g.handlers = append(g.handlers, handler)
	}

	on("pointerdown", func(event js.Value) {
		g.input.Mouse.press(MouseButton(event.Get("button").Int()))
		g.canvas.Call("setPointerCapture", event.Get("pointerId"))
	})

	on("pointerup", func(event js.Value) {
		g.input.Mouse.release(MouseButton(event.Get("button").Int()))
	})

	on("pointermove", func(event js.Value) {
		g.input.Mouse.position(
			float32(event.Get("clientX").Float()),
			float32(event.Get("clientY").Float()),
		)
	})

	on("wheel", func(event js.Value) {
		event.Call("preventDefault")

		g.input.Mouse.scroll(
			float32(event.Get("deltaX").Float()),
			float32(event.Get("deltaY").Float()),
		)
	})
}
