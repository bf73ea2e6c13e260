//go:build !js

package glimpse

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/oliverbestmann/rtcylinder/scene"
	"github.com/oliverbestmann/webgpu/wgpu"
	"github.com/oliverbestmann/webgpu/wgpuglfw"
	"github.com/pkg/profile"
)

type glfwWindow struct {
	win   *glfw.Window
	prof  interface{ Stop() }
	input InputState

	frames  listeners[func()]
	resizes listeners[func(width, height uint32)]
}

func NewWindow(opts WindowOptions) (Window, error) {
	opts = opts.withDefaults()

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	window, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}

	w := &glfwWindow{win: window}

	if opts.Profile {
		w.prof = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	}

	configureInput(window, &w.input)

	window.SetSizeCallback(func(_win *glfw.Window, width, height int) {
		slog.Debug("Window resized",
			slog.Int("width", width),
			slog.Int("height", height),
		)

		w.resizes.each(func(fn func(uint32, uint32)) {
			fn(uint32(width), uint32(height))
		})
	})

	return w, nil
}

func (g *glfwWindow) GetSize() (uint32, uint32) {
	width, height := g.win.GetSize()
	return uint32(width), uint32(height)
}

// DevicePixelRatio is the ratio of framebuffer to window size. This is only
// different from 1 on platforms where window coordinates are not pixels.
func (g *glfwWindow) DevicePixelRatio() float64 {
	width, _ := g.win.GetSize()
	fbWidth, _ := g.win.GetFramebufferSize()

	if width == 0 || fbWidth == 0 {
		return 1
	}

	return float64(fbWidth) / float64(width)
}

func (g *glfwWindow) SetBufferSize(width, height uint32) {
	// the framebuffer follows the window size
}

func (g *glfwWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(g.win)
}

func (g *glfwWindow) Pointer() scene.PointerInput {
	return g.input.Pointer()
}

func (g *glfwWindow) OnFrame(fn func()) func() {
	return g.frames.add(fn)
}

func (g *glfwWindow) OnResize(fn func(width, height uint32)) func() {
	return g.resizes.add(fn)
}

func (g *glfwWindow) Terminate() {
	if g.prof != nil {
		g.prof.Stop()
	}

	g.win.Destroy()
	glfw.Terminate()
}

func (g *glfwWindow) Run(ctx context.Context) error {
	for !g.win.ShouldClose() {
		if err := ctx.Err(); err != nil {
			return nil
		}

		glfw.PollEvents()

		g.frames.each(func(fn func()) { fn() })

		g.input.nextTick()
	}

	return nil
}

func configureInput(window *glfw.Window, input *InputState) {
	window.SetMouseButtonCallback(func(_win *glfw.Window, btn glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		button := MouseButton(btn)

		switch action {
		case glfw.Press:
			input.Mouse.press(button)
		case glfw.Release:
			input.Mouse.release(button)
		}
	})

	window.SetCursorPosCallback(func(_win *glfw.Window, xpos float64, ypos float64) {
		input.Mouse.position(float32(xpos), float32(ypos))
	})

	window.SetScrollCallback(func(_win *glfw.Window, xoff float64, yoff float64) {
		// glfw reports scrolling up as positive
		input.Mouse.scroll(float32(xoff), float32(-yoff))
	})
}
