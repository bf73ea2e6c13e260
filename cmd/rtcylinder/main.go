package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/oliverbestmann/rtcylinder/canvas"
	"github.com/oliverbestmann/rtcylinder/glimpse"
	"github.com/oliverbestmann/rtcylinder/loader"
	"github.com/oliverbestmann/rtcylinder/pulse"
	"github.com/oliverbestmann/rtcylinder/render"
)

var (
	_ canvas.Renderer = (*render.Renderer)(nil)
	_ canvas.Host     = glimpse.Window(nil)
)

type runOptions struct {
	Window   glimpse.WindowOptions
	Canvas   canvas.Options
	Assets   string
	FailFast bool
}

func main() {
	var opts runOptions

	var logLevel slog.Level

	flag.StringVar(&opts.Assets, "assets", ".", "directory or base url the images are loaded from")
	flag.IntVar(&opts.Canvas.Layers, "layers", 2, "number of nested cylinders")
	flag.Func("rows", "rows of the texture grid (default 1)", float32Flag(&opts.Canvas.Rows))
	flag.Func("cols", "columns of the texture grid (default 4)", float32Flag(&opts.Canvas.Cols))
	flag.Func("fov", "vertical field of view in degrees (default 35)", float32Flag(&opts.Canvas.Fov))
	flag.Func("distance", "initial camera distance (default 24)", float32Flag(&opts.Canvas.Distance))
	flag.DurationVar(&opts.Canvas.ZoomDuration, "smooth-zoom", 0, "ease zoom steps over this duration")
	flag.BoolVar(&opts.Canvas.EnableDamping, "damping", false, "keep the camera gliding after dragging")
	flag.BoolVar(&opts.Window.Profile, "profile", false, "write a cpu profile")
	flag.BoolVar(&opts.FailFast, "fail-fast", true, "exit after the first frame that failed to render")
	flag.TextVar(&logLevel, "log-level", slog.LevelInfo, "log level: debug, info, warn or error")
	flag.Parse()

	slog.SetLogLoggerLevel(logLevel)

	if err := run(opts); err != nil {
		slog.Error("Exit with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(opts runOptions) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	source, err := assetSource(opts.Assets)
	if err != nil {
		return fmt.Errorf("open assets: %w", err)
	}

	// create a new window (or canvas)
	win, err := glimpse.NewWindow(opts.Window)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}

	defer win.Terminate()

	// initialize the webgpu device
	gpu, err := pulse.New(win.SurfaceDescriptor())
	if err != nil {
		return fmt.Errorf("initialize wgpu: %w", err)
	}

	defer gpu.Release()

	renderer, err := render.New(gpu, render.Options{BufferSizer: win})
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	var frameErr error

	opts.Canvas.Source = source
	opts.Canvas.OnTextureLoad = func(result loader.Result) {
		if result.Err != nil {
			slog.Warn("Texture stays blank", slog.String("path", result.Path))
		}
	}

	opts.Canvas.OnError = func(err error) {
		if opts.FailFast {
			frameErr = err
			cancel()
		}
	}

	c, err := canvas.New(win, renderer, opts.Canvas)
	if err != nil {
		renderer.Dispose()
		return fmt.Errorf("create canvas: %w", err)
	}

	defer c.Dispose()

	c.Start()

	startTime := time.Now()

	err = win.Run(ctx)

	stats := c.Stats()
	slog.Info("Window closed",
		slog.Duration("uptime", time.Since(startTime)),
		slog.Uint64("frames", stats.FrameCount),
		slog.Float64("fps", stats.FPS()),
	)

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return frameErr
}

func float32Flag(target *float32) func(string) error {
	return func(value string) error {
		var parsed float32
		if _, err := fmt.Sscan(value, &parsed); err != nil {
			return fmt.Errorf("parse %q: %w", value, err)
		}

		*target = parsed
		return nil
	}
}
