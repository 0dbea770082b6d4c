package vkbase

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/celer/vkbase/frame"
)

// Run opens a window for cfg, initializes a GraphicsApp around r and draws
// until the window closes or ctx is done. It must be called from the main
// goroutine with the OS thread locked, as GLFW requires.
func Run(ctx context.Context, cfg Config, r Renderer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := InitGLFW(); err != nil {
		return err
	}
	window, err := NewGLFWWindow(cfg.AppName, cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	defer window.Destroy()

	app := NewGraphicsApp(cfg, window, r)
	defer app.Destroy()
	if err := app.Init(ctx); err != nil {
		return err
	}
	return app.Run(ctx)
}

// Main runs r with the config at configPath and exits the process with
// status 1 on failure. Interrupts end the run cleanly.
func Main(configPath string, r Renderer) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := func() error {
		defer stop()
		cfg, err := LoadConfig(configPath)
		if err != nil {
			return err
		}
		return Run(ctx, cfg, r)
	}()
	if err != nil {
		Logger().Error("fatal", "err", err, "fatal", frame.IsFatal(err))
		// Full chain with stack for bug reports.
		Logger().Debug("fatal detail", "detail", fmt.Sprintf("%+v", err))
		os.Exit(1)
	}
}
