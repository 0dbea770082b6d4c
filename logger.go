package vkbase

import (
	"log/slog"

	"github.com/celer/vkbase/internal/logging"
)

// SetLogger configures the logger used by vkbase and its sub-packages.
// By default nothing is logged. Pass nil to restore silence.
//
// Levels used:
//   - [slog.LevelDebug]: per-frame detail, memory pool allocations
//   - [slog.LevelInfo]: lifecycle events (device selected, swapchain created)
//   - [slog.LevelWarn]: validation layer warnings, unsupported optional layers
//   - [slog.LevelError]: validation layer errors, fatal shutdown
//
// Example:
//
//	vkbase.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the current logger. Safe for concurrent use.
func Logger() *slog.Logger {
	return logging.Logger()
}
