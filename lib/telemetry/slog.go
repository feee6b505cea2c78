package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog installs the default logger, logs go to stderr so that stdout
// only carries command output.
func InitSlog(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
