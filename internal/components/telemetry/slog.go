package telemetry

import (
	"log/slog"
)

// SlogAPI implements API using the log/slog package.
// params are passed through as slog key-value pairs.
type SlogAPI struct {
	// Logger defaults to slog.Default() when nil.
	Logger *slog.Logger
}

func (s SlogAPI) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s SlogAPI) ReportBroken(id string, params ...any) {
	s.logger().Error("broken component", append([]any{"id", id}, params...)...)
}

func (s SlogAPI) ReportWarning(id string, params ...any) {
	s.logger().Warn("warning", append([]any{"id", id}, params...)...)
}

func (s SlogAPI) ReportInfo(msg string, params ...any) {
	s.logger().Info(msg, params...)
}

func (s SlogAPI) ReportDebug(msg string, params ...any) {
	s.logger().Debug(msg, params...)
}

func (s SlogAPI) ReportCount(id string, count int64) {
	s.logger().Info("count", "id", id, "n", count)
}
