package observability

import (
	"log/slog"
	"os"
)

// SetupLogger configures a JSON slog logger with environment fields.
func SetupLogger(service, env string, dev bool) *slog.Logger {
	opts := &slog.HandlerOptions{}
	if dev {
		opts.Level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(h).With(
		slog.String("service", service),
		slog.String("env", env),
	)
}
