package logging

import (
	"io"
	"log/slog"
	"os"
)

// Name is the name of the application emitting the logs.
type Name string

// Config is the configuration for a logger.
type Config struct {
	// name is the application name attached to every record.
	name Name

	// w is where the logs are written to.
	w io.Writer

	// level is the minimum level that will be logged.
	level slog.Leveler
}

// NewConfig creates a new logging configuration with the default output and level.
func NewConfig(name Name) *Config {
	return &Config{
		name:  name,
		w:     os.Stdout,
		level: slog.LevelDebug,
	}
}

// CommonLogger creates the common JSON logger for the application.
func CommonLogger(c *Config) (*slog.Logger, error) {
	h := slog.NewJSONHandler(c.w, &slog.HandlerOptions{
		Level: c.level,
	})

	l := slog.New(h).With(slog.String(KeyAppName, string(c.name)))

	// Make the logger available to packages that log through the default logger.
	slog.SetDefault(l)

	return l, nil
}
