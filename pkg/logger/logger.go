package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
)

var defaultLogger *slog.Logger

// Options tune the logger built by Init. Zero values pick the environment defaults.
type Options struct {
	Level  string
	Format string
	// File, when set, tees output into a daily rotated file.
	File   string
	MaxAge time.Duration
}

func Init(env string, opts ...Options) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}

	format := o.Format
	if format == "" {
		format = "text"
		if env == "production" {
			format = "json"
		}
	}

	level := parseLevel(o.Level, env)

	var out io.Writer = os.Stdout
	if o.File != "" {
		if rl, err := newRotatingWriter(o.File, o.MaxAge); err == nil {
			out = io.MultiWriter(os.Stdout, rl)
		} else {
			slog.Error("failed to open rotating log file", "file", o.File, "error", err)
		}
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

func newRotatingWriter(path string, maxAge time.Duration) (io.Writer, error) {
	if maxAge <= 0 {
		maxAge = 7 * 24 * time.Hour
	}
	return rotatelogs.New(
		path+".%Y%m%d",
		rotatelogs.WithLinkName(path),
		rotatelogs.WithMaxAge(maxAge),
		rotatelogs.WithRotationTime(24*time.Hour),
	)
}

func parseLevel(level, env string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if env == "production" {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

func LoggerWrapper() *slog.Logger {
	if defaultLogger == nil {
		// lazy initialize a development logger to avoid nil pointer panics
		Init("development")
	}
	return defaultLogger
}
