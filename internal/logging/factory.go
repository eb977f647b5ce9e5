package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// New builds a Logger for format "json" (the default), "text" or "zap" at
// level "debug", "info", "warn" or "error". Slog loggers write to w; zap
// uses its production sink (stderr).
func New(format, level string, w io.Writer) (Logger, error) {
	if level == "" {
		level = "info"
	}

	switch strings.ToLower(format) {
	case "json", "":
		lvl, err := parseSlogLevel(level)
		if err != nil {
			return nil, err
		}
		return NewJSONLogger(w, lvl), nil
	case "text":
		lvl, err := parseSlogLevel(level)
		if err != nil {
			return nil, err
		}
		return NewTextLogger(w, lvl), nil
	case "zap":
		z, err := NewProductionZapLogger(level)
		if err != nil {
			return nil, err
		}
		return z, nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

func parseSlogLevel(level string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", level)
	}
	return lvl, nil
}
