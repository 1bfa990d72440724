package commands

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/natefinch/lumberjack"
)

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", level)
	}
}

// newLogger returns a text logger on stderr, or a JSON logger writing to a
// rotating file when filePath is set. The closer is nil for stderr.
func newLogger(level, filePath string, stderr io.Writer) (*slog.Logger, io.Closer, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	if filePath == "" {
		return slog.New(slog.NewTextHandler(stderr, opts)), nil, nil
	}

	writer := &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	return slog.New(slog.NewJSONHandler(writer, opts)), writer, nil
}
