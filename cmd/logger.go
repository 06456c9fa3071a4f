package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// newLogger builds a zerolog logger writing to w. It does not touch the
// global zerolog logger.
func newLogger(levelStr, formatStr string, w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.Nop(), fmt.Errorf("invalid log-level %q: must be debug, info, warn or error", levelStr)
	}

	switch strings.ToLower(formatStr) {
	case "json":
	case "console", "":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log-format %q: must be console or json", formatStr)
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
