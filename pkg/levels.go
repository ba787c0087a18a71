package lzt

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// LoggingLevel is the message level understood by the framework components.
type LoggingLevel int

const (
	VERBOSE LoggingLevel = iota
	DEBUG
	INFO
	WARNING
	ERROR
	FATAL
)

var loggingLevelStrings = []string{
	"VERBOSE",
	"DEBUG",
	"INFO",
	"WARNING",
	"ERROR",
	"FATAL",
}

func (l LoggingLevel) String() string {
	if l < VERBOSE || l > FATAL {
		return "UNKNOWN"
	}
	return loggingLevelStrings[l]
}

// ToC returns the integer handed to the framework OutputLevel property.
func (l LoggingLevel) ToC() int {
	return int(l)
}

func (l LoggingLevel) SlogLevel() slog.Level {
	switch {
	case l <= DEBUG:
		return slog.LevelDebug
	case l == INFO:
		return slog.LevelInfo
	case l == WARNING:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// Verbosity maps the level onto the library verbosity used to gate messages.
func (l LoggingLevel) Verbosity() int {
	switch {
	case l <= VERBOSE:
		return 3
	case l == DEBUG:
		return 2
	case l == INFO:
		return 1
	default:
		return 0
	}
}

// ParseLoggingLevel accepts a level name (case insensitive) or its integer.
func ParseLoggingLevel(s string) (LoggingLevel, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < int(VERBOSE) || n > int(FATAL) {
			return INFO, fmt.Errorf("invalid output level %d", n)
		}
		return LoggingLevel(n), nil
	}
	for i, v := range loggingLevelStrings {
		if strings.EqualFold(v, s) {
			return LoggingLevel(i), nil
		}
	}
	return INFO, fmt.Errorf("invalid output level %q", s)
}
