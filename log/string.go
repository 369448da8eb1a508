package log

import (
	"log/slog"
	"strconv"
)

var levelNames = map[Level]string{
	LevelTrace: "trace",
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
}

// String returns the lowercase name of a defined level, or the slog
// representation (e.g. "INFO+2") of any level in between.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}

	return slog.Level(l).String()
}

// String returns the name of the format.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return "Format(" + strconv.Itoa(int(f)) + ")"
	}
}
