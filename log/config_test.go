package log

import (
	"slices"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{" warn ", LevelWarn},
		{"ERROR", LevelError},
		{"INFO+2", Level(2)},
		{"bogus", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"text", FormatText},
		{"", DefaultFormat},
		{"xml", DefaultFormat},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.in); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevels_Formats_Names(t *testing.T) {
	if got := slices.Collect(Levels()); !slices.Equal(got, []string{"trace", "debug", "info", "warn", "error"}) {
		t.Errorf("Levels() = %v", got)
	}

	if got := slices.Collect(Formats()); !slices.Equal(got, []string{"text", "json"}) {
		t.Errorf("Formats() = %v", got)
	}
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", ts.Format(time.RFC3339)},
		{"rfc-3339", ts.Format(time.RFC3339)},
		{"Kitchen", ts.Format(time.Kitchen)},
		{"2006/01/02", "2024/03/09"},
		{"", ""},
		{"none", ""},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			if got := makeFormatTimeFunc(tt.layout)(ts); got != tt.want {
				t.Errorf("layout %q: got %q, want %q", tt.layout, got, tt.want)
			}
		})
	}
}

func TestConfig_Options(t *testing.T) {
	cfg := makeConfig(nil,
		WithLevel(LevelWarn),
		WithFormat(FormatJSON),
		WithCaller(true),
		WithPretty(true))

	if cfg.level != LevelWarn || cfg.format != FormatJSON || !cfg.caller || !cfg.pretty {
		t.Errorf("options not applied: %+v", cfg)
	}

	if cfg.output == nil {
		t.Error("nil writer should fall back to io.Discard")
	}

	clone := cfg.clone(WithLevel(LevelDebug))
	if cfg.level != LevelWarn || clone.level != LevelDebug {
		t.Error("clone must not mutate the original config")
	}
}
