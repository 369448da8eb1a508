package cli

import (
	"os"
	"testing"

	"github.com/ardnew/bdl/log"
)

func TestLogConfig_Scan(t *testing.T) {
	t.Cleanup(func() { log.Config(log.WithDefaults(os.Stderr)) })

	tests := []struct {
		name string
		args []string
		want logConfig
	}{
		{
			name: "separate_values",
			args: []string{"fmt", "--log-level", "debug", "--log-format", "json", "a.bdl"},
			want: logConfig{Level: "debug", Format: "json"},
		},
		{
			name: "assigned_values",
			args: []string{"--log-level=trace", "--log-format=text"},
			want: logConfig{Level: "trace", Format: "text"},
		},
		{
			name: "switches",
			args: []string{"--log-pretty", "--log-caller=true"},
			want: logConfig{Pretty: true, Caller: true},
		},
		{
			name: "negated_switches",
			args: []string{"--no-log-pretty", "--no-log-caller=false"},
			want: logConfig{Pretty: false, Caller: true},
		},
		{
			name: "missing_value",
			args: []string{"--log-level", "--log-pretty"},
			want: logConfig{Pretty: true},
		},
		{
			name: "bad_switch_value",
			args: []string{"--log-caller=maybe"},
			want: logConfig{},
		},
		{
			name: "after_terminator",
			args: []string{"query", "--", "--log-level", "debug"},
			want: logConfig{},
		},
		{
			name: "other_flags",
			args: []string{"--source", "--log-level", "--logx"},
			want: logConfig{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got logConfig

			got.scan(tt.args)

			if got != tt.want {
				t.Errorf("scan(%q) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}
