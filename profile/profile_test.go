package profile

import "testing"

func TestMake_Options(t *testing.T) {
	cfg := Make(WithMode("cpu"), WithPath("/tmp/out"), nil, WithQuiet(true))

	mode, path, quiet := cfg()
	if mode != "cpu" || path != "/tmp/out" || !quiet {
		t.Errorf("cfg() = (%q, %q, %v)", mode, path, quiet)
	}
}

func TestConfig_Start_NoMode(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"nil", nil},
		{"empty", Make()},
		{"unknown", Make(WithMode("nonsense"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stop := tt.cfg.Start()
			if _, ok := stop.(ignore); !ok {
				t.Errorf("Start() = %T, want no-op", stop)
			}

			stop.Stop()
		})
	}
}
