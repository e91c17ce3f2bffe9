package logging

import (
	"bytes"
	"os"
	"testing"

	"github.com/fatih/color"
)

func TestSupportsColor(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		isTTY bool
		want  bool
	}{
		{"NO_COLOR set", map[string]string{"NO_COLOR": ""}, true, false},
		{"dumb terminal", map[string]string{"TERM": "dumb"}, true, false},
		{"pipe", map[string]string{"TERM": "xterm"}, false, false},
		{"terminal", map[string]string{"TERM": "xterm-256color"}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TERM", "")
			os.Unsetenv("NO_COLOR")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if got := supportsColor(tt.isTTY); got != tt.want {
				t.Errorf("supportsColor(%v) = %v, want %v", tt.isTTY, got, tt.want)
			}
		})
	}
}

func TestConfigureConsole_Buffer(t *testing.T) {
	prev := color.NoColor
	t.Cleanup(func() { color.NoColor = prev })

	ConfigureConsole(&bytes.Buffer{})
	if !color.NoColor {
		t.Error("colors should be disabled for a non-terminal writer")
	}
	if IsTTY(&bytes.Buffer{}) {
		t.Error("IsTTY(buffer) = true")
	}
}
