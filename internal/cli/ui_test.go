package cli

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

// captureStdout redirects status output into a buffer for the test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	stdout = &buf
	t.Cleanup(func() { stdout = os.Stdout })
	return &buf
}

func TestStatusOutput(t *testing.T) {
	tests := []struct {
		name  string
		print func()
		want  []string
	}{
		{"success", func() { printSuccess("Rendered %s", "SVG") }, []string{iconSuccess, "Rendered SVG"}},
		{"error", func() { printError("Rendering %s failed", "png") }, []string{iconError, "Rendering png failed"}},
		{"info", func() { printInfo("Cache is empty") }, []string{iconInfo, "Cache is empty"}},
		{"file", func() { printFile("out/panel.svg") }, []string{iconArrow, "out/panel.svg"}},
		{"fresh stats", func() { printStats(3, 4, false) }, []string{"3 widgets", "4 draw entries", "fresh"}},
		{"cached stats", func() { printStats(3, 4, true) }, []string{"cached"}},
		{"next step", func() { printNextStep("Preview live", "canopy serve ui.toml") }, []string{"Preview live:", "canopy serve ui.toml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureStdout(t)
			tt.print()
			out := buf.String()
			if !strings.HasSuffix(out, "\n") {
				t.Errorf("output %q not newline terminated", out)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output %q missing %q", out, w)
				}
			}
		})
	}
}
