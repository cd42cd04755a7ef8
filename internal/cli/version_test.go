package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCmd_Output(t *testing.T) {
	app := New()
	app.SetVersion("1.2.3", "abc1234", "2024-01-15T10:30:00Z")

	cmd := NewVersionCmd(app)
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	output := buf.String()
	for _, want := range []string{"1.2.3", "abc1234", "2024-01-15T10:30:00Z"} {
		if !strings.Contains(output, want) {
			t.Errorf("Output should contain %q", want)
		}
	}
}

func TestVersionCmd_Defaults(t *testing.T) {
	app := New()

	cmd := NewVersionCmd(app)
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	output := buf.String()
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines of output, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "stowpack version dev") {
		t.Errorf("First line should default to dev version, got: %s", lines[0])
	}
	if !strings.Contains(lines[1], "unknown") || !strings.Contains(lines[2], "unknown") {
		t.Error("Commit and date should default to unknown")
	}
}
