package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testScenario = `
container:
  preset: 20ft Standard
max_weight: 1000
items:
  - name: crate
    width: 50
    depth: 40
    height: 30
    weight: 10
    quantity: 3
`

func writeScenario(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "scenario.yaml")
	if err := os.WriteFile(path, []byte(testScenario), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	app := New()
	buf := new(bytes.Buffer)
	app.rootCmd.SetOut(buf)
	app.rootCmd.SetErr(buf)
	app.rootCmd.SetArgs(args)
	if err := app.Execute(); err != nil {
		t.Fatalf("stowpack %s failed: %v\noutput: %s", strings.Join(args, " "), err, buf.String())
	}
	return buf.String()
}

func TestPackCmd_JSONEvents(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	scenario := writeScenario(t, dir)

	output := runCLI(t, "pack", scenario, "--json", "--no-save")

	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) < 3 {
		t.Fatalf("expected event lines plus summary, got:\n%s", output)
	}

	var first struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("first line is not JSON: %v", err)
	}
	if first.Type != "pack.started" {
		t.Errorf("expected pack.started first, got %s", first.Type)
	}

	var last struct {
		Summary struct {
			Placed     int `json:"placed"`
			Containers int `json:"containers"`
		} `json:"summary"`
	}
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &last); err != nil {
		t.Fatalf("summary line is not JSON: %v", err)
	}
	if last.Summary.Placed != 3 || last.Summary.Containers != 1 {
		t.Errorf("unexpected summary: %+v", last.Summary)
	}
}

func TestPackCmd_WritesCSV(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	scenario := writeScenario(t, dir)
	csvPath := filepath.Join(dir, "out.csv")

	runCLI(t, "pack", scenario, "--json", "--no-save", "--csv", csvPath)

	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("csv not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "Container,Item,") {
		t.Errorf("unexpected csv header: %s", string(data[:40]))
	}
	if !strings.Contains(string(data), "crate") {
		t.Error("csv should list placed items")
	}
}

func TestPackCmd_SavesPlan(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	scenario := writeScenario(t, dir)

	runCLI(t, "pack", scenario, "--json")

	output := runCLI(t, "plans", "list", "--json")
	var metas []struct {
		ID     string `json:"id"`
		Placed int    `json:"placed"`
	}
	if err := json.Unmarshal([]byte(output), &metas); err != nil {
		t.Fatalf("parse plans list: %v\noutput: %s", err, output)
	}
	if len(metas) != 1 || metas[0].Placed != 3 {
		t.Fatalf("unexpected plan listing: %+v", metas)
	}

	show := runCLI(t, "plans", "show", metas[0].ID)
	if !strings.Contains(show, `"placed": 3`) {
		t.Errorf("plans show should include summary, got:\n%s", show)
	}

	runCLI(t, "plans", "delete", metas[0].ID)
	output = runCLI(t, "plans", "list", "--json")
	if strings.TrimSpace(output) != "[]" && strings.TrimSpace(output) != "null" {
		t.Errorf("expected empty listing after delete, got: %s", output)
	}
}

func TestPackCmd_InvalidScenario(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("items: []\n"), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}

	app := New()
	app.rootCmd.SetOut(new(bytes.Buffer))
	app.rootCmd.SetErr(new(bytes.Buffer))
	app.rootCmd.SetArgs([]string{"pack", path, "--json", "--no-save"})
	if err := app.Execute(); err == nil {
		t.Fatal("packing an invalid scenario should fail")
	}
}
