package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/moodfm/internal/shared"
)

func newTestRunner() (*Runner, *bytes.Buffer) {
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config: shared.DefaultConfig(),
		Logger: shared.NewLogger(io.Discard),
		Output: output,
	})
	return runner, output
}

func runCommand(t *testing.T, runner *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{Name: "moodfm", Commands: runner.register()}
	return app.Run(context.Background(), append([]string{"moodfm"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}

			runner := NewRunner(RunnerOpts{
				Config: config,
				Logger: logger,
				Output: output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
		})

		t.Run("backfills missing dependencies", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config")
			}
			if runner.logger == nil {
				t.Error("expected default logger")
			}
			if runner.output != os.Stdout {
				t.Error("expected stdout output")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		runner, output := newTestRunner()

		if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
			t.Fatalf("writeJSON failed: %v", err)
		}
		if got := output.String(); got != "{\"key\":\"value\"}\n" {
			t.Errorf("unexpected output %q", got)
		}
	})
}

func TestMoodResolveCommand(t *testing.T) {
	t.Run("resolves an explicit mood", func(t *testing.T) {
		runner, output := newTestRunner()

		if err := runCommand(t, runner, "mood", "resolve", "--mood", "chill"); err != nil {
			t.Fatalf("command failed: %v", err)
		}
		if !strings.Contains(output.String(), "Chill") {
			t.Errorf("expected chill badge, got %q", output.String())
		}
	})

	t.Run("resolves free text", func(t *testing.T) {
		runner, output := newTestRunner()

		if err := runCommand(t, runner, "mood", "resolve", "feeling", "good", "today"); err != nil {
			t.Fatalf("command failed: %v", err)
		}
		if !strings.Contains(output.String(), "Happy") {
			t.Errorf("expected happy badge, got %q", output.String())
		}
	})

	t.Run("emits JSON with scores", func(t *testing.T) {
		runner, output := newTestRunner()

		if err := runCommand(t, runner, "mood", "resolve", "--json", "--scores", "sad", "and", "lonely"); err != nil {
			t.Fatalf("command failed: %v", err)
		}

		var payload struct {
			Mood   string         `json:"mood"`
			Scores map[string]int `json:"scores"`
		}
		if err := json.Unmarshal(output.Bytes(), &payload); err != nil {
			t.Fatalf("failed to decode output: %v", err)
		}
		if payload.Mood != "sad" {
			t.Errorf("expected sad, got %q", payload.Mood)
		}
		if payload.Scores["sad"] == 0 {
			t.Error("expected non-zero sad score")
		}
	})

	t.Run("errors without input", func(t *testing.T) {
		runner, _ := newTestRunner()

		err := runCommand(t, runner, "mood", "resolve")
		if !errors.Is(err, shared.ErrNoMoodInput) {
			t.Fatalf("expected ErrNoMoodInput, got %v", err)
		}
	})
}

func TestMoodProfilesCommand(t *testing.T) {
	t.Run("lists every mood", func(t *testing.T) {
		runner, output := newTestRunner()

		if err := runCommand(t, runner, "mood", "profiles"); err != nil {
			t.Fatalf("command failed: %v", err)
		}

		body := output.String()
		for _, name := range []string{"Happy", "Energetic", "Chill", "Sad", "Calm"} {
			if !strings.Contains(body, name) {
				t.Errorf("expected %q in output", name)
			}
		}
	})

	t.Run("emits JSON", func(t *testing.T) {
		runner, output := newTestRunner()

		if err := runCommand(t, runner, "mood", "profiles", "--json"); err != nil {
			t.Fatalf("command failed: %v", err)
		}

		var profiles []map[string]any
		if err := json.Unmarshal(output.Bytes(), &profiles); err != nil {
			t.Fatalf("failed to decode output: %v", err)
		}
		if len(profiles) != 5 {
			t.Errorf("expected 5 profiles, got %d", len(profiles))
		}
	})
}

func TestSetupCommand(t *testing.T) {
	t.Run("initializes the configured database", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "config.toml")
		dbPath := filepath.Join(dir, "moodfm.db")
		contents := "[database]\npath = \"" + dbPath + "\"\n"
		if err := os.WriteFile(configPath, []byte(contents), 0644); err != nil {
			t.Fatal(err)
		}
		runner, _ := newTestRunner()

		if err := runCommand(t, runner, "setup", "--config", configPath); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
		if _, err := os.Stat(dbPath); err != nil {
			t.Errorf("expected database file to be created: %v", err)
		}
	})
}

func TestConfigInitCommand(t *testing.T) {
	t.Run("writes the template", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "config.toml")
		runner, output := newTestRunner()

		if err := runCommand(t, runner, "config", "init", "--output", configPath); err != nil {
			t.Fatalf("config init failed: %v", err)
		}
		if _, err := os.Stat(configPath); err != nil {
			t.Errorf("expected config file to be created: %v", err)
		}
		if !strings.Contains(output.String(), configPath) {
			t.Error("expected output to mention the created file")
		}
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "config.toml")
		if err := os.WriteFile(configPath, []byte("existing"), 0644); err != nil {
			t.Fatal(err)
		}
		runner, _ := newTestRunner()

		if err := runCommand(t, runner, "config", "init", "--output", configPath); err == nil {
			t.Fatal("expected error for existing file")
		}
	})
}
