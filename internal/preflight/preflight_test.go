package preflight

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"breakstretch/internal/config"
	"breakstretch/internal/deps"
	"breakstretch/internal/services"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckOutputDirectory_Creatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nested")
	result := CheckOutputDirectory("Output directory", path)
	if !result.Passed {
		t.Fatalf("expected pass for creatable dir, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "will be created") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckOutputDirectory_UnderFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckOutputDirectory("Output directory", filepath.Join(f, "out"))
	if result.Passed {
		t.Fatal("expected failure when ancestor is a file")
	}
}

func writeStub(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
}

func TestCheckRubberband(t *testing.T) {
	dir := t.TempDir()
	writeStub(t, dir, "rubberband")
	t.Setenv("PATH", dir)

	if result := CheckRubberband("rubberband"); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}

	prev := goos
	goos = "darwin"
	t.Cleanup(func() { goos = prev })
	result := CheckRubberband("rubberband-missing")
	if result.Passed {
		t.Fatal("expected failure for missing binary")
	}
	if !strings.Contains(result.Detail, "brew install rubberband") {
		t.Fatalf("expected install hint, got %q", result.Detail)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_MinimalConfig(t *testing.T) {
	dir := t.TempDir()
	writeStub(t, dir, "rubberband")
	t.Setenv("PATH", dir)

	cfg := config.Default()
	cfg.Paths.OutputDir = t.TempDir()
	cfg.Paths.LogDir = ""

	results := RunAll(&cfg)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
}

func TestEngineEnsureRunsOnce(t *testing.T) {
	calls := 0
	missing := services.Wrap(services.ErrConfiguration, "", "", "rubberband CLI not found", nil)
	e := &Engine{Binary: "rubberband", check: func(binary string) (deps.Status, error) {
		calls++
		return deps.Status{Command: binary}, missing
	}}

	for i := 0; i < 3; i++ {
		_, err := e.Ensure()
		if !errors.Is(err, services.ErrConfiguration) {
			t.Fatalf("expected configuration error, got %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one lookup, got %d", calls)
	}
}
