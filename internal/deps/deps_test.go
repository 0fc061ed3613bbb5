package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	if err := os.WriteFile(present, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Path != present {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[2].Detail)
	}
}

func TestCheckChromePrefersConfigured(t *testing.T) {
	binDir := t.TempDir()
	browser := filepath.Join(binDir, "my-chrome")
	if err := os.WriteFile(browser, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	status := CheckChrome(browser)
	if !status.Available || status.Path != browser {
		t.Fatalf("expected configured browser, got %#v", status)
	}
	if !status.Optional {
		t.Fatal("chrome should be reported as optional")
	}
}

func TestCheckChromeFallsBackToPath(t *testing.T) {
	binDir := t.TempDir()
	fallback := filepath.Join(binDir, "google-chrome")
	if err := os.WriteFile(fallback, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	t.Setenv("PATH", binDir)

	status := CheckChrome("not-a-real-browser")
	if !status.Available {
		t.Fatalf("expected fallback browser, got %#v", status)
	}
	if status.Command != "google-chrome" {
		t.Fatalf("unexpected fallback command: %q", status.Command)
	}
}

func TestCheckChromeMissing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	status := CheckChrome("not-a-real-browser")
	if status.Available {
		t.Fatalf("expected unavailable, got %#v", status)
	}
	if status.Command != "not-a-real-browser" || status.Detail == "" {
		t.Fatalf("expected configured command in status, got %#v", status)
	}
}
