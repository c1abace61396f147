package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestRunBadConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "home: [")
	var out strings.Builder
	code := run([]string{"-config", path}, &out, func(tea.Model) error {
		t.Fatal("program started with a broken config")
		return nil
	})
	if code != 1 || !strings.Contains(out.String(), "Alas") {
		t.Fatalf("code = %d, out = %q", code, out.String())
	}
}

func TestRunClosesLogFileOnProgramError(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "tui.log")
	path := writeConfig(t, dir, "tui:\n  log_file: "+logPath+"\n  identity_file: "+filepath.Join(dir, "identity.yaml")+"\n")

	var out strings.Builder
	code := run([]string{"-config", path}, &out, func(m tea.Model) error {
		if m == nil {
			t.Fatal("nil model")
		}
		return errors.New("no tty")
	})
	if code != 1 {
		t.Fatalf("code = %d", code)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "program exited") {
		t.Fatalf("log = %q", data)
	}
}

func TestRunSucceeds(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "tui:\n  identity_file: "+filepath.Join(dir, "identity.yaml")+"\n")
	var out strings.Builder
	if code := run([]string{"-config", path}, &out, func(tea.Model) error { return nil }); code != 0 {
		t.Fatalf("code = %d, out = %q", code, out.String())
	}
}

func TestRunUnknownFlag(t *testing.T) {
	var out strings.Builder
	if code := run([]string{"-nope"}, &out, nil); code != 2 {
		t.Fatalf("code = %d", code)
	}
}
