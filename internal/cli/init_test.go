package cli

import (
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestInit_WritesSampleConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"init", "--out", path})

	if err := root.Execute(); err != nil {
		t.Fatalf("init execute: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, "swagger2ts configuration") {
		t.Fatalf("unexpected config contents: %s", s)
	}
}

func TestInit_ExistingWithoutForce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("prewrite: %v", err)
	}

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"init", "--out", path})

	err := root.Execute()
	if err == nil {
		t.Fatalf("expected error for existing file without --force")
	}
	if _, ok := err.(usageError); !ok {
		t.Fatalf("expected usage error, got %T: %v", err, err)
	}
}


func TestInit_SampleKeysAreKnown(t *testing.T) {
	keyRe := regexp.MustCompile(`(?m)^# ([A-Za-z]+):`)
	matches := keyRe.FindAllStringSubmatch(sampleConfigYAML, -1)
	if len(matches) == 0 {
		t.Fatalf("no keys found in sample config")
	}
	for _, m := range matches {
		var cfg GenerateConfig
		if err := applyConfigField(&cfg, m[1], nil); err != nil {
			t.Errorf("sample key %q rejected: %v", m[1], err)
		}
	}
}
