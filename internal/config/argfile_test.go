package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestExpandArgFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	inner := filepath.Join(dir, "inner.txt")
	outer := filepath.Join(dir, "outer.txt")
	if err := os.WriteFile(inner, []byte("--steps\n20\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(outer, []byte("--refstart\n24999990\n@"+inner+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := ExpandArgFiles([]string{"--rf", "2400000013", "@" + outer, "@"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"--rf", "2400000013", "--refstart", "24999990", "--steps", "20", "@"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExpandArgFiles = %q, want %q", got, want)
	}
}

func TestExpandArgFilesErrors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	if _, err := ExpandArgFiles([]string{"@" + filepath.Join(dir, "missing")}); err == nil {
		t.Error("expected an error for a missing file")
	}

	loop := filepath.Join(dir, "loop.txt")
	if err := os.WriteFile(loop, []byte("@"+loop+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := ExpandArgFiles([]string{"@" + loop})
	if err == nil || !strings.Contains(err.Error(), "nested too deeply") {
		t.Errorf("expected a depth error, got %v", err)
	}
}
