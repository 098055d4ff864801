package ui

import (
	"bytes"
	"os"
	"testing"
)

func TestSetTheme(t *testing.T) {
	originalTheme := GetCurrentTheme()
	defer SetCurrentTheme(originalTheme)

	testCases := []struct {
		themeName string
		expected  string
	}{
		{"dark", "dark"},
		{"light", "light"},
		{"none", "none"},
		{"unknown", "dark"},
		{"", "dark"},
	}

	for _, tc := range testCases {
		SetTheme(tc.themeName)
		if got := GetCurrentTheme().Name; got != tc.expected {
			t.Errorf("SetTheme(%q): got theme %q, want %q", tc.themeName, got, tc.expected)
		}
	}
}

func TestInitTheme(t *testing.T) {
	originalTheme := GetCurrentTheme()
	defer SetCurrentTheme(originalTheme)

	t.Run("flag disables colors", func(t *testing.T) {
		t.Setenv("ADFCALC_THEME", "light")
		InitTheme(true)
		if GetCurrentTheme().Name != "none" {
			t.Errorf("got %q, want none", GetCurrentTheme().Name)
		}
	})

	t.Run("NO_COLOR disables colors", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		InitTheme(false)
		if GetCurrentTheme().Name != "none" {
			t.Errorf("got %q, want none", GetCurrentTheme().Name)
		}
	})

	t.Run("theme from environment", func(t *testing.T) {
		os.Unsetenv("NO_COLOR")
		t.Setenv("ADFCALC_THEME", "light")
		InitTheme(false)
		if GetCurrentTheme().Name != "light" {
			t.Errorf("got %q, want light", GetCurrentTheme().Name)
		}
		if ColorBlue() != LightTheme.Primary || ColorReset() != "\033[0m" {
			t.Error("color helpers should follow the active theme")
		}
	})
}

func TestThemeNames(t *testing.T) {
	t.Parallel()
	names := ThemeNames()
	if len(names) != 3 || names[0] != "dark" || names[1] != "light" || names[2] != "none" {
		t.Errorf("ThemeNames() = %v", names)
	}
}

func TestThemePalettes(t *testing.T) {
	t.Parallel()
	if DarkTheme.Primary != "\033[38;5;39m" || LightTheme.Error != "\033[38;5;124m" {
		t.Errorf("unexpected palette: dark primary %q, light error %q", DarkTheme.Primary, LightTheme.Error)
	}
	if NoColorTheme.Primary != "" || NoColorTheme.Reset != "" {
		t.Error("the no-color theme must not emit escape codes")
	}
}

func TestIsTerminal(t *testing.T) {
	t.Parallel()
	if IsTerminal(&bytes.Buffer{}) {
		t.Error("a buffer is never a terminal")
	}
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsTerminal(f) {
		t.Error("a regular file is not a terminal")
	}
}
