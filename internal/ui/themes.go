// Package ui holds the color schemes used by register reports, the batch
// summary and the interactive prompt.
package ui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync/atomic"

	"golang.org/x/term"
)

// Theme maps output roles to ANSI escape sequences. The zero value prints
// plain text.
type Theme struct {
	Name      string
	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Info      string
	Bold      string
	Underline string
	Reset     string
}

// fg256 returns the escape sequence selecting color n of the 256-color
// palette as foreground.
func fg256(n int) string { return fmt.Sprintf("\033[38;5;%dm", n) }

// newTheme builds a theme from palette indexes in role order: primary,
// secondary, success, warning, error and info.
func newTheme(name string, primary, secondary, success, warning, errColor, info int) Theme {
	return Theme{
		Name:      name,
		Primary:   fg256(primary),
		Secondary: fg256(secondary),
		Success:   fg256(success),
		Warning:   fg256(warning),
		Error:     fg256(errColor),
		Info:      fg256(info),
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}
}

var (
	// DarkTheme uses bright colors for dark terminal backgrounds.
	DarkTheme = newTheme("dark", 39, 245, 82, 220, 196, 141)
	// LightTheme uses deeper shades that stay readable on white.
	LightTheme = newTheme("light", 27, 240, 28, 130, 124, 54)
	// NoColorTheme is selected by --no-color, NO_COLOR and non-terminal
	// output.
	NoColorTheme = Theme{Name: "none"}

	themes = map[string]Theme{
		DarkTheme.Name:    DarkTheme,
		LightTheme.Name:   LightTheme,
		NoColorTheme.Name: NoColorTheme,
	}

	current atomic.Pointer[Theme]
)

func init() { SetCurrentTheme(DarkTheme) }

// ThemeNames lists the names accepted by SetTheme and ADFCALC_THEME.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetCurrentTheme returns the active theme. It is safe for concurrent use
// with the progress display goroutine.
func GetCurrentTheme() Theme { return *current.Load() }

// SetCurrentTheme installs t as the active theme. Tests use it to restore
// the previous scheme.
func SetCurrentTheme(t Theme) { current.Store(&t) }

// SetTheme activates a theme by name, falling back to the dark theme for
// unknown names.
func SetTheme(name string) {
	t, ok := themes[name]
	if !ok {
		t = DarkTheme
	}
	SetCurrentTheme(t)
}

// InitTheme picks the theme at startup. noColor (the --no-color flag or a
// non-terminal output) wins, then NO_COLOR (https://no-color.org/, any
// value), then ADFCALC_THEME.
func InitTheme(noColor bool) {
	if _, set := os.LookupEnv("NO_COLOR"); noColor || set {
		SetCurrentTheme(NoColorTheme)
		return
	}
	SetTheme(os.Getenv("ADFCALC_THEME"))
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
