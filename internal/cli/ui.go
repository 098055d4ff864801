// Package cli is the terminal front end of adfcalc: register reports, the
// sweep progress display, shell completion and the interactive REPL.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/adfcalc/internal/ui"
)

// Theme colors, resolved at call time so --no-color and ADFCALC_THEME apply
// to everything printed after ui.InitTheme.
var (
	ColorReset     = ui.ColorReset
	ColorBold      = ui.ColorBold
	ColorUnderline = ui.ColorUnderline
	ColorRed       = ui.ColorRed
	ColorGreen     = ui.ColorGreen
	ColorYellow    = ui.ColorYellow
	ColorBlue      = ui.ColorBlue
	ColorMagenta   = ui.ColorMagenta
	ColorCyan      = ui.ColorCyan
)

// CLIColorProvider lets apperrors.HandleSolveError color its messages with
// the active theme.
type CLIColorProvider struct{}

func (CLIColorProvider) Yellow() string { return ColorYellow() }
func (CLIColorProvider) Red() string    { return ColorRed() }
func (CLIColorProvider) Reset() string  { return ColorReset() }

// FormatExecutionDuration prints sub-millisecond runs in µs and sub-second
// runs in ms; longer runs use time.Duration's own format.
func FormatExecutionDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return strconv.FormatInt(d.Microseconds(), 10) + "µs"
	case d < time.Second:
		return strconv.FormatInt(d.Milliseconds(), 10) + "ms"
	}
	return d.String()
}

// formatHz groups the integer digits of hz by thousands and keeps every
// fractional digit needed to round-trip the value.
func formatHz(hz float64) string {
	whole, frac, ok := strings.Cut(strconv.FormatFloat(hz, 'f', -1, 64), ".")
	if !ok {
		return formatNumberString(whole)
	}
	return formatNumberString(whole) + "." + frac
}

func formatNumberString(s string) string {
	sign, digits := "", s
	if strings.HasPrefix(s, "-") {
		sign, digits = "-", s[1:]
	}
	if len(digits) <= 3 {
		return s
	}
	groups := make([]string, 0, len(digits)/3+1)
	for len(digits) > 3 {
		groups = append(groups, digits[len(digits)-3:])
		digits = digits[:len(digits)-3]
	}
	var b strings.Builder
	b.WriteString(sign)
	b.WriteString(digits)
	for i := len(groups) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, ",%s", groups[i])
	}
	return b.String()
}
