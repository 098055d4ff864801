package ui

// The Color helpers read the active theme on every call, so output written
// after InitTheme picks up the new scheme.

func ColorReset() string     { return GetCurrentTheme().Reset }
func ColorBold() string      { return GetCurrentTheme().Bold }
func ColorUnderline() string { return GetCurrentTheme().Underline }

// ColorRed marks failures.
func ColorRed() string { return GetCurrentTheme().Error }

// ColorGreen marks exact solutions and completed runs.
func ColorGreen() string { return GetCurrentTheme().Success }

// ColorYellow marks warnings such as a shifted sweep window or a
// fractional-mode frequency error.
func ColorYellow() string { return GetCurrentTheme().Warning }

// ColorBlue is the accent for register values and job names.
func ColorBlue() string { return GetCurrentTheme().Primary }

func ColorMagenta() string { return GetCurrentTheme().Info }
func ColorCyan() string    { return GetCurrentTheme().Secondary }
