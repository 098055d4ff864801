// Package app wires configuration, the solver service and the front ends
// (command line, batch, HTTP server, REPL) into the adfcalc program.
package app

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"slices"
)

// Set at link time, for example:
//
//	go build -ldflags="-X github.com/agbru/adfcalc/internal/app.Version=v1.2.3" ./cmd/adfcalc
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Chip names the synthesizer whose limits the solver applies.
const Chip = "ADF4351"

// HasVersionFlag reports whether --version (or -version, -V) appears
// anywhere in args. It is checked before flag parsing so that it wins over
// otherwise invalid arguments.
func HasVersionFlag(args []string) bool {
	return hasAny(args, "--version", "-version", "-V")
}

func hasAny(args []string, names ...string) bool {
	return slices.ContainsFunc(args, func(a string) bool { return slices.Contains(names, a) })
}

type VersionData struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	Chip      string `json:"chip"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

func GetVersionInfo() VersionData {
	return VersionData{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		Chip:      Chip,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// PrintVersion writes the version block to out, as a JSON object when args
// also carry --json.
func PrintVersion(out io.Writer, args []string) {
	v := GetVersionInfo()
	if hasAny(args, "--json", "-json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		_ = enc.Encode(v)
		return
	}
	fmt.Fprintf(out, "adfcalc %s (%s register calculator)\n", v.Version, v.Chip)
	for _, row := range [][2]string{
		{"Commit", v.Commit},
		{"Built", v.BuildDate},
		{"Go version", v.GoVersion},
		{"OS/Arch", v.OS + "/" + v.Arch},
	} {
		fmt.Fprintf(out, "  %-11s %s\n", row[0]+":", row[1])
	}
}
