package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/agbru/adfcalc/internal/ui"
)

// usageGroups orders the flags in the help text. Shorthands are listed next
// to their long form.
var usageGroups = []struct {
	title string
	flags []string
}{
	{"Frequencies", []string{"ref", "rf", "refstart", "steps"}},
	{"Execution", []string{"workers", "timeout", "batch", "config"}},
	{"Output", []string{"json", "quiet", "details", "output", "no-color"}},
	{"Modes", []string{"server", "port", "interactive", "completion"}},
}

var shorthands = map[string]string{"quiet": "q", "details": "d", "output": "o"}

// withoutEnv lists the flags no environment variable can set.
var withoutEnv = map[string]bool{"completion": true}

// setCustomUsage replaces the flag package's alphabetical listing with a
// grouped, colored one that also names the matching environment variable.
func setCustomUsage(fs *flag.FlagSet) {
	fs.Usage = func() {
		t := ui.GetCurrentTheme()
		// The theme is not initialized yet when -h is parsed.
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			t = ui.NoColorTheme
		}
		writeUsage(fs, fs.Output(), t)
	}
}

func writeUsage(fs *flag.FlagSet, out io.Writer, t ui.Theme) {
	name := fs.Name()
	fmt.Fprintf(out, "\n%sADF4351 Register Calculator%s\n", t.Bold, t.Reset)
	fmt.Fprintf(out, "Finds R, INT, MOD, FRAC and the RF divider for a target output frequency.\n\n")

	fmt.Fprintf(out, "%sUsage:%s\n", t.Warning, t.Reset)
	fmt.Fprintf(out, "  %s -ref 25000000 -rf 2400000000\n", name)
	fmt.Fprintf(out, "  %s -refstart 24999990 -steps 20 -rf 2400000013\n", name)
	fmt.Fprintf(out, "  %s -batch jobs.yaml -json\n", name)
	fmt.Fprintf(out, "  %s @args.txt\n", name)

	for _, g := range usageGroups {
		fmt.Fprintf(out, "\n%s%s:%s\n", t.Warning, g.title, t.Reset)
		for _, long := range g.flags {
			f := fs.Lookup(long)
			if f == nil {
				continue
			}
			writeFlag(out, t, f)
		}
	}
	fmt.Fprintf(out, "\nBracketed names are environment variables read when the flag is not given.\n")
	fmt.Fprintf(out, "Precedence: flags, then environment, then the -config file, then defaults.\n")
	fmt.Fprintf(out, "Color theme: %sTHEME=%s\n\n", EnvPrefix, strings.Join(ui.ThemeNames(), "|"))
}

func writeFlag(out io.Writer, t ui.Theme, f *flag.Flag) {
	argName, usage := flag.UnquoteUsage(f)
	sig := "-" + f.Name
	if short, ok := shorthands[f.Name]; ok {
		sig = "-" + short + ", " + sig
	}
	if argName != "" {
		sig += " " + argName
	}

	fmt.Fprintf(out, "  %s%-26s%s %s", t.Primary, sig, t.Reset, usage)
	switch f.DefValue {
	case "", "0", "false", "0s":
	default:
		fmt.Fprintf(out, " %s(default %s)%s", t.Secondary, f.DefValue, t.Reset)
	}
	if !withoutEnv[f.Name] {
		fmt.Fprintf(out, " %s[%s]%s", t.Secondary, EnvPrefix+envName(f.Name), t.Reset)
	}
	fmt.Fprintln(out)
}

func envName(flagName string) string {
	return strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}
