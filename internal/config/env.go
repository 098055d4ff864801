package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// envBinding ties EnvPrefix+key to a flag. The first flag name is the one
// set; the others are shorthands that also count as "given on the command
// line".
type envBinding struct {
	key   string
	flags []string
	valid func(string) bool
}

func anyValue(string) bool { return true }

func isFloat(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func isInt(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func isDuration(s string) bool {
	_, err := time.ParseDuration(s)
	return err == nil
}

// envBindings lists the variables read by applyEnvOverrides:
//
//	ADFCALC_REF, ADFCALC_RF                  frequencies in Hz, "2.4e9" accepted
//	ADFCALC_REFSTART, ADFCALC_STEPS          sweep window, whole numbers
//	ADFCALC_WORKERS, ADFCALC_TIMEOUT         concurrency and run limit ("30s", "5m")
//	ADFCALC_BATCH, ADFCALC_OUTPUT, ADFCALC_PORT
//	ADFCALC_JSON, ADFCALC_QUIET, ADFCALC_DETAILS, ADFCALC_NO_COLOR,
//	ADFCALC_SERVER, ADFCALC_INTERACTIVE      true/false, 1/0 or yes/no
//
// ADFCALC_CONFIG is read earlier, before the config file is loaded.
var envBindings = []envBinding{
	{"REF", []string{"ref"}, isFloat},
	{"RF", []string{"rf"}, isFloat},
	{"REFSTART", []string{"refstart"}, isInt},
	{"STEPS", []string{"steps"}, isInt},
	{"WORKERS", []string{"workers"}, isInt},
	{"TIMEOUT", []string{"timeout"}, isDuration},
	{"BATCH", []string{"batch"}, anyValue},
	{"OUTPUT", []string{"output", "o"}, anyValue},
	{"PORT", []string{"port"}, anyValue},
	{"JSON", []string{"json"}, nil},
	{"QUIET", []string{"quiet", "q"}, nil},
	{"DETAILS", []string{"details", "d"}, nil},
	{"NO_COLOR", []string{"no-color"}, nil},
	{"SERVER", []string{"server"}, nil},
	{"INTERACTIVE", []string{"interactive"}, nil},
}

// applyEnvOverrides sets every bound flag that was not given on the command
// line from its environment variable. Values that do not parse are ignored
// so the file or default value stays in effect. A nil validator marks a
// boolean switch.
func applyEnvOverrides(fs *flag.FlagSet) {
	for _, b := range envBindings {
		val, ok := lookupEnv(b.key)
		if !ok || isFlagSet(fs, b.flags...) {
			continue
		}
		if b.valid == nil {
			if val, ok = parseSwitch(val); !ok {
				continue
			}
		} else if !b.valid(val) {
			continue
		}
		_ = fs.Set(b.flags[0], val)
	}
}

// lookupEnv returns the value of EnvPrefix+key. Empty values count as
// unset.
func lookupEnv(key string) (string, bool) {
	val := os.Getenv(EnvPrefix + key)
	return val, val != ""
}

// parseSwitch normalizes a boolean environment value for flag.Set.
func parseSwitch(val string) (string, bool) {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return "true", true
	case "false", "0", "no":
		return "false", true
	}
	return "", false
}

// isFlagSet reports whether any of names was given on the command line.
func isFlagSet(fs *flag.FlagSet, names ...string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				found = true
			}
		}
	})
	return found
}
