package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// maxArgFileDepth stops @file lists that include themselves.
const maxArgFileDepth = 8

// ExpandArgFiles replaces every argument of the form @path with the lines of
// that file, one argument per line. Lines read from a file may name further
// files. Blank lines are skipped and trailing carriage returns are dropped.
func ExpandArgFiles(args []string) ([]string, error) {
	return expandArgFiles(args, 0)
}

func expandArgFiles(args []string, depth int) ([]string, error) {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		if !strings.HasPrefix(arg, "@") || len(arg) == 1 {
			out = append(out, arg)
			continue
		}
		if depth >= maxArgFileDepth {
			return nil, fmt.Errorf("argument file %s: nested too deeply", arg[1:])
		}
		lines, err := readArgFile(arg[1:])
		if err != nil {
			return nil, err
		}
		nested, err := expandArgFiles(lines, depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, nested...)
	}
	return out, nil
}

func readArgFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("argument file: %w", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("argument file %s: %w", path, err)
	}
	return lines, nil
}
