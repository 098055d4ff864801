package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML form of the flag defaults. Absent keys leave the
// corresponding flag untouched.
//
//	rf: 2.4e9
//	refstart: 24999990
//	steps: 20
//	timeout: 30s
type FileConfig struct {
	Ref      *float64 `yaml:"ref"`
	RF       *float64 `yaml:"rf"`
	RefStart *int64   `yaml:"refstart"`
	Steps    *int64   `yaml:"steps"`
	Workers  *int     `yaml:"workers"`
	Timeout  *string  `yaml:"timeout"`
	Batch    *string  `yaml:"batch"`
	JSON     *bool    `yaml:"json"`
	Quiet    *bool    `yaml:"quiet"`
	Details  *bool    `yaml:"details"`
	NoColor  *bool    `yaml:"no_color"`
	Output   *string  `yaml:"output"`
	Port     *string  `yaml:"port"`

	timeout time.Duration
}

// LoadFile reads and decodes a YAML configuration file. Unknown keys are
// rejected so that typos do not go unnoticed.
func LoadFile(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("reading config file: %w", err)
	}
	return decodeFile(data, path)
}

func decodeFile(data []byte, name string) (FileConfig, error) {
	var fc FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return FileConfig{}, fmt.Errorf("parsing config file %s: %w", name, err)
	}
	if fc.Timeout != nil {
		d, err := time.ParseDuration(*fc.Timeout)
		if err != nil {
			return FileConfig{}, fmt.Errorf("parsing config file %s: invalid timeout %q: %w", name, *fc.Timeout, err)
		}
		fc.timeout = d
	}
	return fc, nil
}

// apply copies the file values into config for every flag that was not set
// on the command line.
func (fc FileConfig) apply(config *AppConfig, fs *flag.FlagSet) {
	setIfUnset(fs, fc.Ref, &config.ReferenceHz, "ref")
	setIfUnset(fs, fc.RF, &config.OutputHz, "rf")
	setIfUnset(fs, fc.RefStart, &config.RefStartHz, "refstart")
	setIfUnset(fs, fc.Steps, &config.Steps, "steps")
	setIfUnset(fs, fc.Workers, &config.Workers, "workers")
	setIfUnset(fs, fc.Batch, &config.BatchFile, "batch")
	setIfUnset(fs, fc.JSON, &config.JSONOutput, "json")
	setIfUnset(fs, fc.Quiet, &config.Quiet, "quiet", "q")
	setIfUnset(fs, fc.Details, &config.Details, "details", "d")
	setIfUnset(fs, fc.NoColor, &config.NoColor, "no-color")
	setIfUnset(fs, fc.Output, &config.OutputFile, "output", "o")
	setIfUnset(fs, fc.Port, &config.Port, "port")
	if fc.Timeout != nil && !isFlagSet(fs, "timeout") {
		config.Timeout = fc.timeout
	}
}

func setIfUnset[T any](fs *flag.FlagSet, src *T, dst *T, names ...string) {
	if src == nil {
		return
	}
	for _, name := range names {
		if isFlagSet(fs, name) {
			return
		}
	}
	*dst = *src
}
