// Package batch loads YAML job files for the --batch mode.
//
// A job file lists independent solves and sweeps:
//
//	jobs:
//	  - name: lo-25m
//	    ref: 25000000
//	    rf: 2.4e9
//	  - name: sweep-near-25m
//	    refstart: 24999990
//	    steps: 20
//	    rf: 2400000013
package batch

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/adfcalc/internal/errors"
)

// Job is one entry of a job file. A job with a positive RefStartHz is a
// sweep; otherwise it is a single-reference solve.
type Job struct {
	Name        string  `yaml:"name"`
	ReferenceHz float64 `yaml:"ref"`
	RefStartHz  int64   `yaml:"refstart"`
	Steps       int64   `yaml:"steps"`
	OutputHz    float64 `yaml:"rf"`
}

// IsSweep reports whether the job searches a reference range.
func (j Job) IsSweep() bool { return j.RefStartHz > 0 }

type jobFile struct {
	Jobs []Job `yaml:"jobs"`
}

// Load reads and validates a job file.
func Load(path string) ([]Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading job file: %w", err)
	}
	jobs, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("job file %s: %w", path, err)
	}
	return jobs, nil
}

// Decode parses and validates job file contents. Unnamed jobs are named
// "job-<position>" starting at 1.
func Decode(data []byte) ([]Job, error) {
	var f jobFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing jobs: %w", err)
	}
	if len(f.Jobs) == 0 {
		return nil, apperrors.NewValidationError("jobs", "at least one job is required", nil)
	}

	seen := make(map[string]int, len(f.Jobs))
	for i := range f.Jobs {
		job := &f.Jobs[i]
		if job.Name == "" {
			job.Name = fmt.Sprintf("job-%d", i+1)
		}
		if prev, dup := seen[job.Name]; dup {
			return nil, apperrors.NewValidationError(field(i, "name"),
				fmt.Sprintf("duplicate of job %d", prev+1), job.Name)
		}
		seen[job.Name] = i
		if err := validate(i, *job); err != nil {
			return nil, err
		}
	}
	return f.Jobs, nil
}

func field(i int, name string) string {
	return fmt.Sprintf("jobs[%d].%s", i, name)
}

// validate checks the shape of a job. Frequency ranges are left to the
// solver so that they are reported per job as out-of-range results.
func validate(i int, j Job) error {
	switch {
	case j.OutputHz <= 0:
		return apperrors.NewValidationError(field(i, "rf"), "a positive output frequency is required", j.OutputHz)
	case j.ReferenceHz > 0 && j.RefStartHz > 0:
		return apperrors.NewValidationError(field(i, "ref"), "ref and refstart are mutually exclusive", j.ReferenceHz)
	case j.ReferenceHz <= 0 && j.RefStartHz <= 0:
		return apperrors.NewValidationError(field(i, "ref"), "either ref or refstart is required", j.ReferenceHz)
	case j.Steps < 0:
		return apperrors.NewValidationError(field(i, "steps"), "must not be negative", j.Steps)
	case j.Steps > 0 && j.RefStartHz <= 0:
		return apperrors.NewValidationError(field(i, "steps"), "steps require refstart", j.Steps)
	}
	return nil
}
