package batch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/adfcalc/internal/errors"
)

func TestLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "jobs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
jobs:
  - name: lo-25m
    ref: 25000000
    rf: 2.4e9
  - refstart: 24999990
    steps: 20
    rf: 2400000013
`), 0o600))

	jobs, err := Load(path)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, Job{Name: "lo-25m", ReferenceHz: 25e6, OutputHz: 2.4e9}, jobs[0])
	assert.False(t, jobs[0].IsSweep())

	assert.Equal(t, "job-2", jobs[1].Name)
	assert.True(t, jobs[1].IsSweep())
	assert.EqualValues(t, 20, jobs[1].Steps)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeValidation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{"empty", "", "jobs"},
		{"no jobs", "jobs: []\n", "jobs"},
		{"missing rf", "jobs: [{ref: 25e6}]\n", "jobs[0].rf"},
		{"both refs", "jobs: [{ref: 25e6, refstart: 25000000, rf: 1e9}]\n", "jobs[0].ref"},
		{"no ref", "jobs: [{rf: 1e9}]\n", "jobs[0].ref"},
		{"negative steps", "jobs: [{refstart: 25000000, steps: -1, rf: 1e9}]\n", "jobs[0].steps"},
		{"steps without refstart", "jobs: [{ref: 25e6, steps: 3, rf: 1e9}]\n", "jobs[0].steps"},
		{"duplicate", "jobs: [{name: a, ref: 25e6, rf: 1e9}, {name: a, ref: 25e6, rf: 2e9}]\n", "jobs[1].name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode([]byte(tt.yaml))
			var verr apperrors.ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	t.Parallel()
	_, err := Decode([]byte("jobs: [{ref: 25e6, rf: 1e9, freq: 3}]\n"))
	assert.ErrorContains(t, err, "parsing jobs")
}

func TestDecodeLeavesRangesToSolver(t *testing.T) {
	t.Parallel()
	jobs, err := Decode([]byte("jobs: [{ref: 1, rf: 5e9}]\n"))
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}
