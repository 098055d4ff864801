package apperrors

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/agbru/adfcalc/internal/synth"
	"github.com/stretchr/testify/assert"
)

// bracketColors makes escape codes visible in assertions.
type bracketColors struct{}

func (bracketColors) Yellow() string { return "[Y]" }
func (bracketColors) Red() string    { return "[R]" }
func (bracketColors) Reset() string  { return "[/]" }

func TestHandleSolveError(t *testing.T) {
	t.Parallel()
	_, rangeErr := synth.Solve(25e6, 100, synth.ADF4351())

	cases := map[string]struct {
		err      error
		took     time.Duration
		colors   ColorProvider
		wantCode int
		wantOut  string
	}{
		"nil":      {nil, 0, nil, ExitSuccess, ""},
		"deadline": {context.DeadlineExceeded, time.Second, bracketColors{}, ExitErrorTimeout, "Status: Timed out after [Y]1s[/]. Raise --timeout to search longer.\n"},
		"canceled": {fmt.Errorf("sweep: %w", context.Canceled), 500 * time.Millisecond, bracketColors{}, ExitErrorCanceled, "[Y]Status: Canceled after [Y]500ms[/].[/]\n"},
		"range":    {rangeErr, 0, bracketColors{}, ExitErrorOutOfRange, "[R]Status: Input out of range.[/] " + fmt.Sprint(rangeErr) + "\n"},
		"config":   {NewConfigError("--rf is required"), 0, nil, ExitErrorConfig, "Configuration error: --rf is required\n"},
		"other":    {errors.New("disk full"), 0, nil, ExitErrorGeneric, "Status: Failed: disk full\n"},
		"plain":    {context.DeadlineExceeded, 0, nil, ExitErrorTimeout, "Status: Timed out. Raise --timeout to search longer.\n"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			assert.Equal(t, tc.wantCode, HandleSolveError(tc.err, tc.took, &out, tc.colors))
			assert.Equal(t, tc.wantOut, out.String())
		})
	}
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	assert.Equal(t, ExitErrorConfig,
		ExitCodeFor(fmt.Errorf("job 2: %w", NewValidationError("jobs[1].rf", "a positive output frequency is required", -1.0))))
	assert.Equal(t, ExitErrorGeneric, ExitCodeFor(NewServerError("bind", errors.New("in use"))))
	assert.Equal(t, ExitSuccess, ExitCodeFor(nil))
}

func TestDefaultColorProvider(t *testing.T) {
	t.Parallel()
	var p DefaultColorProvider
	assert.Empty(t, p.Yellow()+p.Red()+p.Reset())
}
