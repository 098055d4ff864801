package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/agbru/adfcalc/internal/config"
	"github.com/agbru/adfcalc/internal/testutil"
	"github.com/agbru/adfcalc/internal/ui"
)

func TestPrintExecutionConfig(t *testing.T) {
	ui.InitTheme(true)

	tests := []struct {
		name string
		cfg  config.AppConfig
		want []string
	}{
		{
			name: "single",
			cfg:  config.AppConfig{ReferenceHz: 25e6, OutputHz: 2.4e9, Timeout: time.Minute, Workers: 2},
			want: []string{"Solving 2,400,000,000 Hz from a 25,000,000 Hz reference", "timeout of 1m0s", "2 workers", "Single reference solve"},
		},
		{
			name: "sweep",
			cfg:  config.AppConfig{RefStartHz: 24999990, Steps: 20, OutputHz: 2400000013, Timeout: time.Minute, Workers: 1},
			want: []string{"Sweeping references 24,999,990 Hz + 20 steps", "Reference sweep over 21 candidates"},
		},
		{
			name: "batch",
			cfg:  config.AppConfig{BatchFile: "jobs.yaml", Timeout: time.Minute, Workers: 1},
			want: []string{"Solving jobs from jobs.yaml", "Concurrent batch of jobs"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			PrintExecutionConfig(tt.cfg, &buf)
			PrintExecutionMode(tt.cfg, &buf)
			got := testutil.StripAnsiCodes(buf.String())
			if missing := testutil.MissingParts(got, tt.want...); len(missing) > 0 {
				t.Errorf("missing %q in:\n%s", missing, got)
			}
			if !strings.Contains(got, "FMA") {
				t.Errorf("FMA capability not reported:\n%s", got)
			}
		})
	}
}
