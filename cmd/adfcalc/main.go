// Command adfcalc computes ADF4351 PLL register values for a reference and
// output frequency, sweeps reference frequencies for the smallest error,
// and serves the same calculations over HTTP.
package main

import (
	"context"
	"os"

	"github.com/agbru/adfcalc/internal/app"
	apperrors "github.com/agbru/adfcalc/internal/errors"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout, os.Args[1:])
		os.Exit(apperrors.ExitSuccess)
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(apperrors.ExitSuccess)
		}
		os.Exit(apperrors.ExitCodeFor(err))
	}

	os.Exit(application.Run(context.Background(), os.Stdout))
}
