package app

import (
	"context"
	"os/signal"
	"syscall"
	"time"
)

// boundedRun derives the context a solve, sweep or batch runs under. It ends
// with context.DeadlineExceeded once timeout elapses and with
// context.Canceled on SIGINT or SIGTERM, so an interrupted sweep can still
// report the best reference it found. Call stop when the run is over.
func boundedRun(parent context.Context, timeout time.Duration) (ctx context.Context, stop func()) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	ctx, unhook := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	return ctx, func() {
		unhook()
		cancel()
	}
}
