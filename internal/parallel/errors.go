// Package parallel provides utilities for concurrent operations.
package parallel

import "sync"

// ErrorCollector keeps the first non-nil error reported by concurrent
// goroutines. The batch runner uses it to surface the first interrupted
// job while letting the other jobs report their own outcome.
//
//	var ec parallel.ErrorCollector
//	for _, job := range jobs {
//	    g.Go(func() error {
//	        ec.SetError(run(job))
//	        return nil
//	    })
//	}
//	g.Wait()
//	return ec.Err()
type ErrorCollector struct {
	mu  sync.Mutex
	err error
	n   int
}

// SetError records err if no error was recorded yet. Nil is ignored.
func (c *ErrorCollector) SetError(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	if c.err == nil {
		c.err = err
	}
}

// Err returns the first recorded error, or nil.
func (c *ErrorCollector) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Count returns how many non-nil errors were reported.
func (c *ErrorCollector) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}
