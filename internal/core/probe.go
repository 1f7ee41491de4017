package core

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"
)

// dialTimeout bounds a single readiness probe.
const dialTimeout = 500 * time.Millisecond

// IsListening reports whether something accepts TCP connections on addr.
func IsListening(addr string, timeout time.Duration) bool {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// WaitReady polls addr every interval until a TCP connection succeeds or ctx
// ends. It returns how long the wait took. A non-nil alive is checked before
// every attempt; its error ends the wait, so a server that died never
// costs the full timeout.
func WaitReady(ctx context.Context, addr string, interval time.Duration, alive func() error) (time.Duration, error) {
	started := time.Now()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	attempts := 0
	for {
		if alive != nil {
			if err := alive(); err != nil {
				return time.Since(started), fmt.Errorf("server for %s gone before it was ready: %w", addr, err)
			}
		}

		attempts++
		var d net.Dialer
		dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
		conn, err := d.DialContext(dialCtx, "tcp", addr)
		cancel()
		if err == nil {
			conn.Close()
			elapsed := time.Since(started)
			log.Printf("[Probe] %s ready after %s (%d attempts)", addr, elapsed.Round(time.Millisecond), attempts)
			return elapsed, nil
		}

		select {
		case <-ctx.Done():
			return time.Since(started), fmt.Errorf("server at %s not ready after %d attempts: %w", addr, attempts, ctx.Err())
		case <-ticker.C:
		}
	}
}
