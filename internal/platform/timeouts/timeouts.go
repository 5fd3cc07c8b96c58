// Package timeouts defines shared timeout constants used across the
// arena service. Centralizing these values prevents drift between
// service boundaries and makes the durations discoverable.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// Archive caps the time allowed for a single snapshot or result write.
const Archive = 2 * time.Second
