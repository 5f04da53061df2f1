// Package smoke drives a live service instance through the full boxing
// flow over HTTP and verifies the responses.
package smoke

import (
	"time"
)

// Default configuration constants.
const (
	DefaultBaseURL = "http://localhost:9080"
	DefaultTimeout = 10 * time.Second
)

// Config holds the smoke run parameters.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Verbose bool
}

// Stats tracks what the run did.
type Stats struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	ChecksRun    int
	ChecksPassed int
}
