// Package loadgen drives a running rating server with random matches and
// checks every answer against a local calculation.
package loadgen

import "time"

// Config holds configuration for a load run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Matches    int           // Number of matches to generate
	BatchSize  int           // Matches per /v1/batch request; 0 or 1 posts matches one by one
	Workers    int           // Number of concurrent senders
	Timeout    time.Duration // HTTP request timeout
	Seed       uint64        // Seed for the match generator
	OutputFile string        // Optional file the generated matches are written to
}

// Stats holds run statistics.
type Stats struct {
	Generated  int
	Submitted  int
	Successful int
	Rejected   int // answered with an error the generator expected
	Failed     int // transport errors and unexpected error responses
	Mismatched int // answers that differ from the local calculation
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
}
