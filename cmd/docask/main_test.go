package main

import (
	"testing"
	"time"
)

func TestStartSpinnerStops(t *testing.T) {
	stop := startSpinner(" working...")

	// Let the ticker goroutine advance the spinner a few times.
	time.Sleep(250 * time.Millisecond)

	stop()
	// A second call is a no-op rather than a double close.
	stop()
}
