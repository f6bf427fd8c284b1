// Package ui locates Android views and performs gestures on them. It follows
// the UI Automator object model but works from `uiautomator dump` snapshots
// and `input swipe`, so nothing has to be installed on the device.
package ui

import (
	"context"
	"time"
)

const (
	// DefaultPollInterval is how often WaitForExists re-dumps the hierarchy.
	DefaultPollInterval = 500 * time.Millisecond

	// DefaultFlingDuration is short enough for the framework to treat the
	// swipe as a fling.
	DefaultFlingDuration = 100 * time.Millisecond
)

// Driver is the device backend the ui package needs.
type Driver interface {
	DumpHierarchy(ctx context.Context) ([]byte, error)
	Swipe(ctx context.Context, x1, y1, x2, y2 int, duration time.Duration) error
}

// Device provides views and gestures of the foreground window.
//
// This object corresponds to UiDevice in UI Automator API.
type Device struct {
	drv Driver

	PollInterval  time.Duration
	FlingDuration time.Duration
}

func NewDevice(drv Driver) *Device {
	return &Device{
		drv:           drv,
		PollInterval:  DefaultPollInterval,
		FlingDuration: DefaultFlingDuration,
	}
}
