package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spance/webview-jank/jank/definitions"
	"github.com/spance/webview-jank/jank/helper"
)

// ErrElementNotFound is returned when no view matches a selector.
var ErrElementNotFound = errors.New("ui object not found")

// Object is a representation of an Android view.
//
// An Object does NOT identify a single view. It holds a selector that is
// evaluated against a fresh hierarchy dump on every call.
//
// This object corresponds to UiObject in UI Automator API.
type Object struct {
	d *Device
	s *selector
}

// Object creates an Object from given selectors.
//
// Example:
//
//	c := d.Object(ui.ID("pkg:id/container"), ui.Instance(0))
func (d *Device) Object(opts ...SelectorOption) *Object {
	return &Object{d: d, s: newSelector(opts)}
}

// find dumps the hierarchy and returns the selected view.
func (o *Object) find(ctx context.Context) (*definitions.Node, error) {
	data, err := o.d.drv.DumpHierarchy(ctx)
	if err != nil {
		return nil, err
	}
	roots, err := helper.ParseHierarchy(data)
	if err != nil {
		return nil, err
	}

	var found *definitions.Node
	seen := 0
	helper.Walk(roots, func(n *definitions.Node) bool {
		if !o.s.match(n) {
			return true
		}
		if seen == o.s.instance {
			found = n
			return false
		}
		seen++
		return true
	})
	if found == nil {
		return nil, fmt.Errorf("%w: %s", ErrElementNotFound, o.s)
	}
	return found, nil
}

// Exists reports whether a view matching the selector is on screen.
func (o *Object) Exists(ctx context.Context) (bool, error) {
	_, err := o.find(ctx)
	if errors.Is(err, ErrElementNotFound) {
		return false, nil
	}
	return err == nil, err
}

// WaitForExists waits up to timeout for a view matching the selector to
// appear. Dump failures while waiting are retried, since uiautomator
// refuses to dump while the window is animating.
//
// This method corresponds to UiObject.waitForExists().
func (o *Object) WaitForExists(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var lastErr error
	for {
		_, err := o.find(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrElementNotFound) {
			log.Debug().Err(err).Str("selector", o.s.String()).Msg("[WaitForExists] dump failed, retrying")
			lastErr = err
		}

		select {
		case <-time.After(o.d.PollInterval):
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return ctx.Err()
			}
			if lastErr != nil {
				return fmt.Errorf("%w: %s after %v: %w", ErrElementNotFound, o.s, timeout, lastErr)
			}
			return fmt.Errorf("%w: %s after %v", ErrElementNotFound, o.s, timeout)
		}
	}
}

// Bounds returns the on-screen rectangle of the view.
func (o *Object) Bounds(ctx context.Context) (definitions.Bounds, error) {
	n, err := o.find(ctx)
	if err != nil {
		return definitions.Bounds{}, err
	}
	return n.Bounds, nil
}
