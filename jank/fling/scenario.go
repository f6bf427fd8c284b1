// Package fling measures jank while flinging a web page inside the WebView
// shell application.
package fling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spance/webview-jank/jank"
	"github.com/spance/webview-jank/jank/android"
	"github.com/spance/webview-jank/jank/definitions"
	"github.com/spance/webview-jank/jank/ui"
)

// ErrMissingURL is returned by Setup when no test page was configured.
var ErrMissingURL = errors.New("no test page url")

// Device is the device control the scenario needs besides view lookup.
type Device interface {
	StartActivity(ctx context.Context, intent android.Intent) error
	SetOrientationNatural(ctx context.Context) error
	UnfreezeRotation(ctx context.Context) error
}

// Container is the scrollable region being flung.
type Container interface {
	WaitForExists(ctx context.Context, timeout time.Duration) error
	FlingForward(ctx context.Context) error
	FlingToBeginning(ctx context.Context, maxSwipes int) (bool, error)
}

// Scenario flings the page container of the WebView shell once per
// iteration.
type Scenario struct {
	cfg    *definitions.Config
	device Device

	// newContainer builds the selector-backed container; it is only
	// called until one resolves.
	newContainer func() Container
	container    Container

	// sleep is replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

var _ jank.Scenario = (*Scenario)(nil)

func NewScenario(cfg *definitions.Config, device Device, uiDevice *ui.Device) *Scenario {
	return &Scenario{
		cfg:    cfg,
		device: device,
		newContainer: func() Container {
			return uiDevice.Scrollable(ui.ID(cfg.ContainerID), ui.Instance(0))
		},
		sleep: sleep,
	}
}

func (s *Scenario) Measurement() jank.Measurement {
	return jank.Measurement{
		Kind:           definitions.ContentFrames,
		ExpectedFrames: s.cfg.ExpectedFrames,
	}
}

// Setup launches the shell on the test page and waits for it to load.
func (s *Scenario) Setup(ctx context.Context) error {
	if s.cfg.URL == "" {
		return ErrMissingURL
	}

	if err := s.device.SetOrientationNatural(ctx); err != nil {
		return fmt.Errorf("failed to set natural orientation: %w", err)
	}

	intent := android.Intent{
		Action:   android.ActionView,
		Package:  s.cfg.Package,
		Activity: s.cfg.Activity,
		Data:     android.FileURI(s.cfg.URL),
		Flags:    android.FlagActivityNewTask,
	}
	log.Info().Str("component", intent.Component()).Str("data", intent.Data).Msg("Launching test page")
	if err := s.device.StartActivity(ctx, intent); err != nil {
		return fmt.Errorf("failed to launch %s: %w", intent.Component(), err)
	}

	log.Info().Dur("delay", s.cfg.PageLoadDelay).Msg("Waiting for page load")
	if err := s.sleep(ctx, s.cfg.PageLoadDelay); err != nil {
		return err
	}
	if s.cfg.WaitForPage {
		if _, err := s.getContainer(ctx); err != nil {
			return err
		}
	}
	return nil
}

// BeforeIteration scrolls back to the top of the page.
func (s *Scenario) BeforeIteration(ctx context.Context) error {
	c, err := s.getContainer(ctx)
	if err != nil {
		return err
	}
	if _, err := c.FlingToBeginning(ctx, s.cfg.FlingMaxSwipes); err != nil {
		return fmt.Errorf("failed to fling to beginning: %w", err)
	}
	return s.sleep(ctx, s.cfg.TestDelay)
}

// MeasuredIteration flings forward once and lets the animation settle.
func (s *Scenario) MeasuredIteration(ctx context.Context) error {
	c, err := s.getContainer(ctx)
	if err != nil {
		return err
	}
	if err := c.FlingForward(ctx); err != nil {
		return fmt.Errorf("failed to fling forward: %w", err)
	}
	return s.sleep(ctx, s.cfg.AnimationTime)
}

// Teardown restores auto-rotation.
func (s *Scenario) Teardown(ctx context.Context) error {
	if err := s.device.UnfreezeRotation(ctx); err != nil {
		return fmt.Errorf("failed to unfreeze rotation: %w", err)
	}
	return nil
}

// getContainer resolves the page container once and reuses it afterwards.
func (s *Scenario) getContainer(ctx context.Context) (Container, error) {
	if s.container != nil {
		return s.container, nil
	}
	c := s.newContainer()
	if err := c.WaitForExists(ctx, s.cfg.ElementTimeout); err != nil {
		return nil, fmt.Errorf("failed to get web container: %w", err)
	}
	s.container = c
	return c, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
