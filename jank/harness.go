// Package jank runs scripted UI scenarios against a device and collects the
// renderer's frame counters around each measured iteration.
package jank

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spance/webview-jank/jank/definitions"
)

// Measurement declares what a scenario's measured iteration is expected to
// produce.
type Measurement struct {
	Kind           definitions.MeasurementKind `json:"kind"`
	ExpectedFrames int                         `json:"expected_frames"`
}

// Scenario is a scripted test case. The harness calls Setup once, then
// BeforeIteration and MeasuredIteration once per iteration, and Teardown
// once at the end whether or not an earlier stage failed.
type Scenario interface {
	Setup(ctx context.Context) error
	BeforeIteration(ctx context.Context) error
	MeasuredIteration(ctx context.Context) error
	Teardown(ctx context.Context) error
	Measurement() Measurement
}

// FrameCollector samples frame timing around a measured iteration.
type FrameCollector interface {
	Reset(ctx context.Context) error
	Collect(ctx context.Context) (*definitions.FrameStats, error)
}

type Harness struct {
	Collector  FrameCollector
	Iterations int
}

func NewHarness(collector FrameCollector, iterations int) *Harness {
	return &Harness{Collector: collector, Iterations: iterations}
}

// Run executes s and returns the report of every completed iteration. The
// report is non-nil even when err is not.
func (h *Harness) Run(ctx context.Context, s Scenario) (report *Report, err error) {
	report = newReport(s.Measurement())
	defer func() {
		report.finish()
	}()

	defer func() {
		log.Info().Msg("Tearing down")
		if tErr := s.Teardown(context.WithoutCancel(ctx)); tErr != nil {
			log.Error().Err(tErr).Msg("Teardown failed")
			err = errors.Join(err, fmt.Errorf("teardown: %w", tErr))
		}
	}()

	log.Info().Msg("Setting up")
	if err := s.Setup(ctx); err != nil {
		return report, fmt.Errorf("setup: %w", err)
	}

	for i := 0; i < h.Iterations; i++ {
		result, err := h.runIteration(ctx, s, i)
		if err != nil {
			return report, fmt.Errorf("iteration %d: %w", i, err)
		}
		report.add(result)
	}
	return report, nil
}

func (h *Harness) runIteration(ctx context.Context, s Scenario, i int) (IterationResult, error) {
	log.Debug().Int("iteration", i).Msg("Before iteration")
	if err := s.BeforeIteration(ctx); err != nil {
		return IterationResult{}, err
	}

	if err := h.Collector.Reset(ctx); err != nil {
		return IterationResult{}, fmt.Errorf("reset frame stats: %w", err)
	}

	start := time.Now()
	if err := s.MeasuredIteration(ctx); err != nil {
		return IterationResult{}, err
	}
	elapsed := time.Since(start)

	stats, err := h.Collector.Collect(ctx)
	if err != nil {
		return IterationResult{}, fmt.Errorf("collect frame stats: %w", err)
	}

	expected := s.Measurement().ExpectedFrames
	result := IterationResult{
		Index:              i,
		Duration:           elapsed,
		Frames:             *stats,
		InsufficientFrames: stats.TotalFrames < expected,
	}
	if result.InsufficientFrames {
		log.Warn().Int("iteration", i).Int("frames", stats.TotalFrames).Int("expected", expected).
			Msg("Too few frames collected")
	}
	log.Info().Int("iteration", i).Int("frames", stats.TotalFrames).Int("janky", stats.JankyFrames).
		Float64("p90_ms", stats.Percentile90).Msg("Iteration done")
	return result, nil
}
