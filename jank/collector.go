package jank

import (
	"context"

	"github.com/spance/webview-jank/jank/definitions"
)

// FrameStatsSource exposes per-package renderer counters.
type FrameStatsSource interface {
	ResetFrameStats(ctx context.Context, pkg string) error
	FrameStats(ctx context.Context, pkg string) (*definitions.FrameStats, error)
}

// GfxInfoCollector attributes every frame rendered by Package to the
// measured iteration.
type GfxInfoCollector struct {
	Source  FrameStatsSource
	Package string
}

func (c *GfxInfoCollector) Reset(ctx context.Context) error {
	return c.Source.ResetFrameStats(ctx, c.Package)
}

func (c *GfxInfoCollector) Collect(ctx context.Context) (*definitions.FrameStats, error) {
	return c.Source.FrameStats(ctx, c.Package)
}
