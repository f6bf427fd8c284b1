package jank

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/spance/webview-jank/constants"
	"github.com/spance/webview-jank/jank/definitions"
	"github.com/spance/webview-jank/utils"
	"github.com/valyala/fasttemplate"
)

type IterationResult struct {
	Index              int                    `json:"index"`
	Duration           time.Duration          `json:"duration"`
	Frames             definitions.FrameStats `json:"frames"`
	InsufficientFrames bool                   `json:"insufficient_frames"`
}

type Summary struct {
	Iterations         int     `json:"iterations"`
	InsufficientFrames int     `json:"insufficient_frames"`
	TotalFrames        int     `json:"total_frames"`
	MeanJankyFrames    float64 `json:"mean_janky_frames"`
	MaxJankyFrames     int     `json:"max_janky_frames"`
	MeanJankyPercent   float64 `json:"mean_janky_percent"`
	MeanPercentile90   float64 `json:"mean_percentile_90_ms"`
	MaxPercentile90    float64 `json:"max_percentile_90_ms"`
	MeanPercentile95   float64 `json:"mean_percentile_95_ms"`
	MaxPercentile95    float64 `json:"max_percentile_95_ms"`
	MeanPercentile99   float64 `json:"mean_percentile_99_ms"`
	MaxPercentile99    float64 `json:"max_percentile_99_ms"`
}

type Report struct {
	RunID       string            `json:"run_id"`
	StartedAt   time.Time         `json:"started_at"`
	FinishedAt  time.Time         `json:"finished_at"`
	Measurement Measurement       `json:"measurement"`
	Iterations  []IterationResult `json:"iterations"`
	Summary     Summary           `json:"summary"`
}

func newReport(m Measurement) *Report {
	return &Report{
		RunID:       uuid.New().String(),
		StartedAt:   time.Now(),
		Measurement: m,
		Iterations:  []IterationResult{},
	}
}

func (r *Report) add(result IterationResult) {
	r.Iterations = append(r.Iterations, result)
}

func (r *Report) finish() {
	r.FinishedAt = time.Now()
	r.Summary = Summarize(r.Iterations)
}

// Summarize aggregates iteration results. An empty input yields a zero
// Summary.
func Summarize(results []IterationResult) Summary {
	n := len(results)
	if n == 0 {
		return Summary{}
	}
	mean := func(f func(IterationResult) float64) float64 {
		return lo.SumBy(results, f) / float64(n)
	}
	frames := lo.Map(results, func(r IterationResult, _ int) definitions.FrameStats { return r.Frames })

	return Summary{
		Iterations:         n,
		InsufficientFrames: lo.CountBy(results, func(r IterationResult) bool { return r.InsufficientFrames }),
		TotalFrames:        lo.SumBy(frames, func(f definitions.FrameStats) int { return f.TotalFrames }),
		MeanJankyFrames:    mean(func(r IterationResult) float64 { return float64(r.Frames.JankyFrames) }),
		MaxJankyFrames:     lo.Max(lo.Map(frames, func(f definitions.FrameStats, _ int) int { return f.JankyFrames })),
		MeanJankyPercent:   mean(func(r IterationResult) float64 { return r.Frames.JankyPercent }),
		MeanPercentile90:   mean(func(r IterationResult) float64 { return r.Frames.Percentile90 }),
		MaxPercentile90:    lo.Max(lo.Map(frames, func(f definitions.FrameStats, _ int) float64 { return f.Percentile90 })),
		MeanPercentile95:   mean(func(r IterationResult) float64 { return r.Frames.Percentile95 }),
		MaxPercentile95:    lo.Max(lo.Map(frames, func(f definitions.FrameStats, _ int) float64 { return f.Percentile95 })),
		MeanPercentile99:   mean(func(r IterationResult) float64 { return r.Frames.Percentile99 }),
		MaxPercentile99:    lo.Max(lo.Map(frames, func(f definitions.FrameStats, _ int) float64 { return f.Percentile99 })),
	}
}

// Text renders the human readable summary.
func (r *Report) Text() string {
	s := r.Summary
	return fasttemplate.ExecuteString(constants.SummaryTemplate, "{{ ", " }}", map[string]interface{}{
		"run_id":             r.RunID,
		"kind":               string(r.Measurement.Kind),
		"expected_frames":    strconv.Itoa(r.Measurement.ExpectedFrames),
		"iterations":         strconv.Itoa(s.Iterations),
		"insufficient":       strconv.Itoa(s.InsufficientFrames),
		"total_frames":       strconv.Itoa(s.TotalFrames),
		"mean_janky":         formatFloat(s.MeanJankyFrames),
		"max_janky":          strconv.Itoa(s.MaxJankyFrames),
		"mean_janky_percent": formatFloat(s.MeanJankyPercent),
		"mean_p90":           formatFloat(s.MeanPercentile90),
		"max_p90":            formatFloat(s.MaxPercentile90),
		"mean_p95":           formatFloat(s.MeanPercentile95),
		"max_p95":            formatFloat(s.MaxPercentile95),
		"mean_p99":           formatFloat(s.MeanPercentile99),
		"max_p99":            formatFloat(s.MaxPercentile99),
	})
}

// WriteFile stores the report as indented JSON.
func (r *Report) WriteFile(path string) error {
	data, err := utils.JsonIndent(r)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", path, err)
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
