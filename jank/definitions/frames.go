package definitions

// MeasurementKind names what the frame counters are attributed to.
type MeasurementKind string

const (
	ContentFrames MeasurementKind = "CONTENT_FRAMES"
)

// FrameStats is a snapshot of the renderer counters of one package, taken
// from dumpsys gfxinfo.
type FrameStats struct {
	TotalFrames  int     `json:"total_frames"`
	JankyFrames  int     `json:"janky_frames"`
	JankyPercent float64 `json:"janky_percent"`

	Percentile50 float64 `json:"percentile_50_ms"`
	Percentile90 float64 `json:"percentile_90_ms"`
	Percentile95 float64 `json:"percentile_95_ms"`
	Percentile99 float64 `json:"percentile_99_ms"`

	MissedVsync       int `json:"missed_vsync"`
	HighInputLatency  int `json:"high_input_latency"`
	SlowUIThread      int `json:"slow_ui_thread"`
	SlowBitmapUploads int `json:"slow_bitmap_uploads"`
	SlowDrawCommands  int `json:"slow_draw_commands"`
}
