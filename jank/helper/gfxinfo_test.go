package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGfxInfo = `Applications Graphics Acceleration Info:
Uptime: 1044318 Realtime: 1044318

** Graphics info for pid 4120 [com.android.webview.chromium.shell] **

Stats since: 1036842519254ns
Total frames rendered: 132
Janky frames: 7 (5.30%)
50th percentile: 9ms
90th percentile: 14ms
95th percentile: 18ms
99th percentile: 34ms
Number Missed Vsync: 2
Number High input latency: 0
Number Slow UI thread: 3
Number Slow bitmap uploads: 1
Number Slow issue draw commands: 4
HISTOGRAM: 5ms=12 6ms=30 7ms=18
`

func TestParseGfxInfo(t *testing.T) {
	stats, err := ParseGfxInfo(sampleGfxInfo)
	require.NoError(t, err)

	assert.Equal(t, 132, stats.TotalFrames)
	assert.Equal(t, 7, stats.JankyFrames)
	assert.InDelta(t, 5.30, stats.JankyPercent, 0.001)
	assert.InDelta(t, 9, stats.Percentile50, 0.001)
	assert.InDelta(t, 14, stats.Percentile90, 0.001)
	assert.InDelta(t, 18, stats.Percentile95, 0.001)
	assert.InDelta(t, 34, stats.Percentile99, 0.001)
	assert.Equal(t, 2, stats.MissedVsync)
	assert.Equal(t, 3, stats.SlowUIThread)
	assert.Equal(t, 1, stats.SlowBitmapUploads)
	assert.Equal(t, 4, stats.SlowDrawCommands)
}

func TestParseGfxInfo_NoStats(t *testing.T) {
	_, err := ParseGfxInfo("No process found for: com.example\n")
	assert.Error(t, err)
}

func TestParseGfxInfo_Malformed(t *testing.T) {
	_, err := ParseGfxInfo("Total frames rendered: 10\nJanky frames: many\n")
	assert.Error(t, err)
}

func TestParseGfxInfo_JankyWithoutPercent(t *testing.T) {
	stats, err := ParseGfxInfo("Total frames rendered: 10\nJanky frames: 0\n")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.JankyFrames)
	assert.Zero(t, stats.JankyPercent)
}
