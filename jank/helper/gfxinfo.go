package helper

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spance/webview-jank/jank/definitions"
)

// ParseGfxInfo extracts the frame counters printed by
// `dumpsys gfxinfo <package>`.
//
// Example lines:
//
//	Total frames rendered: 120
//	Janky frames: 5 (4.17%)
//	90th percentile: 12ms
//	Number Missed Vsync: 1
func ParseGfxInfo(output string) (*definitions.FrameStats, error) {
	stats := &definitions.FrameStats{}
	found := false

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		var err error
		switch key {
		case "Total frames rendered":
			stats.TotalFrames, err = strconv.Atoi(value)
			found = err == nil
		case "Janky frames":
			stats.JankyFrames, stats.JankyPercent, err = parseJankyFrames(value)
		case "50th percentile":
			stats.Percentile50, err = parseMillis(value)
		case "90th percentile":
			stats.Percentile90, err = parseMillis(value)
		case "95th percentile":
			stats.Percentile95, err = parseMillis(value)
		case "99th percentile":
			stats.Percentile99, err = parseMillis(value)
		case "Number Missed Vsync":
			stats.MissedVsync, err = strconv.Atoi(value)
		case "Number High input latency":
			stats.HighInputLatency, err = strconv.Atoi(value)
		case "Number Slow UI thread":
			stats.SlowUIThread, err = strconv.Atoi(value)
		case "Number Slow bitmap uploads":
			stats.SlowBitmapUploads, err = strconv.Atoi(value)
		case "Number Slow issue draw commands":
			stats.SlowDrawCommands, err = strconv.Atoi(value)
		}
		if err != nil {
			return nil, fmt.Errorf("invalid gfxinfo line %q: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("no frame statistics in gfxinfo output")
	}
	return stats, nil
}

// parseJankyFrames parses "5 (4.17%)".
func parseJankyFrames(s string) (int, float64, error) {
	countStr, rest, _ := strings.Cut(s, " ")
	count, err := strconv.Atoi(countStr)
	if err != nil {
		return 0, 0, err
	}
	rest = strings.Trim(strings.TrimSpace(rest), "()%")
	if rest == "" {
		return count, 0, nil
	}
	pct, err := strconv.ParseFloat(rest, 64)
	if err != nil {
		return 0, 0, err
	}
	return count, pct, nil
}

// parseMillis parses "12ms".
func parseMillis(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSuffix(s, "ms"), 64)
}
