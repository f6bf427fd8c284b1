package android

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spance/webview-jank/jank/definitions"
	"github.com/spance/webview-jank/jank/helper"
)

// ADBDevice drives one Android device through the adb binary. An empty
// DeviceID targets the only attached device.
type ADBDevice struct {
	DeviceID string
	Runner   CommandRunner
}

func NewADBDevice(deviceID string) *ADBDevice {
	return &ADBDevice{DeviceID: deviceID, Runner: ExecRunner}
}

func (r *ADBDevice) runner() CommandRunner {
	if r.Runner == nil {
		return ExecRunner
	}
	return r.Runner
}

func (r *ADBDevice) GetADBPrefix() []string {
	if r.DeviceID != "" {
		return []string{"-s", r.DeviceID}
	}
	return nil
}

// run executes an adb subcommand for this device. op only labels the log
// line.
func (r *ADBDevice) run(ctx context.Context, op string, args ...string) (string, error) {
	args = append(r.GetADBPrefix(), args...)
	log.Debug().Str("cmd", fmt.Sprintf("[%s] run cmd: %s %s", op, adbPath, strings.Join(args, " "))).Msg("")

	output, err := r.runner().Run(ctx, adbPath, args...)
	if err != nil {
		log.Error().Err(err).Str("output", string(output)).Msgf("[%s] run cmd failed", op)
		return string(output), fmt.Errorf("%s: %w", op, err)
	}
	log.Trace().Str("output", string(output)).Msgf("[%s] raw output", op)
	return string(output), nil
}

// StartActivity submits intent with `am start`.
func (r *ADBDevice) StartActivity(ctx context.Context, intent Intent) error {
	args := append([]string{"shell", "am", "start"}, intent.ShellArgs()...)
	output, err := r.run(ctx, "StartActivity", args...)
	if err != nil {
		return err
	}
	// am reports resolution failures on stdout with a zero exit code
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "Error") || strings.HasPrefix(line, "Exception") {
			return fmt.Errorf("failed to start %s: %s", intent.Component(), line)
		}
	}
	return nil
}

// SetOrientationNatural disables auto-rotation and locks the natural
// orientation.
func (r *ADBDevice) SetOrientationNatural(ctx context.Context) error {
	if _, err := r.run(ctx, "SetOrientationNatural",
		"shell", "settings", "put", "system", "accelerometer_rotation", "0"); err != nil {
		return err
	}
	_, err := r.run(ctx, "SetOrientationNatural",
		"shell", "settings", "put", "system", "user_rotation", "0")
	return err
}

// UnfreezeRotation re-enables auto-rotation.
func (r *ADBDevice) UnfreezeRotation(ctx context.Context) error {
	_, err := r.run(ctx, "UnfreezeRotation",
		"shell", "settings", "put", "system", "accelerometer_rotation", "1")
	return err
}

// DumpHierarchy returns the XML of the current window hierarchy.
func (r *ADBDevice) DumpHierarchy(ctx context.Context) ([]byte, error) {
	remotePath := fmt.Sprintf("/sdcard/window_dump_%s.xml", uuid.New().String())
	defer func() {
		_, _ = r.run(context.WithoutCancel(ctx), "DumpHierarchy", "shell", "rm", "-f", remotePath)
	}()

	output, err := r.run(ctx, "DumpHierarchy", "shell", "uiautomator", "dump", remotePath)
	if err != nil {
		return nil, err
	}
	if strings.Contains(output, "ERROR") {
		return nil, fmt.Errorf("uiautomator dump failed: %s", strings.TrimSpace(output))
	}

	xml, err := r.run(ctx, "DumpHierarchy", "exec-out", "cat", remotePath)
	if err != nil {
		return nil, err
	}
	return []byte(xml), nil
}

// Swipe drags from (x1, y1) to (x2, y2). A short duration makes the
// gesture a fling.
func (r *ADBDevice) Swipe(ctx context.Context, x1, y1, x2, y2 int, duration time.Duration) error {
	_, err := r.run(ctx, "Swipe",
		"shell", "input", "swipe",
		strconv.Itoa(x1), strconv.Itoa(y1),
		strconv.Itoa(x2), strconv.Itoa(y2),
		strconv.FormatInt(duration.Milliseconds(), 10),
	)
	return err
}

// ResetFrameStats clears the renderer counters of pkg.
func (r *ADBDevice) ResetFrameStats(ctx context.Context, pkg string) error {
	_, err := r.run(ctx, "ResetFrameStats", "shell", "dumpsys", "gfxinfo", pkg, "reset")
	return err
}

// FrameStats reads the renderer counters of pkg accumulated since the last
// reset.
func (r *ADBDevice) FrameStats(ctx context.Context, pkg string) (*definitions.FrameStats, error) {
	output, err := r.run(ctx, "FrameStats", "shell", "dumpsys", "gfxinfo", pkg)
	if err != nil {
		return nil, err
	}
	stats, err := helper.ParseGfxInfo(output)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame stats of %s: %w", pkg, err)
	}
	return stats, nil
}

// IsPackageInstalled reports whether pkg is installed on the device.
func (r *ADBDevice) IsPackageInstalled(ctx context.Context, pkg string) (bool, error) {
	output, err := r.run(ctx, "IsPackageInstalled", "shell", "pm", "path", pkg)
	if err != nil {
		// pm exits non-zero for unknown packages
		if strings.TrimSpace(output) == "" {
			return false, nil
		}
		return false, err
	}
	return strings.HasPrefix(strings.TrimSpace(output), "package:"), nil
}
