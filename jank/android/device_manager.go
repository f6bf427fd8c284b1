package android

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spance/webview-jank/jank/definitions"
)

func (r *ADBDevice) Connect(ctx context.Context, address string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmdArgs := []string{"connect", address}
	log.Debug().Str("cmd", fmt.Sprintf("[Connect] run cmd: %s %s", adbPath, strings.Join(cmdArgs, " "))).Msg("")

	rawOutput, err := r.runner().Run(ctx, adbPath, cmdArgs...)
	if err != nil {
		log.Error().Err(err).Msg("[Connect] run cmd failed")
		return fmt.Sprintf("Connect error: %v", err), err
	}
	output := string(rawOutput)
	log.Debug().Str("output", output).Msg("[Connect] raw output")

	lowerOutput := strings.ToLower(output)
	if strings.Contains(lowerOutput, "already connected") {
		return fmt.Sprintf("Already connected to %s", address), nil
	}
	if strings.Contains(lowerOutput, " connected") {
		return fmt.Sprintf("Connected to %s", address), nil
	}
	return "", fmt.Errorf("connection error: %s", strings.TrimSpace(output))
}

func (r *ADBDevice) Disconnect(ctx context.Context, address string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmdArgs := []string{"disconnect"}
	if len(address) > 0 {
		cmdArgs = append(cmdArgs, address)
	}
	log.Debug().Str("cmd", fmt.Sprintf("[Disconnect] run cmd: %s %s", adbPath, strings.Join(cmdArgs, " "))).Msg("")

	rawOutput, err := r.runner().Run(ctx, adbPath, cmdArgs...)
	if err != nil {
		log.Error().Err(err).Msg("[Disconnect] run cmd failed")
		return fmt.Sprintf("Disconnect error: %v", err), err
	}
	log.Debug().Str("output", string(rawOutput)).Msg("[Disconnect] raw output")

	return strings.TrimSpace(string(rawOutput)), nil
}

func (r *ADBDevice) ListDevices(ctx context.Context) ([]definitions.DeviceInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmdArgs := []string{"devices", "-l"}
	log.Debug().Str("cmd", fmt.Sprintf("[ListDevices] run cmd: %s %s", adbPath, strings.Join(cmdArgs, " "))).Msg("")

	rawOutput, err := r.runner().Run(ctx, adbPath, cmdArgs...)
	if err != nil {
		log.Error().Err(err).Msg("[ListDevices] run cmd failed")
		return nil, err
	}
	return parseDevices(string(rawOutput)), nil
}

func parseDevices(output string) []definitions.DeviceInfo {
	var devices []definitions.DeviceInfo
	scanner := bufio.NewScanner(strings.NewReader(output))

	// Skip the first line (header)
	scanner.Scan()

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "*") {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}

		deviceID := parts[0]
		connType := definitions.USB
		if strings.Contains(deviceID, ":") {
			connType = definitions.Remote
		}

		var model string
		for _, part := range parts[2:] {
			if strings.HasPrefix(part, "model:") {
				model = strings.SplitN(part, ":", 2)[1]
				break
			}
		}

		devices = append(devices, definitions.DeviceInfo{
			DeviceID:       deviceID,
			Status:         parts[1],
			ConnectionType: connType,
			Model:          model,
		})
	}
	return devices
}
