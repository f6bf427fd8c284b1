package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spance/webview-jank/jank"
	"github.com/spance/webview-jank/jank/android"
	"github.com/spance/webview-jank/jank/definitions"
	"github.com/spance/webview-jank/jank/fling"
	"github.com/spance/webview-jank/jank/ui"
	"github.com/spance/webview-jank/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the command line options that are not part of a jank run.
type Config struct {
	ConfigFile  string `json:"config_file"`
	Output      string `json:"output"`
	Connect     string `json:"connect"`
	Disconnect  string `json:"disconnect"`
	ListDevices bool   `json:"list_devices"`
	SkipChecks  bool   `json:"skip_checks"`
	Debug       bool   `json:"debug"`
}

var config = &Config{}

var v *viper.Viper

var rootCmd = &cobra.Command{
	Use:   "webview-jank",
	Short: "WebView fling jank measurement",
	Long: `webview-jank launches the WebView shell on an Android device, flings the
test page repeatedly and reports the frame statistics of every fling.

Test pages must already be on the device, e.g. under
$EXTERNAL_STORAGE/AwJankPages/<page>/index.html.`,
	Example: `  # Measure a page with default settings
  webview-jank --url /sdcard/AwJankPages/list/index.html

  # Run 5 iterations on a specific device and save the report
  webview-jank -d emulator-5554 --url /sdcard/AwJankPages/list/index.html --iterations 5 -o report.json

  # List connected devices
  webview-jank --list-devices

  # Connect to remote device
  webview-jank --connect 192.168.1.100:5555`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              run,
}

func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&config.ConfigFile, "config", "", "Config file (yaml, toml or json)")

	// Run options
	flags.String("url", "", "Path of the test page entry document on the device")
	flags.String("package", definitions.DefaultPackage, "Package of the WebView shell")
	flags.String("activity", definitions.DefaultActivity, "Activity that loads the test page")
	flags.String("container-id", definitions.DefaultContainerID, "Resource id of the scrollable page container")
	flags.Int("iterations", definitions.DefaultIterations, "Number of measured flings")
	flags.Int("expected-frames", definitions.DefaultExpectedFrames, "Minimum frames expected per measured fling")
	flags.Int("fling-max-swipes", definitions.DefaultFlingMaxSwipes, "Maximum flings used to return to the top")
	flags.Duration("page-load-delay", definitions.DefaultPageLoadDelay, "Time allowed for the page to load after launch")
	flags.Duration("element-timeout", definitions.DefaultElementTimeout, "Time allowed for the page container to appear")
	flags.Duration("test-delay", definitions.DefaultTestDelay, "Pause between returning to the top and the measured fling")
	flags.Duration("animation-time", definitions.DefaultAnimationTime, "Pause after the measured fling")
	flags.Duration("fling-duration", definitions.DefaultFlingDuration, "Duration of the swipe gesture of a fling")
	flags.Bool("wait-for-page", false, "Also wait for the page container after the load delay")
	flags.StringVarP(&config.Output, "output", "o", "", "Write the JSON report to this file")
	flags.BoolVar(&config.SkipChecks, "skip-checks", false, "Skip the adb and device checks")

	// Device options
	flags.StringP("device-id", "d", "", "ADB device ID")
	flags.StringVarP(&config.Connect, "connect", "c", "", "Connect to remote device (e.g., 192.168.1.100:5555)")
	flags.StringVar(&config.Disconnect, "disconnect", "", "Disconnect from remote device (or 'all' to disconnect all)")
	flags.BoolVar(&config.ListDevices, "list-devices", false, "List connected devices and exit")

	flags.BoolVar(&config.Debug, "debug", false, "Enable debug logging")

	v = newViper(flags)
}

// newViper layers WEBVIEW_JANK_* environment variables and an optional
// config file under the command line flags.
func newViper(flags *pflag.FlagSet) *viper.Viper {
	v := viper.New()
	cobra.CheckErr(v.BindPFlags(flags))
	v.SetEnvPrefix("WEBVIEW_JANK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command, args []string) error {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if config.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if config.ConfigFile == "" {
		return nil
	}
	v.SetConfigFile(config.ConfigFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file at %s: %w", config.ConfigFile, err)
	}
	log.Debug().Str("file", v.ConfigFileUsed()).Msg("Loaded config file")
	return nil
}

// runConfig builds the jank run configuration from flags, environment and
// config file, in that order of precedence.
func runConfig() (*definitions.Config, error) {
	cfg := &definitions.Config{
		URL:            v.GetString("url"),
		Package:        v.GetString("package"),
		Activity:       v.GetString("activity"),
		ContainerID:    v.GetString("container-id"),
		DeviceID:       v.GetString("device-id"),
		Iterations:     v.GetInt("iterations"),
		ExpectedFrames: v.GetInt("expected-frames"),
		FlingMaxSwipes: v.GetInt("fling-max-swipes"),
		PageLoadDelay:  v.GetDuration("page-load-delay"),
		ElementTimeout: v.GetDuration("element-timeout"),
		TestDelay:      v.GetDuration("test-delay"),
		AnimationTime:  v.GetDuration("animation-time"),
		FlingDuration:  v.GetDuration("fling-duration"),
		WaitForPage:    v.GetBool("wait-for-page"),
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *definitions.Config) error {
	if cfg.Iterations <= 0 {
		return fmt.Errorf("invalid iterations: %d. Must be positive", cfg.Iterations)
	}
	if cfg.FlingMaxSwipes <= 0 {
		return fmt.Errorf("invalid fling-max-swipes: %d. Must be positive", cfg.FlingMaxSwipes)
	}
	if cfg.ElementTimeout <= 0 {
		return fmt.Errorf("invalid element-timeout: %v. Must be positive", cfg.ElementTimeout)
	}
	if cfg.FlingDuration <= 0 {
		return fmt.Errorf("invalid fling-duration: %v. Must be positive", cfg.FlingDuration)
	}
	if cfg.Package == "" || cfg.Activity == "" || cfg.ContainerID == "" {
		return errors.New("package, activity and container-id must not be empty")
	}
	return nil
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	device := android.NewADBDevice(v.GetString("device-id"))

	if hitCmd, err := handleDeviceCommands(ctx, device); hitCmd {
		return err
	}

	cfg, err := runConfig()
	if err != nil {
		return err
	}
	log.Debug().Str("config", utils.JsonString(cfg)).Msg("Run configuration")

	if !config.SkipChecks {
		if err := checkSystemRequirements(ctx, device, cfg.Package); err != nil {
			log.Error().Msg("❌ System check failed. Please fix the issues above.")
			return err
		}
	}

	uiDevice := ui.NewDevice(device)
	uiDevice.FlingDuration = cfg.FlingDuration

	scenario := fling.NewScenario(cfg, device, uiDevice)
	harness := jank.NewHarness(&jank.GfxInfoCollector{Source: device, Package: cfg.Package}, cfg.Iterations)

	report, runErr := harness.Run(ctx, scenario)
	log.Info().Msg(strings.Repeat("=", 50))
	for _, line := range strings.Split(report.Text(), "\n") {
		log.Info().Msg(line)
	}
	log.Info().Msg(strings.Repeat("=", 50))

	if config.Output != "" {
		if err := report.WriteFile(config.Output); err != nil {
			return errors.Join(runErr, err)
		}
		log.Info().Str("file", config.Output).Msg("Report written")
	}

	if runErr != nil {
		log.Error().Err(runErr).Msg("Jank run failed")
		return runErr
	}
	return nil
}

func handleDeviceCommands(ctx context.Context, device *android.ADBDevice) (bool, error) {
	if config.ListDevices {
		devices, err := device.ListDevices(ctx)
		if err != nil {
			return true, err
		}
		if len(devices) == 0 {
			log.Info().Msg("No devices connected.")
			return true, nil
		}
		log.Info().Msg("Connected devices:")
		log.Info().Msg(strings.Repeat("-", 60))
		for _, d := range devices {
			statusIcon := "✅"
			if d.Status != "device" {
				statusIcon = "❌"
			}
			modelInfo := ""
			if d.Model != "" {
				modelInfo = fmt.Sprintf(" (%s)", d.Model)
			}
			log.Info().Msgf("  %s %-30s [%s]%s", statusIcon, d.DeviceID, d.ConnectionType, modelInfo)
		}
		return true, nil
	}

	if config.Connect != "" {
		log.Info().Msgf("Connecting to %s...", config.Connect)
		message, err := device.Connect(ctx, config.Connect)
		if err != nil {
			log.Error().Err(err).Msg("❌")
			return true, err
		}
		log.Info().Str("msg", message).Msg("✅")
		return true, nil
	}

	if config.Disconnect != "" {
		address := config.Disconnect
		if address == "all" {
			log.Info().Msg("Disconnecting all remote devices...")
			address = ""
		} else {
			log.Info().Msgf("Disconnecting from %s...", address)
		}
		message, err := device.Disconnect(ctx, address)
		if err != nil {
			log.Error().Err(err).Msg("❌")
			return true, err
		}
		log.Info().Msgf("✅ %s", message)
		return true, nil
	}

	return false, nil
}

func checkSystemRequirements(ctx context.Context, device *android.ADBDevice, pkg string) error {
	log.Info().Msg("🔍 Checking system requirements...")
	log.Info().Msg(strings.Repeat("-", 50))

	// Check 1: adb installed
	log.Info().Msg("1. Checking ADB installation... ")
	if _, err := exec.LookPath("adb"); err != nil {
		log.Error().Msg("❌ FAILED")
		log.Info().Msg("   Error: ADB is not installed or not in PATH.")
		log.Info().Msg("   Solution: Install ADB:")
		log.Info().Msg("     - macOS: brew install android-platform-tools")
		log.Info().Msg("     - Linux: sudo apt install android-tools-adb")
		log.Info().Msg("     - Windows: Download from https://developer.android.com/studio/releases/platform-tools")
		return err
	}
	log.Info().Msg("✅ OK")

	// Check 2: device connected
	log.Info().Msg("2. Checking connected devices... ")
	devices, err := device.ListDevices(ctx)
	if err != nil {
		log.Error().Msg("❌ FAILED")
		return err
	}
	online := lo.Filter(devices, func(d definitions.DeviceInfo, _ int) bool { return d.Status == "device" })
	if device.DeviceID != "" {
		online = lo.Filter(online, func(d definitions.DeviceInfo, _ int) bool { return d.DeviceID == device.DeviceID })
	}
	if len(online) == 0 {
		log.Error().Msg("❌ FAILED")
		log.Info().Msg("   Error: No devices connected.")
		log.Info().Msg("   Solution:")
		log.Info().Msg("     1. Enable USB debugging on your Android device")
		log.Info().Msg("     2. Connect via USB and authorize the connection")
		log.Info().Msg("     3. Or connect remotely: webview-jank --connect <ip>:<port>")
		return errors.New("no devices connected")
	}
	if device.DeviceID == "" && len(online) > 1 {
		log.Error().Msg("❌ FAILED")
		log.Info().Msg("   Error: More than one device connected, pick one with --device-id.")
		return errors.New("more than one device connected")
	}
	log.Info().Msgf("✅ OK (%s)", strings.Join(lo.Map(online, func(d definitions.DeviceInfo, _ int) string { return d.DeviceID }), ", "))

	// Check 3: WebView shell installed
	log.Info().Msgf("3. Checking %s... ", pkg)
	installed, err := device.IsPackageInstalled(ctx, pkg)
	if err != nil {
		log.Error().Msg("❌ FAILED")
		return err
	}
	if !installed {
		log.Error().Msg("❌ FAILED")
		log.Info().Msgf("   Error: %s is not installed on the device.", pkg)
		log.Info().Msg("   Solution: adb install <shell apk>")
		return fmt.Errorf("%s is not installed", pkg)
	}
	log.Info().Msg("✅ OK")

	log.Info().Msg(strings.Repeat("-", 50))
	log.Info().Msg("✅ All system checks passed!")
	return nil
}
