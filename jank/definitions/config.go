package definitions

import "time"

// Config holds one jank run. It is immutable once the run starts.
type Config struct {
	URL         string `json:"url"`
	Package     string `json:"package"`
	Activity    string `json:"activity"`
	ContainerID string `json:"container_id"`
	DeviceID    string `json:"device_id,omitempty"`

	Iterations     int `json:"iterations"`
	ExpectedFrames int `json:"expected_frames"`
	FlingMaxSwipes int `json:"fling_max_swipes"`

	PageLoadDelay  time.Duration `json:"page_load_delay"`
	ElementTimeout time.Duration `json:"element_timeout"`
	TestDelay      time.Duration `json:"test_delay"`
	AnimationTime  time.Duration `json:"animation_time"`
	FlingDuration  time.Duration `json:"fling_duration"`

	// WaitForPage polls for the container after PageLoadDelay instead of
	// trusting the delay alone.
	WaitForPage bool `json:"wait_for_page"`
}

const (
	DefaultPackage        = "com.android.webview.chromium.shell"
	DefaultActivity       = DefaultPackage + ".JankActivity"
	DefaultContainerID    = DefaultPackage + ":id/container"
	DefaultIterations     = 20
	DefaultExpectedFrames = 50
	DefaultFlingMaxSwipes = 20

	DefaultPageLoadDelay  = 20 * time.Second
	DefaultElementTimeout = 10 * time.Second
	DefaultTestDelay      = 2 * time.Second
	DefaultAnimationTime  = 2 * time.Second
	DefaultFlingDuration  = 100 * time.Millisecond
)

// DefaultConfig returns a Config with every field but URL populated.
func DefaultConfig() *Config {
	return &Config{
		Package:        DefaultPackage,
		Activity:       DefaultActivity,
		ContainerID:    DefaultContainerID,
		Iterations:     DefaultIterations,
		ExpectedFrames: DefaultExpectedFrames,
		FlingMaxSwipes: DefaultFlingMaxSwipes,
		PageLoadDelay:  DefaultPageLoadDelay,
		ElementTimeout: DefaultElementTimeout,
		TestDelay:      DefaultTestDelay,
		AnimationTime:  DefaultAnimationTime,
		FlingDuration:  DefaultFlingDuration,
	}
}
