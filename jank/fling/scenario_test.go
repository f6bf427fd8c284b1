package fling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spance/webview-jank/jank"
	"github.com/spance/webview-jank/jank/android"
	"github.com/spance/webview-jank/jank/definitions"
	"github.com/spance/webview-jank/jank/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDevice struct {
	mock.Mock
	events *[]string
}

func (m *mockDevice) StartActivity(ctx context.Context, intent android.Intent) error {
	*m.events = append(*m.events, "start")
	return m.Called(ctx, intent).Error(0)
}

func (m *mockDevice) SetOrientationNatural(ctx context.Context) error {
	*m.events = append(*m.events, "freeze")
	return m.Called(ctx).Error(0)
}

func (m *mockDevice) UnfreezeRotation(ctx context.Context) error {
	*m.events = append(*m.events, "unfreeze")
	return m.Called(ctx).Error(0)
}

type fakeContainer struct {
	events    *[]string
	exists    error
	flingErr  error
	maxSwipes []int
}

func (f *fakeContainer) WaitForExists(ctx context.Context, timeout time.Duration) error {
	*f.events = append(*f.events, "wait")
	return f.exists
}

func (f *fakeContainer) FlingForward(ctx context.Context) error {
	*f.events = append(*f.events, "forward")
	return f.flingErr
}

func (f *fakeContainer) FlingToBeginning(ctx context.Context, maxSwipes int) (bool, error) {
	*f.events = append(*f.events, "beginning")
	f.maxSwipes = append(f.maxSwipes, maxSwipes)
	return true, nil
}

type fakeCollector struct {
	events *[]string
	frames int
}

func (f *fakeCollector) Reset(ctx context.Context) error {
	*f.events = append(*f.events, "reset")
	return nil
}

func (f *fakeCollector) Collect(ctx context.Context) (*definitions.FrameStats, error) {
	*f.events = append(*f.events, "collect")
	return &definitions.FrameStats{TotalFrames: f.frames, JankyFrames: 1}, nil
}

type fixture struct {
	events    []string
	device    *mockDevice
	container *fakeContainer
	collector *fakeCollector
	built     int
	sleeps    []time.Duration
	scenario  *Scenario
}

func newFixture(t *testing.T, url string) *fixture {
	f := &fixture{}
	f.device = &mockDevice{events: &f.events}
	f.device.On("SetOrientationNatural", mock.Anything).Return(nil).Maybe()
	f.device.On("UnfreezeRotation", mock.Anything).Return(nil).Maybe()
	f.container = &fakeContainer{events: &f.events}
	f.collector = &fakeCollector{events: &f.events, frames: 60}

	cfg := definitions.DefaultConfig()
	cfg.URL = url
	f.scenario = NewScenario(cfg, f.device, ui.NewDevice(nil))
	f.scenario.newContainer = func() Container {
		f.built++
		return f.container
	}
	f.scenario.sleep = func(ctx context.Context, d time.Duration) error {
		f.sleeps = append(f.sleeps, d)
		return nil
	}
	t.Cleanup(func() { f.device.AssertExpectations(t) })
	return f
}

func TestSetup_MissingURL(t *testing.T) {
	f := newFixture(t, "")

	err := f.scenario.Setup(context.Background())
	assert.ErrorIs(t, err, ErrMissingURL)
	f.device.AssertNotCalled(t, "StartActivity", mock.Anything, mock.Anything)
}

func TestSetup_LaunchesOnce(t *testing.T) {
	f := newFixture(t, "/sdcard/AwJankPages/list/index.html")
	f.device.On("StartActivity", mock.Anything, mock.MatchedBy(func(i android.Intent) bool {
		return i.Data == "file:///sdcard/AwJankPages/list/index.html" &&
			i.Component() == "com.android.webview.chromium.shell/com.android.webview.chromium.shell.JankActivity" &&
			i.Action == android.ActionView &&
			i.Flags == android.FlagActivityNewTask
	})).Return(nil).Once()

	require.NoError(t, f.scenario.Setup(context.Background()))
	f.device.AssertNumberOfCalls(t, "StartActivity", 1)
	assert.Equal(t, []string{"freeze", "start"}, f.events)
	assert.Equal(t, []time.Duration{definitions.DefaultPageLoadDelay}, f.sleeps)
	assert.Zero(t, f.built, "container must not be resolved without WaitForPage")
}

func TestSetup_WaitForPage(t *testing.T) {
	f := newFixture(t, "/sdcard/page.html")
	f.device.On("StartActivity", mock.Anything, mock.Anything).Return(nil).Once()
	f.scenario.cfg.WaitForPage = true

	require.NoError(t, f.scenario.Setup(context.Background()))
	assert.Equal(t, []string{"freeze", "start", "wait"}, f.events)
}

func TestSetup_LaunchFailure(t *testing.T) {
	f := newFixture(t, "/sdcard/page.html")
	f.device.On("StartActivity", mock.Anything, mock.Anything).Return(errors.New("boom")).Once()

	err := f.scenario.Setup(context.Background())
	assert.ErrorContains(t, err, "boom")
	assert.Empty(t, f.sleeps)
}

func TestGetContainer_ResolvesOnce(t *testing.T) {
	f := newFixture(t, "/sdcard/page.html")

	c1, err := f.scenario.getContainer(context.Background())
	require.NoError(t, err)
	c2, err := f.scenario.getContainer(context.Background())
	require.NoError(t, err)

	assert.Same(t, c1, c2)
	assert.Equal(t, 1, f.built)
	assert.Equal(t, []string{"wait"}, f.events)
}

func TestGetContainer_NotFound(t *testing.T) {
	f := newFixture(t, "/sdcard/page.html")
	f.container.exists = ui.ErrElementNotFound

	err := f.scenario.BeforeIteration(context.Background())
	assert.ErrorIs(t, err, ui.ErrElementNotFound)
	assert.ErrorContains(t, err, "failed to get web container")

	err = f.scenario.MeasuredIteration(context.Background())
	assert.ErrorIs(t, err, ui.ErrElementNotFound)
	assert.NotContains(t, f.events, "forward")
}

func TestIterations(t *testing.T) {
	f := newFixture(t, "/sdcard/page.html")

	require.NoError(t, f.scenario.BeforeIteration(context.Background()))
	require.NoError(t, f.scenario.MeasuredIteration(context.Background()))

	assert.Equal(t, []string{"wait", "beginning", "forward"}, f.events)
	assert.Equal(t, []int{definitions.DefaultFlingMaxSwipes}, f.container.maxSwipes)
	assert.Equal(t, []time.Duration{definitions.DefaultTestDelay, definitions.DefaultAnimationTime}, f.sleeps)
}

func TestMeasurement(t *testing.T) {
	f := newFixture(t, "/sdcard/page.html")
	assert.Equal(t, jank.Measurement{Kind: definitions.ContentFrames, ExpectedFrames: 50}, f.scenario.Measurement())
}

func TestRun_FullSequence(t *testing.T) {
	f := newFixture(t, "/sdcard/page.html")
	f.device.On("StartActivity", mock.Anything, mock.Anything).Return(nil).Once()

	report, err := jank.NewHarness(f.collector, 2).Run(context.Background(), f.scenario)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"freeze", "start",
		"wait", "beginning", "reset", "forward", "collect",
		"beginning", "reset", "forward", "collect",
		"unfreeze",
	}, f.events)
	assert.Equal(t, 1, f.built)
	require.Len(t, report.Iterations, 2)
	assert.Equal(t, 120, report.Summary.TotalFrames)
}

func TestRun_TeardownAfterIterationError(t *testing.T) {
	f := newFixture(t, "/sdcard/page.html")
	f.device.On("StartActivity", mock.Anything, mock.Anything).Return(nil).Once()
	f.container.flingErr = errors.New("swipe failed")

	report, err := jank.NewHarness(f.collector, 3).Run(context.Background(), f.scenario)
	assert.ErrorContains(t, err, "swipe failed")
	assert.Empty(t, report.Iterations)
	assert.Equal(t, "unfreeze", f.events[len(f.events)-1])
	f.device.AssertCalled(t, "UnfreezeRotation", mock.Anything)
}

func TestRun_TeardownAfterSetupError(t *testing.T) {
	f := newFixture(t, "")

	_, err := jank.NewHarness(f.collector, 3).Run(context.Background(), f.scenario)
	assert.ErrorIs(t, err, ErrMissingURL)
	assert.Equal(t, []string{"unfreeze"}, f.events)
}

// countingDriver serves one fixed hierarchy and counts dumps and swipes.
type countingDriver struct {
	dumps  int
	swipes int
}

func (c *countingDriver) DumpHierarchy(ctx context.Context) ([]byte, error) {
	c.dumps++
	return []byte(`<hierarchy rotation="0">
  <node class="android.widget.FrameLayout" resource-id="com.android.webview.chromium.shell:id/container" bounds="[0,100][1080,1100]">
    <node class="android.webkit.WebView" text="top" bounds="[0,100][1080,1100]"/>
  </node>
</hierarchy>`), nil
}

func (c *countingDriver) Swipe(ctx context.Context, x1, y1, x2, y2 int, duration time.Duration) error {
	c.swipes++
	return nil
}

func TestMeasuredIteration_OnlySwipes(t *testing.T) {
	drv := &countingDriver{}
	uiDevice := ui.NewDevice(drv)
	uiDevice.PollInterval = time.Millisecond
	s := NewScenario(definitions.DefaultConfig(), &mockDevice{events: new([]string)}, uiDevice)
	s.sleep = func(ctx context.Context, d time.Duration) error { return nil }

	require.NoError(t, s.BeforeIteration(context.Background()))
	dumps, swipes := drv.dumps, drv.swipes

	require.NoError(t, s.MeasuredIteration(context.Background()))
	assert.Equal(t, dumps, drv.dumps)
	assert.Equal(t, swipes+1, drv.swipes)
}
