package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spance/webview-jank/jank/definitions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetConfig() {
	config.ConfigFile = ""
	v = newViper(rootCmd.PersistentFlags())
}

func TestRunConfig_Defaults(t *testing.T) {
	cfg, err := runConfig()
	require.NoError(t, err)

	want := definitions.DefaultConfig()
	assert.Equal(t, want, cfg)
}

func TestRunConfig_Env(t *testing.T) {
	t.Setenv("WEBVIEW_JANK_URL", "/sdcard/AwJankPages/list/index.html")
	t.Setenv("WEBVIEW_JANK_ITERATIONS", "5")
	t.Setenv("WEBVIEW_JANK_PAGE_LOAD_DELAY", "30s")

	cfg, err := runConfig()
	require.NoError(t, err)
	assert.Equal(t, "/sdcard/AwJankPages/list/index.html", cfg.URL)
	assert.Equal(t, 5, cfg.Iterations)
	assert.Equal(t, 30*time.Second, cfg.PageLoadDelay)
}

func TestRunConfig_Invalid(t *testing.T) {
	t.Setenv("WEBVIEW_JANK_ITERATIONS", "0")

	_, err := runConfig()
	assert.ErrorContains(t, err, "invalid iterations")
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jank.yaml")
	require.NoError(t, os.WriteFile(path, []byte("url: /sdcard/page/index.html\nexpected-frames: 30\n"), 0o644))

	config.ConfigFile = path
	t.Cleanup(resetConfig)
	require.NoError(t, loadConfig(rootCmd, nil))

	cfg, err := runConfig()
	require.NoError(t, err)
	assert.Equal(t, "/sdcard/page/index.html", cfg.URL)
	assert.Equal(t, 30, cfg.ExpectedFrames)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	config.ConfigFile = filepath.Join(t.TempDir(), "missing.yaml")
	t.Cleanup(resetConfig)

	assert.Error(t, loadConfig(rootCmd, nil))
}
