// Package config loads process configuration from the environment.
// All variables are prefixed STEPVIEW_ and have working defaults, so a
// bare `stepview` launch needs no setup.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the runtime configuration.
type Config struct {
	// Window dimensions in pixels.
	Width  int `envconfig:"WIDTH" default:"1280"`
	Height int `envconfig:"HEIGHT" default:"800"`

	// Seed used for the first input generation of every demo.
	Seed int64 `envconfig:"SEED" default:"1"`

	// Directory screenshot bitmaps are written to.
	ScreenshotDir string `envconfig:"SCREENSHOT_DIR" default:"screenshots"`

	// Iterations used by the interactive profiling diagnostic.
	ProfileIters int `envconfig:"PROFILE_ITERS" default:"100"`
}

// Load reads configuration from STEPVIEW_* environment variables.
func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("stepview", &c); err != nil {
		return Config{}, fmt.Errorf("loading config: %w", err)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return Config{}, fmt.Errorf("window size must be positive, got %dx%d", c.Width, c.Height)
	}
	return c, nil
}
