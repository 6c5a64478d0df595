package hearttree

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the showcase configuration, loaded from YAML.
type Config struct {
	Window WindowConfig `yaml:"window"`
	// FontPath is a TTF/OTF file used for glyph textures and UI text. Empty
	// selects Go Regular.
	FontPath string       `yaml:"font_path"`
	Camera   CameraConfig `yaml:"camera"`
	Bloom    BloomConfig  `yaml:"bloom"`
	// Debug logs frame stats once a second.
	Debug bool `yaml:"debug"`
	// ScreenshotDir receives F12 captures.
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// WindowConfig sizes the desktop window.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// CameraConfig places the main camera.
type CameraConfig struct {
	// FOV is the vertical field of view in degrees.
	FOV float64 `yaml:"fov"`
	Z   float64 `yaml:"z"`
}

// BloomConfig tunes the bloom pass.
type BloomConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Strength  float64 `yaml:"strength"`
	Radius    float64 `yaml:"radius"`
	Threshold float64 `yaml:"threshold"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Title:  "Heart Tree",
			Width:  960,
			Height: 640,
		},
		Camera: CameraConfig{FOV: 75, Z: 35},
		Bloom: BloomConfig{
			Enabled:   true,
			Strength:  0.7,
			Radius:    0.6,
			Threshold: 0.6,
		},
		ScreenshotDir: "screenshots",
	}
}

// LoadConfig reads the YAML file at path over the defaults and validates
// the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config YAML from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config in %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first out-of-range field.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return fmt.Errorf("camera fov must be in (0, 180), got %g", c.Camera.FOV)
	}
	if c.Camera.Z <= 0 {
		return fmt.Errorf("camera z must be positive, got %g", c.Camera.Z)
	}
	if c.Bloom.Strength < 0 {
		return fmt.Errorf("bloom strength cannot be negative, got %g", c.Bloom.Strength)
	}
	if c.Bloom.Radius < 0 || c.Bloom.Radius > 1 {
		return fmt.Errorf("bloom radius must be in [0, 1], got %g", c.Bloom.Radius)
	}
	if c.Bloom.Threshold < 0 || c.Bloom.Threshold > 1 {
		return fmt.Errorf("bloom threshold must be in [0, 1], got %g", c.Bloom.Threshold)
	}
	return nil
}
