package vkbase

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/celer/vkbase/frame"
)

// Config is read once at startup.
type Config struct {
	// AppName is reported to the driver and used as the window title.
	AppName string `json:"AppName"`
	// Width and Height are the initial window and swapchain size in pixels.
	Width  int `json:"Width"`
	Height int `json:"Height"`
	// ShaderDir is where compiled SPIR-V files are looked up. Relative
	// directories are resolved against the directory of the config file.
	ShaderDir string `json:"ShaderDir,omitempty"`
	// Validation enables the Khronos validation layer and debug reporting.
	// Unset means the build default: on, unless built with the release tag.
	Validation *bool `json:"Validation,omitempty"`
}

// LoadConfig reads and validates a JSON config file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, frame.Fatal(errors.Wrapf(err, "read config %s", path))
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, frame.Fatal(errors.Wrapf(err, "parse config %s", path))
	}
	if cfg.ShaderDir != "" && !filepath.IsAbs(cfg.ShaderDir) {
		cfg.ShaderDir = filepath.Join(filepath.Dir(path), cfg.ShaderDir)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Validate checks the required fields. Failures are fatal.
func (c Config) Validate() error {
	if c.AppName == "" {
		return frame.Fatalf("AppName is required")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return frame.Fatalf("invalid size %dx%d", c.Width, c.Height)
	}
	return nil
}

// ValidationEnabled resolves Validation against the build default.
func (c Config) ValidationEnabled() bool {
	if c.Validation == nil {
		return validationDefault
	}
	return *c.Validation
}

// ShaderPath returns the path of a shader file inside ShaderDir.
func (c Config) ShaderPath(name string) string {
	if c.ShaderDir == "" {
		return name
	}
	return filepath.Join(c.ShaderDir, name)
}
