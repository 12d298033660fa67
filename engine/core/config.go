package core

import (
	"errors"
	"fmt"
	"os"

	"github.com/hubastard/hiopengl/engine/colors"
	"gopkg.in/yaml.v3"
)

// ShaderPolicy decides what happens when a shader fails to compile or link.
type ShaderPolicy string

const (
	// ShaderReport logs the diagnostics, skips the affected pass and keeps
	// rendering. This is the default.
	ShaderReport ShaderPolicy = "report"
	// ShaderStrict aborts start-up.
	ShaderStrict ShaderPolicy = "strict"
)

// Config for the engine run.
type Config struct {
	Title        string
	Width        int
	Height       int
	VSync        bool
	GLMajor      int
	GLMinor      int
	ClearColor   colors.Color
	ExitKey      Key
	ShaderPolicy ShaderPolicy
	ShaderDir    string // empty uses the embedded sources
	Wireframe    bool
	MaxFrames    int // 0 runs until the exit key or window close
}

// DefaultConfig matches the classic two-triangle tutorial window.
func DefaultConfig() Config {
	return Config{
		Title:        "Learn OpenGL",
		Width:        800,
		Height:       600,
		VSync:        true,
		GLMajor:      3,
		GLMinor:      3,
		ClearColor:   colors.Navy,
		ExitKey:      KeySpace,
		ShaderPolicy: ShaderReport,
	}
}

// fileConfig is the YAML shape; nil fields keep the defaults.
type fileConfig struct {
	Title        *string   `yaml:"title"`
	Width        *int      `yaml:"width"`
	Height       *int      `yaml:"height"`
	VSync        *bool     `yaml:"vsync"`
	GLVersion    []int     `yaml:"gl_version"`
	ClearColor   []float32 `yaml:"clear_color"`
	ExitKey      *string   `yaml:"exit_key"`
	ShaderPolicy *string   `yaml:"shader_policy"`
	ShaderDir    *string   `yaml:"shader_dir"`
	Wireframe    *bool     `yaml:"wireframe"`
	MaxFrames    *int      `yaml:"max_frames"`
}

// LoadConfig overlays the YAML file at path on DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig overlays YAML data on DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("parse: %w", err)
	}

	cfg := DefaultConfig()
	if fc.Title != nil {
		cfg.Title = *fc.Title
	}
	if fc.Width != nil {
		cfg.Width = *fc.Width
	}
	if fc.Height != nil {
		cfg.Height = *fc.Height
	}
	if fc.VSync != nil {
		cfg.VSync = *fc.VSync
	}
	if fc.GLVersion != nil {
		if len(fc.GLVersion) != 2 {
			return Config{}, fmt.Errorf("gl_version: want [major, minor], got %v", fc.GLVersion)
		}
		cfg.GLMajor, cfg.GLMinor = fc.GLVersion[0], fc.GLVersion[1]
	}
	if fc.ClearColor != nil {
		if len(fc.ClearColor) != 4 {
			return Config{}, fmt.Errorf("clear_color: want 4 components, got %d", len(fc.ClearColor))
		}
		copy(cfg.ClearColor[:], fc.ClearColor)
	}
	if fc.ExitKey != nil {
		k, err := ParseKey(*fc.ExitKey)
		if err != nil {
			return Config{}, fmt.Errorf("exit_key: %w", err)
		}
		cfg.ExitKey = k
	}
	if fc.ShaderPolicy != nil {
		cfg.ShaderPolicy = ShaderPolicy(*fc.ShaderPolicy)
	}
	if fc.ShaderDir != nil {
		cfg.ShaderDir = *fc.ShaderDir
	}
	if fc.Wireframe != nil {
		cfg.Wireframe = *fc.Wireframe
	}
	if fc.MaxFrames != nil {
		cfg.MaxFrames = *fc.MaxFrames
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Width, c.Height))
	}
	if c.GLMajor < 3 || (c.GLMajor == 3 && c.GLMinor < 3) {
		errs = append(errs, fmt.Errorf("gl version %d.%d is below 3.3", c.GLMajor, c.GLMinor))
	}
	if c.ExitKey == KeyUnknown {
		errs = append(errs, errors.New("exit key is not set"))
	}
	switch c.ShaderPolicy {
	case ShaderStrict, ShaderReport:
	default:
		errs = append(errs, fmt.Errorf("shader policy %q is not %q or %q", c.ShaderPolicy, ShaderStrict, ShaderReport))
	}
	if c.MaxFrames < 0 {
		errs = append(errs, fmt.Errorf("max frames %d is negative", c.MaxFrames))
	}
	return errors.Join(errs...)
}
