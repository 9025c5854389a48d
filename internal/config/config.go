package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	InputDir   string `json:"input_dir" yaml:"input_dir"`
	OutputDir  string `json:"output_dir" yaml:"output_dir"`
	TextureDir string `json:"texture_dir" yaml:"texture_dir"`

	// Geometry
	Scale float64 `json:"scale" yaml:"scale"`

	// Render settings
	RenderSize  int     `json:"render_size" yaml:"render_size"`
	Supersample int     `json:"supersample" yaml:"supersample"`
	FillRatio   float64 `json:"fill_ratio" yaml:"fill_ratio"`
	Workers     int     `json:"workers" yaml:"workers"`

	// Outputs: "webp", "glb"
	Formats []string `json:"formats" yaml:"formats"`
}

// Load reads a JSON or YAML config file, chosen by extension, and returns
// Config. Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.InputDir != "" {
		c.InputDir = flags.InputDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.TextureDir != "" {
		c.TextureDir = flags.TextureDir
	}
	if flags.Scale > 0 {
		c.Scale = flags.Scale
	}
	if flags.RenderSize > 0 {
		c.RenderSize = flags.RenderSize
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Formats != "" {
		c.Formats = splitFormats(flags.Formats)
	}

	if c.InputDir == "" {
		c.InputDir = "."
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.InputDir, "renders")
	} else if !filepath.IsAbs(c.OutputDir) && c.InputDir != "." {
		c.OutputDir = filepath.Join(c.InputDir, c.OutputDir)
	}
	if c.TextureDir == "" {
		c.TextureDir = c.InputDir
	} else if !filepath.IsAbs(c.TextureDir) && c.InputDir != "." {
		c.TextureDir = filepath.Join(c.InputDir, c.TextureDir)
	}

	// Defaults
	if c.Scale <= 0 {
		c.Scale = 1
	}
	if c.RenderSize <= 0 {
		c.RenderSize = 256
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.FillRatio <= 0 || c.FillRatio > 1 {
		c.FillRatio = 0.9
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if len(c.Formats) == 0 {
		c.Formats = []string{"webp"}
	}
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	InputDir   string
	OutputDir  string
	TextureDir string
	Scale      float64
	RenderSize int
	Workers    int
	Formats    string // comma-separated
}

func splitFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
