// Package config handles configuration loading for stockreport.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. STOCKREPORT_OUTPUT_DIR.
const EnvPrefix = "STOCKREPORT"

// Config represents the complete application configuration.
type Config struct {
	Output  OutputConfig  `mapstructure:"output"  yaml:"output"`
	Page    PageConfig    `mapstructure:"page"    yaml:"page"`
	Fonts   FontsConfig   `mapstructure:"fonts"   yaml:"fonts"`
	Charts  ChartsConfig  `mapstructure:"charts"  yaml:"charts"`
	Render  RenderConfig  `mapstructure:"render"  yaml:"render"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// OutputConfig controls where reports land.
type OutputConfig struct {
	Dir  string `mapstructure:"dir"  yaml:"dir"`
	HTML bool   `mapstructure:"html" yaml:"html"` // also write a self-contained HTML copy
}

// PageConfig holds page geometry. Margins are in centimetres.
type PageConfig struct {
	Size         string  `mapstructure:"size"             yaml:"size"` // "A4", "Letter", ...
	MarginTop    float64 `mapstructure:"margin_top_cm"    yaml:"margin_top_cm"`
	MarginBottom float64 `mapstructure:"margin_bottom_cm" yaml:"margin_bottom_cm"`
	MarginLeft   float64 `mapstructure:"margin_left_cm"   yaml:"margin_left_cm"`
	MarginRight  float64 `mapstructure:"margin_right_cm"  yaml:"margin_right_cm"`
}

// FontsConfig names TrueType files for the body family. Empty paths select
// the embedded Liberation Sans faces.
type FontsConfig struct {
	Family     string `mapstructure:"family"      yaml:"family"`
	Regular    string `mapstructure:"regular"     yaml:"regular"`
	Bold       string `mapstructure:"bold"        yaml:"bold"`
	Italic     string `mapstructure:"italic"      yaml:"italic"`
	BoldItalic string `mapstructure:"bold_italic" yaml:"bold_italic"` // optional, defaults to Bold
}

// Embedded reports whether no font file is configured.
func (f FontsConfig) Embedded() bool {
	return f.Regular == "" && f.Bold == "" && f.Italic == "" && f.BoldItalic == ""
}

// ChartsConfig holds figure rendering settings.
type ChartsConfig struct {
	DPI int `mapstructure:"dpi" yaml:"dpi"`
}

// RenderConfig holds pipeline settings.
type RenderConfig struct {
	Jobs int `mapstructure:"jobs" yaml:"jobs"` // reports generated in parallel
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "console" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.stockreport/config.yaml (home directory)
//  3. /etc/stockreport/config.yaml (system)
//
// Environment variables override config file values.
// Format: STOCKREPORT_<SECTION>_<KEY>, e.g., STOCKREPORT_CHARTS_DPI
func Load() (*Config, error) {
	v := newViper()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".stockreport"))
	v.AddConfigPath("/etc/stockreport")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.Fonts.Regular = expandHome(cfg.Fonts.Regular)
	cfg.Fonts.Bold = expandHome(cfg.Fonts.Bold)
	cfg.Fonts.Italic = expandHome(cfg.Fonts.Italic)
	cfg.Fonts.BoldItalic = expandHome(cfg.Fonts.BoldItalic)
	if cfg.Fonts.BoldItalic == "" {
		cfg.Fonts.BoldItalic = cfg.Fonts.Bold
	}
	cfg.Output.Dir = expandHome(cfg.Output.Dir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("output.dir", "./reports")
	v.SetDefault("output.html", false)

	v.SetDefault("page.size", "A4")
	v.SetDefault("page.margin_top_cm", 1.5)
	v.SetDefault("page.margin_bottom_cm", 1.5)
	v.SetDefault("page.margin_left_cm", 2.0)
	v.SetDefault("page.margin_right_cm", 2.0)

	v.SetDefault("fonts.family", "Body")
	v.SetDefault("fonts.regular", "")
	v.SetDefault("fonts.bold", "")
	v.SetDefault("fonts.italic", "")
	v.SetDefault("fonts.bold_italic", "")

	v.SetDefault("charts.dpi", 150)
	v.SetDefault("render.jobs", 1)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Validate rejects values no report could be produced with.
func (c *Config) Validate() error {
	if c.Output.Dir == "" {
		return fmt.Errorf("config: output.dir is empty")
	}
	if c.Charts.DPI <= 0 {
		return fmt.Errorf("config: charts.dpi must be positive, got %d", c.Charts.DPI)
	}
	if c.Render.Jobs < 1 {
		return fmt.Errorf("config: render.jobs must be at least 1, got %d", c.Render.Jobs)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: logging.format %q (want console or json)", c.Logging.Format)
	}
	if c.Fonts.Embedded() {
		return nil
	}
	if c.Fonts.Regular == "" || c.Fonts.Bold == "" || c.Fonts.Italic == "" {
		return fmt.Errorf("config: fonts.regular, fonts.bold and fonts.italic must be set together")
	}
	return nil
}

// expandHome resolves a leading "~/" against the user's home directory.
func expandHome(p string) string {
	if p == "~" {
		return homeDir()
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(homeDir(), p[2:])
	}
	return p
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
