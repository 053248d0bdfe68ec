package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	DataDir          string  `mapstructure:"data_dir" yaml:"data_dir"`
	ExportDir        string  `mapstructure:"export_dir" yaml:"export_dir"`
	HeaderProbeLimit int     `mapstructure:"header_probe_limit" yaml:"header_probe_limit"`
	PreviewRows      int     `mapstructure:"preview_rows" yaml:"preview_rows"`
	RiskThreshold    float64 `mapstructure:"risk_threshold" yaml:"risk_threshold"`
	ChartWidth       int     `mapstructure:"chart_width" yaml:"chart_width"`
	ChartHeight      int     `mapstructure:"chart_height" yaml:"chart_height"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.climagraph/config.yaml, creating the directory if
// necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".climagraph")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("CLIMAGRAPH")
	v.AutomaticEnv()

	v.SetDefault("header_probe_limit", 15)
	v.SetDefault("preview_rows", 6)
	v.SetDefault("risk_threshold", 3.0)
	v.SetDefault("chart_width", 1200)
	v.SetDefault("chart_height", 600)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".climagraph")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home dir: %w", err)
	}
	if c.DataDir == "" {
		c.DataDir = filepath.Join(home, ".climagraph", "data")
	}
	if c.ExportDir == "" {
		c.ExportDir = filepath.Join(home, ".climagraph", "exports")
	}
	return &c, nil
}
