package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Renderer selects the chart backend: auto, enhanced or basic.
	Renderer string `mapstructure:"renderer" yaml:"renderer"`
	// OutDir is where figures are written. Empty means a per-run temp dir.
	OutDir      string `mapstructure:"out_dir" yaml:"out_dir"`
	HeadRows    int    `mapstructure:"head_rows" yaml:"head_rows"`
	Bins        int    `mapstructure:"bins" yaml:"bins"`
	CorrMethod  string `mapstructure:"corr_method" yaml:"corr_method"`
	TitlePrefix string `mapstructure:"title_prefix" yaml:"title_prefix"`
	// LogFormat is text or json.
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	// Table loading
	Delimiter string   `mapstructure:"delimiter" yaml:"delimiter"`
	NAValues  []string `mapstructure:"na_values" yaml:"na_values"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{"renderer", "out_dir", "head_rows", "bins", "corr_method", "title_prefix", "log_format", "delimiter"}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".edakit"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.edakit/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
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
	v.SetEnvPrefix("EDAKIT")
	v.AutomaticEnv()

	v.SetDefault("renderer", "auto")
	v.SetDefault("out_dir", "")
	v.SetDefault("head_rows", 5)
	v.SetDefault("bins", 30)
	v.SetDefault("corr_method", "pearson")
	v.SetDefault("title_prefix", "")
	v.SetDefault("log_format", "text")
	v.SetDefault("delimiter", "")
	v.SetDefault("na_values", []string{})

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
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
	return &c, c.Validate()
}

// Validate reports settings that cannot be used.
func (c *Global) Validate() error {
	switch c.Renderer {
	case "auto", "enhanced", "basic":
	default:
		return fmt.Errorf("invalid renderer: %s (use auto, enhanced or basic)", c.Renderer)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format: %s (use text or json)", c.LogFormat)
	}
	if c.HeadRows < 0 {
		return fmt.Errorf("invalid head_rows: %d", c.HeadRows)
	}
	if c.Bins < 0 {
		return fmt.Errorf("invalid bins: %d", c.Bins)
	}
	return nil
}

// Set assigns one key from its string form.
func (c *Global) Set(key, val string) error {
	switch key {
	case "renderer":
		c.Renderer = strings.ToLower(val)
	case "out_dir":
		c.OutDir = val
	case "head_rows":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for head_rows: %v", val)
		}
		c.HeadRows = i
	case "bins":
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid int for bins: %v", val)
		}
		c.Bins = i
	case "corr_method":
		c.CorrMethod = strings.ToLower(val)
	case "title_prefix":
		c.TitlePrefix = val
	case "log_format":
		c.LogFormat = strings.ToLower(val)
	case "delimiter":
		c.Delimiter = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return c.Validate()
}

// Get returns one key in its string form.
func (c *Global) Get(key string) (string, bool) {
	switch key {
	case "renderer":
		return c.Renderer, true
	case "out_dir":
		return c.OutDir, true
	case "head_rows":
		return strconv.Itoa(c.HeadRows), true
	case "bins":
		return strconv.Itoa(c.Bins), true
	case "corr_method":
		return c.CorrMethod, true
	case "title_prefix":
		return c.TitlePrefix, true
	case "log_format":
		return c.LogFormat, true
	case "delimiter":
		return c.Delimiter, true
	}
	return "", false
}
