package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/quadlab/internal/catalog"
	"github.com/san-kum/quadlab/internal/convergence"
	"github.com/san-kum/quadlab/internal/quad"
)

const (
	DefaultFunction = "x^2"
	DefaultLower    = 0.0
	DefaultUpper    = 1.0

	// EnvPrefix namespaces environment overrides, e.g. QUADLAB_UPPER.
	EnvPrefix = "QUADLAB"
)

type Config struct {
	Function  string  `yaml:"function" mapstructure:"function"`
	Lower     float64 `yaml:"lower" mapstructure:"lower"`
	Upper     float64 `yaml:"upper" mapstructure:"upper"`
	MaxN      int     `yaml:"max_n" mapstructure:"max_n"`
	Intervals []int   `yaml:"intervals" mapstructure:"intervals"`
	Threshold float64 `yaml:"threshold" mapstructure:"threshold"`
	Workers   int     `yaml:"workers" mapstructure:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		Function:  DefaultFunction,
		Lower:     DefaultLower,
		Upper:     DefaultUpper,
		MaxN:      convergence.DefaultMaxIntervals,
		Intervals: append([]int(nil), convergence.DefaultCounts...),
		Threshold: convergence.DefaultThreshold,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadEnv reads an optional YAML file and then applies QUADLAB_* environment
// overrides. An empty path yields the defaults plus the environment.
func LoadEnv(path string) (*Config, error) {
	return LoadLayered(DefaultConfig(), path)
}

// LoadLayered is LoadEnv with base in place of the defaults: keys set in the
// file or the environment override base, the rest keep base's values.
func LoadLayered(base *Config, path string) (*Config, error) {
	if base == nil {
		base = DefaultConfig()
	}

	v := viper.New()
	v.SetDefault("function", base.Function)
	v.SetDefault("lower", base.Lower)
	v.SetDefault("upper", base.Upper)
	v.SetDefault("max_n", base.MaxN)
	v.SetDefault("intervals", base.Intervals)
	v.SetDefault("threshold", base.Threshold)
	v.SetDefault("workers", base.Workers)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Integrand resolves the configured function name or selector.
func (c *Config) Integrand() (catalog.Integrand, error) {
	return catalog.ParseName(c.Function)
}

// Validate checks the configuration against the same contract the
// quadrature core enforces.
func (c *Config) Validate() error {
	f, err := c.Integrand()
	if err != nil {
		return err
	}
	if _, err := quad.NewRequest(c.Lower, c.Upper, 1, f); err != nil {
		return err
	}
	if c.MaxN != 0 && c.MaxN < convergence.MinIntervals {
		return fmt.Errorf("max_n %d: %w", c.MaxN, quad.ErrInvalidSubintervalCount)
	}
	for _, n := range c.Intervals {
		if n < 1 {
			return fmt.Errorf("interval count %d: %w", n, quad.ErrInvalidSubintervalCount)
		}
	}
	if c.Threshold <= 0 {
		return fmt.Errorf("threshold must be positive, got %g", c.Threshold)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// SweepOptions translates the config into convergence options.
func (c *Config) SweepOptions() []convergence.Option {
	if c.Workers > 0 {
		return []convergence.Option{convergence.WithWorkers(c.Workers)}
	}
	return nil
}
