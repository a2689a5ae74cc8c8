// Package config loads and validates structdiff configuration from YAML
// files, environment variables, and flags, and maps it onto the engine and
// observability option records.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/randlee/structdiff/pkg/diff"
	"github.com/randlee/structdiff/pkg/observability"
)

// Default configuration values.
const (
	DefaultFormat      = "terminal"
	defaultConfigName  = ".structdiff"
	envPrefix          = "STRUCTDIFF"
	defaultLogLevelKey = "info"
)

// Config is the full file-backed configuration.
type Config struct {
	Diff          DiffConfig          `mapstructure:"diff"`
	Output        OutputConfig        `mapstructure:"output"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// DiffConfig configures the compare engine.
type DiffConfig struct {
	Whitespace        string `mapstructure:"whitespace"`
	IncludeFormatting bool   `mapstructure:"include_formatting"`
	MinimumImpact     string `mapstructure:"minimum_impact"`
	IgnoreComments    bool   `mapstructure:"ignore_comments"`
	ParallelThreshold int    `mapstructure:"parallel_threshold"`
}

// OutputConfig configures rendering.
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// CacheConfig configures the on-disk result cache.
type CacheConfig struct {
	Dir string `mapstructure:"dir"`
}

// ObservabilityConfig configures telemetry export.
type ObservabilityConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure"`
	MetricsAddr  string `mapstructure:"metrics_addr"`
	LogLevel     string `mapstructure:"log_level"`
	LogJSON      bool   `mapstructure:"log_json"`
}

// Load reads configuration from the given file (empty means search the
// working directory and home for .structdiff.yaml), layered under
// STRUCTDIFF_* environment variables.
func Load(file string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(defaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config

	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("diff.whitespace", diff.Exact.String())
	v.SetDefault("diff.include_formatting", true)
	v.SetDefault("diff.minimum_impact", diff.FormattingOnly.String())
	v.SetDefault("diff.ignore_comments", false)
	v.SetDefault("diff.parallel_threshold", diff.DefaultParallelThreshold)
	v.SetDefault("output.format", DefaultFormat)
	v.SetDefault("output.color", true)
	v.SetDefault("cache.dir", "")
	v.SetDefault("observability.otlp_endpoint", "")
	v.SetDefault("observability.otlp_insecure", false)
	v.SetDefault("observability.metrics_addr", "")
	v.SetDefault("observability.log_level", defaultLogLevelKey)
	v.SetDefault("observability.log_json", false)
}

// DiffOptions maps the configuration onto engine options.
func (c *Config) DiffOptions() (diff.Options, error) {
	opts := diff.DefaultOptions()

	mode, err := diff.ParseWhitespaceMode(c.Diff.Whitespace)
	if err != nil {
		return opts, fmt.Errorf("diff.whitespace: %w", err)
	}

	minImpact, err := diff.ParseImpactLevel(c.Diff.MinimumImpact)
	if err != nil {
		return opts, fmt.Errorf("diff.minimum_impact: %w", err)
	}

	opts.Whitespace = mode
	opts.IncludeFormatting = c.Diff.IncludeFormatting
	opts.MinimumImpact = minImpact
	opts.IgnoreComments = c.Diff.IgnoreComments
	opts.ParallelThreshold = c.Diff.ParallelThreshold

	return opts, nil
}

// ObservabilityOptions maps the configuration onto the telemetry config for
// the given application mode.
func (c *Config) ObservabilityOptions(mode observability.AppMode, serviceVersion string) observability.Config {
	obs := observability.DefaultConfig()
	obs.Mode = mode
	obs.ServiceVersion = serviceVersion
	obs.OTLPEndpoint = c.Observability.OTLPEndpoint
	obs.OTLPInsecure = c.Observability.OTLPInsecure
	obs.MetricsAddr = c.Observability.MetricsAddr
	obs.LogJSON = c.Observability.LogJSON
	obs.LogLevel = parseLogLevel(c.Observability.LogLevel)

	return obs
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
