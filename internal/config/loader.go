// Package config provides configuration loading, defaults, and validation
// for the crosswalk builder.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all settings.
const envPrefix = "CROSSWALK"

// newViper builds a pre-configured Viper instance with the builder's standard
// settings: YAML file type, CROSSWALK_ env prefix, automatic env binding, and
// a key replacer that maps "." → "_" so that nested keys like
// "engine.min_intersection_area" resolve to
// "CROSSWALK_ENGINE_MIN_INTERSECTION_AREA".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	registerDefaults(v)
	return v
}

// registerDefaults declares every configuration key with its default value.
// Registration matters beyond defaulting: viper only surfaces environment
// overrides during Unmarshal for keys it knows about.
func registerDefaults(v *viper.Viper) {
	def := DefaultConfig()

	v.SetDefault("engine.negative_buffer_distance", def.Engine.NegativeBufferDistance)
	v.SetDefault("engine.min_intersection_area", def.Engine.MinIntersectionArea)
	v.SetDefault("engine.area_epsilon_fraction", def.Engine.AreaEpsilonFraction)
	v.SetDefault("engine.percentage_decimal_precision", def.Engine.PercentDecimals)
	v.SetDefault("engine.workers", def.Engine.Workers)

	v.SetDefault("geographies.primary", def.Geographies.Primary)
	v.SetDefault("geographies.others", def.Geographies.Others)
	v.SetDefault("geographies.exclude", def.Geographies.Exclude)

	v.SetDefault("io.input_dir", def.IO.InputDir)
	v.SetDefault("io.output_dir", def.IO.OutputDir)

	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("log.output_paths", def.Log.OutputPaths)
}

// Load reads the YAML file at configPath, merges any CROSSWALK_* environment
// variable overrides, fills unset fields with the registered defaults, and
// validates the result.  It returns a fully-populated *Config or a
// descriptive error.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from CROSSWALK_* environment
// variables, with no config file required.
//
// Environment variable naming convention:
//
//	CROSSWALK_<SECTION>_<FIELD>   e.g.  CROSSWALK_IO_OUTPUT_DIR
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

// unmarshalAndFinalize unmarshals viper state into a Config struct and
// validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// MustLoad is a convenience wrapper around Load that panics on any error.
// It is intended for use in main() where a config-load failure is always
// fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
