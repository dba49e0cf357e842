// Package config handles diftool configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/difbuilder/pkg/builder"
	"github.com/Faultbox/difbuilder/pkg/dif"
)

// Config holds all diftool settings.
type Config struct {
	Build   BuildConfig   `yaml:"build" toml:"build"`
	Output  OutputConfig  `yaml:"output" toml:"output"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// BuildConfig holds interior compilation settings.
type BuildConfig struct {
	Version     string `yaml:"version" toml:"version"`           // engine tag: mbg, tge, tgea, t3d
	SplitMethod string `yaml:"split_method" toml:"split_method"` // fast, exhaustive, none
	MBOnly      bool   `yaml:"mb_only" toml:"mb_only"`           // skip poly lists and emit strings
}

// OutputConfig holds settings for written files.
type OutputConfig struct {
	Preview   string `yaml:"preview" toml:"preview"` // PNG embedded as the file thumbnail
	Overwrite bool   `yaml:"overwrite" toml:"overwrite"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Build: BuildConfig{
			Version:     dif.DefaultTag,
			SplitMethod: builder.SplitFast.String(),
			MBOnly:      false,
		},
		Output: OutputConfig{
			Overwrite: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks that the version tag and split method are known.
func (c *Config) Validate() error {
	if _, err := dif.Lookup(c.Build.Version); err != nil {
		return fmt.Errorf("build.version: %w", err)
	}
	if _, err := builder.ParseSplitMethod(c.Build.SplitMethod); err != nil {
		return fmt.Errorf("build.split_method: %w", err)
	}
	return nil
}

// BuilderOptions returns the builder options the build settings describe.
func (c *Config) BuilderOptions() ([]builder.Option, error) {
	split, err := builder.ParseSplitMethod(c.Build.SplitMethod)
	if err != nil {
		return nil, err
	}
	return []builder.Option{
		builder.WithSplitMethod(split),
		builder.WithMBOnly(c.Build.MBOnly),
	}, nil
}
