// Package config handles exporter configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/scenepack/pkg/scene"
)

// Config holds all exporter settings.
type Config struct {
	Export  ExportConfig  `yaml:"export"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// ExportConfig holds the scene builder settings.
type ExportConfig struct {
	// Precision is the number of decimal digits kept when merging vertices.
	Precision int `yaml:"precision"`
	// Properties attaches element parameters to nodes.
	Properties bool   `yaml:"properties"`
	FlipAxis   bool   `yaml:"flip_axis"`
	Generator  string `yaml:"generator"`
}

// OutputConfig holds where exported files are written.
type OutputConfig struct {
	Dir  string `yaml:"dir"`
	Name string `yaml:"name"` // Base name of the .gltf file, without extension
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	JSON    bool   `yaml:"json"`
}

// Default returns a Config with the exporter defaults.
func Default() *Config {
	opts := scene.DefaultOptions()
	return &Config{
		Export: ExportConfig{
			Precision:  opts.Precision,
			Properties: opts.ExportProperties,
			FlipAxis:   opts.FlipAxis,
			Generator:  opts.Generator,
		},
		Output: OutputConfig{
			Dir:  ".",
			Name: "scene",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports settings the builder or writer would reject.
func (c *Config) Validate() error {
	if c.Export.Precision < 0 || c.Export.Precision > scene.MaxPrecision {
		return fmt.Errorf("export.precision %d outside [0, %d]", c.Export.Precision, scene.MaxPrecision)
	}
	if c.Output.Name == "" {
		return fmt.Errorf("output.name is empty")
	}
	return nil
}

// SceneOptions converts the export section to builder options. Logger and
// id generation are left to the caller.
func (c *Config) SceneOptions() scene.Options {
	opts := scene.DefaultOptions()
	opts.Precision = c.Export.Precision
	opts.ExportProperties = c.Export.Properties
	opts.FlipAxis = c.Export.FlipAxis
	if c.Export.Generator != "" {
		opts.Generator = c.Export.Generator
	}
	return opts
}
