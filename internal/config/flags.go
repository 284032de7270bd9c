package config

import (
	"flag"
	"strconv"
)

// Flags holds command-line overrides. Empty strings, false and a nil
// Precision leave the config alone, so a zero Flags changes nothing.
type Flags struct {
	Config    string
	Debug     bool
	Precision *int
	NoProps   bool
	FlipAxis  bool
	OutDir    string
	Name      string
	LogFile   string
}

// Register binds the override flags to fs.
func (f *Flags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.Func("precision", "Decimal digits kept when merging vertices", func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		f.Precision = &n
		return nil
	})
	fs.BoolVar(&f.NoProps, "no-properties", false, "Do not export element parameters")
	fs.BoolVar(&f.FlipAxis, "flip-axis", false, "Rotate the model from Z-up to Y-up")
	fs.StringVar(&f.OutDir, "out", "", "Output directory")
	fs.StringVar(&f.Name, "name", "", "Output file base name")
	fs.StringVar(&f.LogFile, "log-file", "", "Write logs to this file as well")
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Precision != nil {
		cfg.Export.Precision = *f.Precision
	}
	if f.NoProps {
		cfg.Export.Properties = false
	}
	if f.FlipAxis {
		cfg.Export.FlipAxis = true
	}
	if f.OutDir != "" {
		cfg.Output.Dir = f.OutDir
	}
	if f.Name != "" {
		cfg.Output.Name = f.Name
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
}
