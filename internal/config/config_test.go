package config

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Export.Precision != 3 {
		t.Errorf("expected precision 3, got %d", cfg.Export.Precision)
	}
	if !cfg.Export.Properties {
		t.Error("expected properties to be exported by default")
	}
	if cfg.Export.FlipAxis {
		t.Error("expected flip_axis to be false by default")
	}
	if cfg.Output.Dir != "." || cfg.Output.Name != "scene" {
		t.Errorf("unexpected output defaults: %+v", cfg.Output)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "scenepack.yaml")

	yamlContent := `
export:
  precision: 5
  properties: false
  flip_axis: true

output:
  dir: "out"
  name: "tower"

logging:
  level: "debug"
  log_file: "export.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Export.Precision != 5 {
		t.Errorf("expected precision 5, got %d", cfg.Export.Precision)
	}
	if cfg.Export.Properties {
		t.Error("expected properties to be false")
	}
	if !cfg.Export.FlipAxis {
		t.Error("expected flip_axis to be true")
	}
	if cfg.Export.Generator != "scenepack" {
		t.Errorf("generator not in file should keep default, got %q", cfg.Export.Generator)
	}
	if cfg.Output.Dir != "out" || cfg.Output.Name != "tower" {
		t.Errorf("unexpected output: %+v", cfg.Output)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "export.log" {
		t.Errorf("unexpected logging: %+v", cfg.Logging)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad syntax", "export:\n  precision: not a number\n  invalid syntax here\n"},
		{"unknown key", "export:\n  resolution: 3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "invalid.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}
			if err := loadFromFile(Default(), configPath); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("empty file should load: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("empty file changed config: %+v", cfg)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/scenepack.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	os.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, FileName), []byte("export:\n  precision: 4\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path != FileName {
		t.Errorf("expected to find %s in current directory, got %q", FileName, path)
	}
}

func TestFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
		verify  func(t *testing.T, cfg *Config)
	}{
		{
			name: "none",
			verify: func(t *testing.T, cfg *Config) {
				if *cfg != *Default() {
					t.Errorf("no flags changed config: %+v", cfg)
				}
			},
		},
		{
			name:    "bad precision",
			args:    []string{"-precision", "three"},
			wantErr: true,
		},
		{
			name: "debug",
			args: []string{"-debug"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "precision zero",
			args: []string{"-precision", "0"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Export.Precision != 0 {
					t.Errorf("expected precision 0, got %d", cfg.Export.Precision)
				}
			},
		},
		{
			name: "export switches",
			args: []string{"-no-properties", "-flip-axis"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Export.Properties || !cfg.Export.FlipAxis {
					t.Errorf("unexpected export: %+v", cfg.Export)
				}
			},
		},
		{
			name: "output",
			args: []string{"-out", "build", "-name", "tower", "-log-file", "x.log"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Output.Dir != "build" || cfg.Output.Name != "tower" || cfg.Logging.LogFile != "x.log" {
					t.Errorf("unexpected config: %+v", cfg)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f Flags
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			f.Register(fs)
			fs.SetOutput(io.Discard)
			err := fs.Parse(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Error("expected parse error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}

			cfg := Default()
			f.apply(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "scenepack.yaml")
	yamlContent := `
export:
  precision: 4
output:
  name: "from-file"
  dir: "file-dir"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	six := 6
	flags := &Flags{Config: configPath, Precision: &six, Name: "from-flag"}
	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Export.Precision != 6 {
		t.Errorf("expected precision 6 from flag, got %d", cfg.Export.Precision)
	}
	if cfg.Output.Name != "from-flag" {
		t.Errorf("expected name from flag, got %s", cfg.Output.Name)
	}
	if cfg.Output.Dir != "file-dir" {
		t.Errorf("expected dir from file, got %s", cfg.Output.Dir)
	}
	if !cfg.Export.Properties {
		t.Error("properties should keep the default")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "scenepack.yaml")
	if err := os.WriteFile(configPath, []byte("export:\n  precision: 12\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if _, err := Load(&Flags{Config: configPath}); err == nil {
		t.Error("expected precision 12 to be rejected")
	}
}

func TestSceneOptions(t *testing.T) {
	cfg := Default()
	cfg.Export.Precision = 2
	cfg.Export.Properties = false
	cfg.Export.FlipAxis = true
	cfg.Export.Generator = ""

	opts := cfg.SceneOptions()
	if opts.Precision != 2 || opts.ExportProperties || !opts.FlipAxis {
		t.Errorf("unexpected options: %+v", opts)
	}
	if opts.Generator != "scenepack" {
		t.Errorf("empty generator should fall back, got %q", opts.Generator)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "scenepack.yaml")

	cfg := Default()
	cfg.Export.Precision = 5
	cfg.Output.Name = "saved"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch: got %+v, want %+v", loaded, cfg)
	}
}

func TestZeroFlagsKeepFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "scenepack.yaml")
	if err := os.WriteFile(configPath, []byte("export:\n  precision: 4\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(&Flags{Config: configPath})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Export.Precision != 4 {
		t.Errorf("expected precision 4 from file, got %d", cfg.Export.Precision)
	}
}
