// scenepack turns YAML scene scripts into deduplicated glTF scenes.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/scenepack/internal/config"
	"github.com/Faultbox/scenepack/internal/logger"
	"github.com/Faultbox/scenepack/internal/script"
	"github.com/Faultbox/scenepack/pkg/gltfio"
	"github.com/Faultbox/scenepack/pkg/scene"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "export", "x":
		err = cmdExport(args)
	case "inspect", "i":
		err = cmdInspect(args)
	case "init-config":
		err = cmdInitConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`scenepack - scene graph exporter

Usage:
  scenepack <command> [options]

Commands:
  export <script.yaml>        Build the scene and write .gltf + .bin files
  inspect <script.yaml>       Build the scene and print deduplication statistics
  init-config [path]          Write the default config file

Options (export, inspect):
  -config <file>      Config file (default: ./scenepack.yaml or user config dir)
  -precision <n>      Decimal digits kept when merging vertices
  -no-properties      Do not export element parameters
  -flip-axis          Rotate the model from Z-up to Y-up
  -out <dir>          Output directory
  -name <name>        Output file base name
  -debug              Enable debug logging
  -log-file <file>    Also log to a rotated file

Examples:
  scenepack export -out build house.yaml
  scenepack inspect -precision 2 house.yaml`)
}

// setup parses the shared flags, loads config and initializes logging.
func setup(name string, args []string) (*config.Config, string, error) {
	var flags config.Flags
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	flags.Register(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		return nil, "", fmt.Errorf("usage: scenepack %s [options] <script.yaml>", name)
	}

	cfg, err := config.Load(&flags)
	if err != nil {
		return nil, "", err
	}
	if err := logger.InitWithConfig(logger.Config{
		Level:   cfg.Logging.Level,
		Console: os.Stderr,
		JSON:    cfg.Logging.JSON,
		File:    logFile(cfg.Logging.LogFile),
	}); err != nil {
		return nil, "", err
	}
	return cfg, fs.Arg(0), nil
}

func logFile(path string) logger.FileConfig {
	if path == "" {
		return logger.FileConfig{}
	}
	return logger.DefaultFileConfig(path)
}

// build replays the script into a finished container.
func build(cfg *config.Config, path string) (*scene.Container, script.Result, error) {
	s, err := script.Load(path)
	if err != nil {
		return nil, script.Result{}, err
	}

	opts := cfg.SceneOptions()
	opts.Logger = logger.Named("scene")
	return script.Run(opts, s)
}

func cmdExport(args []string) error {
	cfg, path, err := setup("export", args)
	if err != nil {
		return err
	}

	c, res, err := build(cfg, path)
	if err != nil {
		return err
	}

	out := filepath.Join(cfg.Output.Dir, cfg.Output.Name+".gltf")
	if err := gltfio.Save(c, out); err != nil {
		return err
	}

	logger.L().Info("scene written",
		zap.String("path", out),
		zap.Int("nodes", len(c.Nodes)),
		zap.Int("meshes", len(c.Meshes)),
		zap.Int("buffers", len(c.Buffers)),
		zap.Int("warnings", res.Warnings))
	fmt.Println(out)
	return nil
}

func cmdInspect(args []string) error {
	cfg, path, err := setup("inspect", args)
	if err != nil {
		return err
	}

	c, res, err := build(cfg, path)
	if err != nil {
		return err
	}

	st := c.Stats
	fmt.Printf("Script:     %s\n", path)
	fmt.Printf("Precision:  %d\n", cfg.Export.Precision)
	fmt.Printf("Nodes:      %d\n", st.Nodes)
	fmt.Printf("Fragments:  %d (%d rejected or unmatched)\n", st.Fragments, res.Warnings)
	fmt.Printf("Materials:  %d\n", len(c.Materials))
	fmt.Printf("Primitives: %d\n", st.Primitives)
	fmt.Printf("Meshes:     %d (%d reused)\n", st.Meshes, st.MeshesReused)
	fmt.Printf("Buffers:    %d (%d reused)\n", st.Buffers, st.BuffersReused)
	if st.MissingMaterials > 0 {
		fmt.Printf("Missing:    %d primitives without material\n", st.MissingMaterials)
	}
	if box, ok := c.Bounds(); ok {
		fmt.Printf("Bounds:     (%.3f, %.3f, %.3f) - (%.3f, %.3f, %.3f)\n",
			box.Min.X, box.Min.Y, box.Min.Z, box.Max.X, box.Max.Y, box.Max.Z)
	}

	var total int
	fmt.Println()
	fmt.Println("Buffers:")
	for _, b := range c.Binaries {
		total += len(b.Data)
		fmt.Printf("  %-20s %8d bytes  %s\n", b.Name, len(b.Data), b.Hash[:16])
	}
	fmt.Printf("  %-20s %8d bytes\n", "total", total)
	return nil
}

func cmdInitConfig(args []string) error {
	path := filepath.Join(config.ConfigDir(), config.FileName)
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.Default().SaveTo(path); err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}
