package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/3-lines-studio/bifrost-elements/internal/adapters/cli"
	"github.com/3-lines-studio/bifrost-elements/internal/adapters/config"
	"github.com/3-lines-studio/bifrost-elements/internal/adapters/env"
	"github.com/3-lines-studio/bifrost-elements/internal/adapters/esbuild"
	"github.com/3-lines-studio/bifrost-elements/internal/adapters/fs"
	"github.com/3-lines-studio/bifrost-elements/internal/adapters/metadata"
	"github.com/3-lines-studio/bifrost-elements/internal/core"
	"github.com/3-lines-studio/bifrost-elements/internal/usecase"
)

type buildFlags struct {
	config     string
	components string
	verbose    bool
	noColor    bool
}

func findConfig(startDir string) string {
	dir := startDir
	for {
		path := filepath.Join(dir, config.DefaultFile)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:           "bifrost-elements-build <components.json>",
		Short:         "Bundle compiled components into a custom elements module",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				flags.components = args[0]
			}
			return runBuild(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVarP(&flags.config, "config", "c", "", "path to "+config.DefaultFile+" (searched upward from the working directory by default)")
	cmd.Flags().StringVar(&flags.components, "components", "components.json", "component manifest (.json or .msgpack)")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	cmd.Flags().BoolVar(&flags.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(newPackManifestCmd())
	return cmd
}

func newPackManifestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pack-manifest <components.json> <components.msgpack>",
		Short: "Convert a JSON component manifest to the msgpack form",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			files := fs.NewOSFileSystem()
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			cmps, err := metadata.ReadComponents(files, args[0], cwd)
			if err != nil {
				return err
			}
			data, err := metadata.EncodeMsgpack(cmps)
			if err != nil {
				return fmt.Errorf("failed to encode manifest: %w", err)
			}
			return files.WriteFile(args[1], data, 0644)
		},
	}
}

func setupLogger(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func loadConfig(files fs.FileSystem, path string) (*core.Config, error) {
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current working directory: %w", err)
		}
		path = findConfig(cwd)
		if path == "" {
			slog.Debug("No config file found, using defaults", "root", cwd)
			return config.Default(cwd)
		}
	}
	return config.Load(files, path)
}

func runBuild(ctx context.Context, flags *buildFlags) error {
	setupLogger(flags.verbose)

	output := cli.NewOutput()
	if flags.noColor {
		output.DisableColors()
	}
	output.PrintHeader("Bifrost Elements Build")

	files := fs.NewOSFileSystem()

	cfg, err := loadConfig(files, flags.config)
	if err != nil {
		output.PrintError("%v", err)
		return err
	}
	env.ApplyOverrides(cfg)
	if flags.verbose {
		cfg.LogLevel = "debug"
	}

	report := cli.NewBuildReport(output)

	manifestPath := cfg.ResolvePath(flags.components)
	stepRead := report.StartStep("Reading component manifest")
	cmps, err := metadata.ReadComponents(files, manifestPath, cfg.RootDir)
	if err != nil {
		report.EndStep(stepRead, false, err.Error())
		output.PrintError("%v", err)
		return err
	}
	report.EndStep(stepRead, true, "")
	report.SetComponentCount(len(cmps))

	service := usecase.NewBundleService(
		esbuild.NewBundler(cfg, files),
		esbuild.NewOptimizer(),
		fs.NewOutputWriter(files),
	)
	bctx := usecase.NewBuildContext(cmps)

	stepBundle := report.StartStep("Generating custom elements bundle")
	result, err := service.OutputCustomElementsBundle(ctx, cfg, bctx)
	report.AddDiagnostics(bctx.Diagnostics.Items())
	report.EndStep(stepBundle, err == nil && result.Status != usecase.BundleFailed, "")
	for _, f := range result.Files {
		report.AddFile(relativeTo(cfg.RootDir, f))
	}
	report.Render()

	if err != nil {
		output.PrintError("%v", err)
		return err
	}

	switch result.Status {
	case usecase.BundleSkipped:
		output.PrintWarning("No %s output target configured, nothing to do", core.OutputTargetDistCustomElementsBundle)
	case usecase.BundleFailed:
		return fmt.Errorf("custom elements bundle failed")
	default:
		slog.Debug("Bundle written", "entryHash", result.EntryHash, "minified", result.Minified)
		output.PrintDone("Build completed successfully")
	}
	return nil
}

func relativeTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
