package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/3-lines-studio/bifrost-elements/internal/core"
)

const (
	bundleID       = "customElementsBundle"
	entryName      = "index"
	optimizeTarget = "es2017"
)

var ErrNoOutputChunk = errors.New("bundler produced no output chunk")

// BuildContext is owned by the surrounding build and outlives this pipeline.
type BuildContext struct {
	Components  []core.ComponentDescriptor
	Diagnostics *core.DiagnosticSink
}

func NewBuildContext(cmps []core.ComponentDescriptor) *BuildContext {
	return &BuildContext{
		Components:  cmps,
		Diagnostics: core.NewDiagnosticSink(),
	}
}

type BundleStatus int

const (
	BundleSkipped BundleStatus = iota
	BundleFailed
	BundleWritten
)

func (s BundleStatus) String() string {
	switch s {
	case BundleSkipped:
		return "skipped"
	case BundleFailed:
		return "failed"
	case BundleWritten:
		return "written"
	}
	return fmt.Sprintf("BundleStatus(%d)", int(s))
}

type BundleOutput struct {
	Status    BundleStatus
	EntryHash string
	FileName  string
	Code      string
	Minified  bool
	Files     []string
}

type BundleService struct {
	bundler   Bundler
	optimizer Optimizer
	fs        OutputFileSystem
}

func NewBundleService(bundler Bundler, optimizer Optimizer, fs OutputFileSystem) *BundleService {
	return &BundleService{
		bundler:   bundler,
		optimizer: optimizer,
		fs:        fs,
	}
}

// OutputCustomElementsBundle builds every component into one ES module and
// writes it to each custom elements bundle target. Generation failures are
// recorded in the build diagnostics and nothing is written; only write errors
// are returned.
func (s *BundleService) OutputCustomElementsBundle(ctx context.Context, cfg *core.Config, bctx *BuildContext) (BundleOutput, error) {
	targets := cfg.CustomElementsBundleTargets()
	if len(targets) == 0 {
		return BundleOutput{Status: BundleSkipped}, nil
	}

	start := time.Now()
	slog.Debug("generate custom elements bundle started", "components", len(bctx.Components))

	chunk, entryHash, err := s.generate(ctx, cfg, bctx)
	if err != nil {
		d := core.CatchError(bctx.Diagnostics, err)
		slog.Debug("generate custom elements bundle finished", "status", BundleFailed, "error", d.Message, "duration", time.Since(start))
		return BundleOutput{Status: BundleFailed, EntryHash: entryHash}, nil
	}

	code, minified := s.optimize(ctx, cfg, bctx, chunk.Code)

	files, err := s.writeOutputs(targets, chunk.FileName, code)
	if err != nil {
		return BundleOutput{Status: BundleFailed, EntryHash: entryHash, FileName: chunk.FileName}, err
	}

	slog.Debug("generate custom elements bundle finished", "status", BundleWritten, "files", len(files), "duration", time.Since(start))

	return BundleOutput{
		Status:    BundleWritten,
		EntryHash: entryHash,
		FileName:  chunk.FileName,
		Code:      code,
		Minified:  minified,
		Files:     files,
	}, nil
}

func (s *BundleService) generate(ctx context.Context, cfg *core.Config, bctx *BuildContext) (core.OutputChunk, string, error) {
	entry, err := core.GenerateEntryPoint(bctx.Components)
	if err != nil {
		return core.OutputChunk{}, "", fmt.Errorf("failed to generate entry point: %w", err)
	}
	entryHash := core.HashEntryPoint(entry)

	transforms, err := core.CustomElementsTransforms(bctx.Components)
	if err != nil {
		return core.OutputChunk{}, entryHash, err
	}

	opts := BundleOptions{
		ID:           bundleID,
		Platform:     "client",
		Conditionals: core.ResolveBuildConditionals(cfg, bctx.Components),
		Transforms:   transforms,
		Inputs: map[string]string{
			entryName: core.CoreEntrypointID,
		},
		Loader: map[string]string{
			core.CoreEntrypointID: entry,
		},
		InlineDynamicImports: true,
	}

	build, err := s.bundler.Bundle(ctx, opts)
	if err != nil {
		return core.OutputChunk{}, entryHash, err
	}

	artifacts, err := build.Generate(ctx, GenerateOptions{
		Format:    "es",
		SourceMap: cfg.SourceMap,
	})
	if err != nil {
		return core.OutputChunk{}, entryHash, err
	}

	chunk, err := selectChunk(artifacts)
	if err != nil {
		return core.OutputChunk{}, entryHash, err
	}
	return chunk, entryHash, nil
}

// selectChunk picks the first chunk. Inline dynamic imports should make it the only one.
func selectChunk(artifacts []OutputArtifact) (core.OutputChunk, error) {
	var chunks []OutputArtifact
	for _, a := range artifacts {
		if a.Type == ArtifactChunk {
			chunks = append(chunks, a)
		}
	}
	if len(chunks) == 0 {
		return core.OutputChunk{}, ErrNoOutputChunk
	}
	if len(chunks) > 1 {
		slog.Warn("bundler produced more than one chunk, using the first", "chunks", len(chunks), "fileName", chunks[0].FileName)
	}
	return core.OutputChunk{FileName: chunks[0].FileName, Code: chunks[0].Code}, nil
}

// optimize minifies code when configured. A failed optimization keeps the
// original code; diagnostics are recorded either way.
func (s *BundleService) optimize(ctx context.Context, cfg *core.Config, bctx *BuildContext, code string) (string, bool) {
	if !cfg.MinifyJS || s.optimizer == nil {
		return code, false
	}

	result := s.optimizer.Optimize(ctx, OptimizeInput{
		Target: optimizeTarget,
		Minify: true,
		Code:   code,
	})
	bctx.Diagnostics.Add(result.Diagnostics...)

	if result.Output == nil || core.HasError(result.Diagnostics) {
		slog.Warn("minification failed, keeping unminified bundle", "diagnostics", len(result.Diagnostics))
		return code, false
	}
	return *result.Output, true
}

func (s *BundleService) writeOutputs(targets []core.OutputTarget, fileName, code string) ([]string, error) {
	files := make([]string, len(targets))
	errs := make([]error, len(targets))

	var g errgroup.Group
	for i, target := range targets {
		path := filepath.Join(target.Dir, fileName)
		files[i] = path
		g.Go(func() error {
			if err := s.fs.WriteFile(path, code, WriteOptions{OutputTargetType: target.Type}); err != nil {
				errs[i] = fmt.Errorf("failed to write %s: %w", path, err)
				return errs[i]
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return files, nil
}
