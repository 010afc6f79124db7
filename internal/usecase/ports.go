package usecase

import (
	"context"

	"github.com/3-lines-studio/bifrost-elements/internal/core"
)

type ArtifactType string

const (
	ArtifactChunk ArtifactType = "chunk"
	ArtifactAsset ArtifactType = "asset"
)

type OutputArtifact struct {
	Type     ArtifactType
	FileName string
	Code     string
}

type BundleOptions struct {
	ID       string
	Platform string
	// Inputs maps an output entry name to the module id it is built from.
	Inputs map[string]string
	// Loader serves module ids from memory instead of the filesystem.
	Loader               map[string]string
	Conditionals         core.BuildFeatures
	Transforms           []core.Transform
	InlineDynamicImports bool
}

type GenerateOptions struct {
	Format    string
	SourceMap bool
}

type Bundler interface {
	Bundle(ctx context.Context, opts BundleOptions) (Build, error)
}

type Build interface {
	Generate(ctx context.Context, opts GenerateOptions) ([]OutputArtifact, error)
}

type OptimizeInput struct {
	Target string
	Minify bool
	Code   string
}

type OptimizeResult struct {
	Diagnostics []core.Diagnostic
	// Output is nil when the optimizer produced nothing usable.
	Output *string
}

type Optimizer interface {
	Optimize(ctx context.Context, input OptimizeInput) OptimizeResult
}

type WriteOptions struct {
	OutputTargetType string
}

type OutputFileSystem interface {
	WriteFile(path string, content string, opts WriteOptions) error
}
