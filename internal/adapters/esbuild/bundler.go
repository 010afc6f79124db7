package esbuild

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/3-lines-studio/bifrost-elements/internal/adapters/fs"
	"github.com/3-lines-studio/bifrost-elements/internal/core"
	"github.com/3-lines-studio/bifrost-elements/internal/runtime"
	"github.com/3-lines-studio/bifrost-elements/internal/usecase"
)

const (
	pluginName       = "bifrost-custom-elements"
	namespaceVirtual = "bifrost-virtual"
	namespaceRuntime = "bifrost-runtime"
	namespaceFile    = "file"
	scratchOutdir    = ".bifrost-elements"
)

var sourceFileFilter = `\.[cm]?[jt]sx?$`

var ErrNoInputs = errors.New("bundle has no inputs")

// Bundler drives esbuild in-process. Nothing is written to disk: esbuild
// returns its output files in memory.
type Bundler struct {
	cfg     *core.Config
	files   fs.FileSystem
	runtime fs.FileSystem
}

func NewBundler(cfg *core.Config, files fs.FileSystem) *Bundler {
	return &Bundler{
		cfg:     cfg,
		files:   files,
		runtime: fs.NewEmbedFileSystem(runtime.ClientFS()),
	}
}

func (b *Bundler) Bundle(ctx context.Context, opts usecase.BundleOptions) (usecase.Build, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(opts.Inputs) == 0 {
		return nil, ErrNoInputs
	}

	root, err := filepath.Abs(b.cfg.RootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root dir: %w", err)
	}

	return &build{
		bundler: b,
		opts:    opts,
		root:    root,
	}, nil
}

type build struct {
	bundler *Bundler
	opts    usecase.BundleOptions
	root    string
}

func (bd *build) Generate(ctx context.Context, opts usecase.GenerateOptions) ([]usecase.OutputArtifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format, err := outputFormat(opts.Format)
	if err != nil {
		return nil, err
	}

	sourcemap := api.SourceMapNone
	if opts.SourceMap {
		sourcemap = api.SourceMapInline
	}

	var entryPoints []api.EntryPoint
	for _, name := range slices.Sorted(maps.Keys(bd.opts.Inputs)) {
		entryPoints = append(entryPoints, api.EntryPoint{
			InputPath:  bd.opts.Inputs[name],
			OutputPath: name,
		})
	}

	result := api.Build(api.BuildOptions{
		EntryPointsAdvanced: entryPoints,
		AbsWorkingDir:       bd.root,
		Outdir:              filepath.Join(bd.root, scratchOutdir),
		Bundle:              true,
		Write:               false,
		Format:              format,
		Platform:            api.PlatformBrowser,
		Splitting:           !bd.opts.InlineDynamicImports && format == api.FormatESModule,
		Sourcemap:           sourcemap,
		Charset:             api.CharsetUTF8,
		LogLevel:            api.LogLevelSilent,
		Plugins:             []api.Plugin{bd.plugin()},
	})

	for _, w := range result.Warnings {
		slog.Warn("bundler warning", "bundle", bd.opts.ID, "message", formatMessage(w))
	}
	if len(result.Errors) > 0 {
		return nil, messagesError("bundling "+bd.opts.ID+" failed", result.Errors)
	}

	artifacts := make([]usecase.OutputArtifact, 0, len(result.OutputFiles))
	for _, f := range result.OutputFiles {
		kind := usecase.ArtifactAsset
		switch filepath.Ext(f.Path) {
		case ".js", ".mjs":
			kind = usecase.ArtifactChunk
		}
		artifacts = append(artifacts, usecase.OutputArtifact{
			Type:     kind,
			FileName: filepath.Base(f.Path),
			Code:     string(f.Contents),
		})
	}
	return artifacts, nil
}

func outputFormat(name string) (api.Format, error) {
	switch name {
	case "es", "esm", "":
		return api.FormatESModule, nil
	case "cjs":
		return api.FormatCommonJS, nil
	case "iife":
		return api.FormatIIFE, nil
	}
	return api.FormatDefault, fmt.Errorf("unsupported output format %q", name)
}

func (bd *build) specialIDs() []string {
	ids := []string{
		core.PublicCoreID,
		core.InternalClientID,
		core.AppDataID,
		core.AppGlobalsID,
		core.UserIndexEntryID,
	}
	for id := range bd.opts.Loader {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	quoted := make([]string, 0, len(ids))
	for _, id := range slices.Compact(ids) {
		quoted = append(quoted, regexp.QuoteMeta(id))
	}
	return quoted
}

func (bd *build) plugin() api.Plugin {
	return api.Plugin{
		Name: pluginName,
		Setup: func(pb api.PluginBuild) {
			idFilter := "^(" + strings.Join(bd.specialIDs(), "|") + ")$"

			pb.OnResolve(api.OnResolveOptions{Filter: idFilter}, bd.resolveID)
			pb.OnLoad(api.OnLoadOptions{Filter: ".*", Namespace: namespaceVirtual}, bd.loadVirtual)
			pb.OnLoad(api.OnLoadOptions{Filter: ".*", Namespace: namespaceRuntime}, bd.loadRuntime)
			pb.OnLoad(api.OnLoadOptions{Filter: sourceFileFilter, Namespace: namespaceFile}, bd.loadSource)
		},
	}
}

func (bd *build) resolveID(args api.OnResolveArgs) (api.OnResolveResult, error) {
	if _, ok := bd.opts.Loader[args.Path]; ok {
		return api.OnResolveResult{Path: args.Path, Namespace: namespaceVirtual}, nil
	}

	switch args.Path {
	case core.PublicCoreID, core.InternalClientID:
		return api.OnResolveResult{Path: runtime.ClientEntry, Namespace: namespaceRuntime}, nil
	case core.AppDataID, core.AppGlobalsID:
		return api.OnResolveResult{Path: args.Path, Namespace: namespaceVirtual}, nil
	case core.UserIndexEntryID:
		if index := bd.bundler.cfg.ResolvePath(bd.bundler.cfg.SrcIndex); index != "" && bd.bundler.files.FileExists(index) {
			return api.OnResolveResult{Path: index, Namespace: namespaceFile}, nil
		}
		return api.OnResolveResult{Path: args.Path, Namespace: namespaceVirtual}, nil
	}
	return api.OnResolveResult{}, nil
}

func (bd *build) loadVirtual(args api.OnLoadArgs) (api.OnLoadResult, error) {
	var contents string
	if text, ok := bd.opts.Loader[args.Path]; ok {
		contents = text
	} else {
		switch args.Path {
		case core.AppDataID:
			text, err := appDataModule(bd.opts.Conditionals, bd.bundler.cfg.Namespace)
			if err != nil {
				return api.OnLoadResult{}, err
			}
			contents = text
		case core.AppGlobalsID:
			contents = appGlobalsModule(bd.bundler.cfg.ResolvePath(bd.bundler.cfg.GlobalScript), bd.bundler.files)
		case core.UserIndexEntryID:
			contents = "export {};\n"
		default:
			return api.OnLoadResult{}, fmt.Errorf("unknown virtual module %s", args.Path)
		}
	}

	return api.OnLoadResult{
		Contents:   &contents,
		ResolveDir: bd.root,
		Loader:     api.LoaderJS,
	}, nil
}

func (bd *build) loadRuntime(args api.OnLoadArgs) (api.OnLoadResult, error) {
	data, err := bd.bundler.runtime.ReadFile(args.Path)
	if err != nil {
		return api.OnLoadResult{}, fmt.Errorf("runtime module %s: %w", args.Path, err)
	}
	contents := string(data)
	return api.OnLoadResult{
		Contents:   &contents,
		ResolveDir: bd.root,
		Loader:     api.LoaderJS,
	}, nil
}

func (bd *build) loadSource(args api.OnLoadArgs) (api.OnLoadResult, error) {
	if strings.Contains(filepath.ToSlash(args.Path), "/node_modules/") {
		return api.OnLoadResult{}, nil
	}

	data, err := bd.bundler.files.ReadFile(args.Path)
	if err != nil {
		return api.OnLoadResult{}, err
	}

	mod, err := core.ApplyTransforms(core.Module{Path: args.Path, Code: string(data)}, bd.opts.Transforms)
	if err != nil {
		return api.OnLoadResult{}, err
	}

	return api.OnLoadResult{
		Contents:   &mod.Code,
		ResolveDir: filepath.Dir(args.Path),
		Loader:     loaderFor(args.Path),
	}, nil
}

func loaderFor(path string) api.Loader {
	switch filepath.Ext(path) {
	case ".ts", ".mts", ".cts":
		return api.LoaderTS
	case ".tsx":
		return api.LoaderTSX
	case ".jsx":
		return api.LoaderJSX
	}
	return api.LoaderJS
}

func appDataModule(build core.BuildFeatures, namespace string) (string, error) {
	if build == nil {
		build = core.BuildFeatures{}
	}
	buildJSON, err := json.Marshal(build)
	if err != nil {
		return "", fmt.Errorf("failed to serialize build conditionals: %w", err)
	}
	nsJSON, err := json.Marshal(namespace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("export const BUILD = %s;\nexport const NAMESPACE = %s;\n", buildJSON, nsJSON), nil
}

func appGlobalsModule(globalScript string, files fs.FileSystem) string {
	if globalScript == "" || !files.FileExists(globalScript) {
		return "export default function appGlobals() {}\n"
	}
	return fmt.Sprintf(`import globalFn from %s;
export default function appGlobals() {
  if (typeof globalFn === 'function') {
    globalFn();
  }
}
`, strconv.Quote(filepath.ToSlash(globalScript)))
}
