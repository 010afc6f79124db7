package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/3-lines-studio/bifrost-elements/internal/adapters/fs"
	"github.com/3-lines-studio/bifrost-elements/internal/core"
	"github.com/3-lines-studio/bifrost-elements/internal/usecase"
)

type mockBundler struct {
	mu        sync.Mutex
	calls     int
	opts      usecase.BundleOptions
	genOpts   usecase.GenerateOptions
	artifacts []usecase.OutputArtifact
	bundleErr error
	genErr    error
}

func (m *mockBundler) Bundle(ctx context.Context, opts usecase.BundleOptions) (usecase.Build, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.opts = opts
	if m.bundleErr != nil {
		return nil, m.bundleErr
	}
	return mockBuild{m}, nil
}

type mockBuild struct {
	b *mockBundler
}

func (m mockBuild) Generate(ctx context.Context, opts usecase.GenerateOptions) ([]usecase.OutputArtifact, error) {
	m.b.mu.Lock()
	defer m.b.mu.Unlock()
	m.b.genOpts = opts
	if m.b.genErr != nil {
		return nil, m.b.genErr
	}
	return m.b.artifacts, nil
}

type mockOptimizer struct {
	calls  int
	input  usecase.OptimizeInput
	result usecase.OptimizeResult
}

func (m *mockOptimizer) Optimize(ctx context.Context, input usecase.OptimizeInput) usecase.OptimizeResult {
	m.calls++
	m.input = input
	return m.result
}

const bundleCode = "export const MyButton = proxyNative(class {}, [0,\"my-button\",{},[]]);\n"

func chunk(code string) []usecase.OutputArtifact {
	return []usecase.OutputArtifact{{Type: usecase.ArtifactChunk, FileName: "index.js", Code: code}}
}

func testComponents() []core.ComponentDescriptor {
	return []core.ComponentDescriptor{
		{TagName: "my-button", ClassName: "MyButton", SourceFilePath: "/proj/src/my-button.tsx"},
		{TagName: "plain-card", ClassName: "PlainCard", SourceFilePath: "/proj/src/plain-card.js", IsPlain: true},
	}
}

func testConfig(dirs ...string) *core.Config {
	cfg := &core.Config{RootDir: "/proj", Namespace: "app"}
	for _, d := range dirs {
		cfg.OutputTargets = append(cfg.OutputTargets, core.OutputTarget{Type: core.OutputTargetDistCustomElementsBundle, Dir: d})
	}
	return cfg
}

type harness struct {
	bundler   *mockBundler
	optimizer *mockOptimizer
	mem       *fs.MemFileSystem
	writer    *fs.OutputWriter
	service   *usecase.BundleService
	bctx      *usecase.BuildContext
}

func newHarness(artifacts []usecase.OutputArtifact) *harness {
	h := &harness{
		bundler:   &mockBundler{artifacts: artifacts},
		optimizer: &mockOptimizer{},
		mem:       fs.NewMemFileSystem(),
		bctx:      usecase.NewBuildContext(testComponents()),
	}
	h.writer = fs.NewOutputWriter(h.mem)
	h.service = usecase.NewBundleService(h.bundler, h.optimizer, h.writer)
	return h
}

func readFile(t *testing.T, mem *fs.MemFileSystem, path string) string {
	t.Helper()
	data, err := mem.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", path, err)
	}
	return string(data)
}

func TestOutputCustomElementsBundleNoTargets(t *testing.T) {
	h := newHarness(chunk(bundleCode))
	cfg := testConfig()
	cfg.OutputTargets = []core.OutputTarget{{Type: "www", Dir: "/proj/www"}}

	out, err := h.service.OutputCustomElementsBundle(context.Background(), cfg, h.bctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Status != usecase.BundleSkipped {
		t.Errorf("status = %s, want skipped", out.Status)
	}
	if h.bundler.calls != 0 {
		t.Errorf("bundler called %d times, want 0", h.bundler.calls)
	}
	if len(h.mem.Paths()) != 0 {
		t.Errorf("files written: %v", h.mem.Paths())
	}
}

func TestOutputCustomElementsBundleBundleOptions(t *testing.T) {
	h := newHarness(chunk(bundleCode))
	cfg := testConfig("/proj/dist")
	cfg.SourceMap = true

	if _, err := h.service.OutputCustomElementsBundle(context.Background(), cfg, h.bctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	opts := h.bundler.opts
	if opts.Inputs["index"] != core.CoreEntrypointID {
		t.Errorf("inputs = %v", opts.Inputs)
	}
	entry := opts.Loader[core.CoreEntrypointID]
	if !strings.Contains(entry, "proxyNative($CmpMyButton") {
		t.Errorf("loader entry missing proxied component:\n%s", entry)
	}
	if !opts.InlineDynamicImports {
		t.Error("expected inline dynamic imports")
	}
	if len(opts.Transforms) != 2 {
		t.Errorf("transforms = %d, want 2", len(opts.Transforms))
	}
	for _, name := range []string{core.FeatureLazyLoad, core.FeatureHydrateClientSide, core.FeatureHydrateServerSide, core.FeatureTaskQueue, core.FeatureDevTools} {
		if v, ok := opts.Conditionals[name]; !ok || v {
			t.Errorf("conditional %s = (%v, %v), want (false, true)", name, v, ok)
		}
	}
	if h.bundler.genOpts.Format != "es" || !h.bundler.genOpts.SourceMap {
		t.Errorf("generate options = %+v", h.bundler.genOpts)
	}
}

func TestOutputCustomElementsBundleWritesEveryTarget(t *testing.T) {
	h := newHarness(chunk(bundleCode))
	cfg := testConfig("/proj/dist/a", "/proj/dist/b", "/proj/dist/c")
	cfg.OutputTargets = append(cfg.OutputTargets, core.OutputTarget{Type: "www", Dir: "/proj/www"})

	out, err := h.service.OutputCustomElementsBundle(context.Background(), cfg, h.bctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Status != usecase.BundleWritten {
		t.Fatalf("status = %s, want written", out.Status)
	}

	want := []string{"/proj/dist/a/index.js", "/proj/dist/b/index.js", "/proj/dist/c/index.js"}
	if got := h.mem.Paths(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("paths = %v, want %v", got, want)
	}
	if got := h.writer.Written(core.OutputTargetDistCustomElementsBundle); len(got) != 3 {
		t.Errorf("recorded writes = %v", got)
	}
	for _, p := range want {
		if got := readFile(t, h.mem, p); got != bundleCode {
			t.Errorf("%s = %q, want bundle code", p, got)
		}
	}
	if out.EntryHash == "" {
		t.Error("expected entry hash")
	}
}

func TestOutputCustomElementsBundleMinifyDisabled(t *testing.T) {
	h := newHarness(chunk(bundleCode))
	minified := "minified"
	h.optimizer.result = usecase.OptimizeResult{Output: &minified}

	out, err := h.service.OutputCustomElementsBundle(context.Background(), testConfig("/proj/dist"), h.bctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.optimizer.calls != 0 {
		t.Errorf("optimizer called %d times, want 0", h.optimizer.calls)
	}
	if out.Minified {
		t.Error("output marked minified")
	}
	if got := readFile(t, h.mem, "/proj/dist/index.js"); got != bundleCode {
		t.Errorf("written = %q, want verbatim bundle", got)
	}
}

func TestOutputCustomElementsBundleMinifyEnabled(t *testing.T) {
	h := newHarness(chunk(bundleCode))
	minified := "export const MyButton=proxyNative(class{},[0,\"my-button\",{},[]]);"
	h.optimizer.result = usecase.OptimizeResult{
		Output:      &minified,
		Diagnostics: []core.Diagnostic{{Level: core.LevelWarn, Message: "unused"}},
	}
	cfg := testConfig("/proj/dist")
	cfg.MinifyJS = true

	out, err := h.service.OutputCustomElementsBundle(context.Background(), cfg, h.bctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.optimizer.input.Target != "es2017" || !h.optimizer.input.Minify || h.optimizer.input.Code != bundleCode {
		t.Errorf("optimizer input = %+v", h.optimizer.input)
	}
	if !out.Minified {
		t.Error("expected minified output")
	}
	if got := readFile(t, h.mem, "/proj/dist/index.js"); got != minified {
		t.Errorf("written = %q, want minified code", got)
	}
	if h.bctx.Diagnostics.Len() != 1 {
		t.Errorf("diagnostics = %d, want the optimizer warning", h.bctx.Diagnostics.Len())
	}
}

func TestOutputCustomElementsBundleOptimizerFailure(t *testing.T) {
	tests := []struct {
		name   string
		result func() usecase.OptimizeResult
	}{
		{
			name: "no output",
			result: func() usecase.OptimizeResult {
				return usecase.OptimizeResult{Diagnostics: []core.Diagnostic{{Level: core.LevelError, Message: "syntax error"}}}
			},
		},
		{
			name: "output with errors",
			result: func() usecase.OptimizeResult {
				partial := "broken"
				return usecase.OptimizeResult{
					Output:      &partial,
					Diagnostics: []core.Diagnostic{{Level: core.LevelError, Message: "syntax error"}},
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(chunk(bundleCode))
			h.optimizer.result = tt.result()
			cfg := testConfig("/proj/dist")
			cfg.MinifyJS = true

			out, err := h.service.OutputCustomElementsBundle(context.Background(), cfg, h.bctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Status != usecase.BundleWritten || out.Minified {
				t.Errorf("status = %s, minified = %v", out.Status, out.Minified)
			}
			if got := readFile(t, h.mem, "/proj/dist/index.js"); got != bundleCode {
				t.Errorf("written = %q, want original bundle", got)
			}
			if !h.bctx.Diagnostics.HasError() {
				t.Error("expected optimizer diagnostic to be recorded")
			}
		})
	}
}

func TestOutputCustomElementsBundleGenerateFailure(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*mockBundler)
		wantMsg string
	}{
		{
			name:    "bundle error",
			setup:   func(b *mockBundler) { b.bundleErr = errors.New("cannot resolve ./missing") },
			wantMsg: "cannot resolve ./missing",
		},
		{
			name:    "generate error",
			setup:   func(b *mockBundler) { b.genErr = errors.New("bundling failed\n  src/a.ts: unexpected token") },
			wantMsg: "bundling failed",
		},
		{
			name:    "no chunk",
			setup:   func(b *mockBundler) { b.artifacts = []usecase.OutputArtifact{{Type: usecase.ArtifactAsset, FileName: "index.css"}} },
			wantMsg: usecase.ErrNoOutputChunk.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(chunk(bundleCode))
			tt.setup(h.bundler)

			out, err := h.service.OutputCustomElementsBundle(context.Background(), testConfig("/proj/dist", "/proj/dist2"), h.bctx)
			if err != nil {
				t.Fatalf("generation failures must not be returned, got %v", err)
			}
			if out.Status != usecase.BundleFailed {
				t.Errorf("status = %s, want failed", out.Status)
			}
			if len(h.mem.Paths()) != 0 {
				t.Errorf("files written: %v", h.mem.Paths())
			}

			diags := h.bctx.Diagnostics.Items()
			if len(diags) != 1 {
				t.Fatalf("diagnostics = %d, want 1", len(diags))
			}
			if diags[0].Level != core.LevelError || diags[0].Message != tt.wantMsg {
				t.Errorf("diagnostic = %+v", diags[0])
			}
			if h.optimizer.calls != 0 {
				t.Error("optimizer must not run after a failed generate")
			}
		})
	}
}

func TestOutputCustomElementsBundleUsesFirstChunk(t *testing.T) {
	h := newHarness([]usecase.OutputArtifact{
		{Type: usecase.ArtifactAsset, FileName: "index.js.map", Code: "{}"},
		{Type: usecase.ArtifactChunk, FileName: "index.js", Code: bundleCode},
		{Type: usecase.ArtifactChunk, FileName: "chunk-2.js", Code: "export {};"},
	})

	out, err := h.service.OutputCustomElementsBundle(context.Background(), testConfig("/proj/dist"), h.bctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.FileName != "index.js" {
		t.Errorf("file name = %q, want index.js", out.FileName)
	}
	if got := h.mem.Paths(); len(got) != 1 || got[0] != "/proj/dist/index.js" {
		t.Errorf("paths = %v", got)
	}
}

func TestOutputCustomElementsBundleWriteFailure(t *testing.T) {
	h := newHarness(chunk(bundleCode))
	h.mem.FailOn("/proj/dist/b/index.js", errors.New("disk full"))

	out, err := h.service.OutputCustomElementsBundle(context.Background(), testConfig("/proj/dist/a", "/proj/dist/b"), h.bctx)
	if err == nil {
		t.Fatal("expected write error")
	}
	if !strings.Contains(err.Error(), "disk full") || !strings.Contains(err.Error(), "/proj/dist/b/index.js") {
		t.Errorf("error = %v", err)
	}
	if out.Status != usecase.BundleFailed {
		t.Errorf("status = %s, want failed", out.Status)
	}
	if got := readFile(t, h.mem, "/proj/dist/a/index.js"); got != bundleCode {
		t.Errorf("sibling target not written, got %q", got)
	}
	for _, p := range h.mem.Paths() {
		if strings.HasSuffix(p, ".tmp") {
			t.Errorf("temp file left behind: %s", p)
		}
	}
}

func TestBundleStatusString(t *testing.T) {
	tests := []struct {
		status usecase.BundleStatus
		want   string
	}{
		{usecase.BundleSkipped, "skipped"},
		{usecase.BundleFailed, "failed"},
		{usecase.BundleWritten, "written"},
		{usecase.BundleStatus(9), "BundleStatus(9)"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
