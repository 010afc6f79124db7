package esbuild

import (
	"context"
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/3-lines-studio/bifrost-elements/internal/core"
	"github.com/3-lines-studio/bifrost-elements/internal/usecase"
)

const optimizeHeader = "Optimize JS"

var targets = map[string]api.Target{
	"es2015": api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
	"esnext": api.ESNext,
}

// Optimizer minifies bundle output with esbuild's transform API.
type Optimizer struct{}

func NewOptimizer() *Optimizer {
	return &Optimizer{}
}

func (o *Optimizer) Optimize(ctx context.Context, input usecase.OptimizeInput) usecase.OptimizeResult {
	if err := ctx.Err(); err != nil {
		return failed(err.Error())
	}

	target, ok := targets[strings.ToLower(input.Target)]
	if !ok {
		return failed(fmt.Sprintf("unknown language target %q", input.Target))
	}

	result := api.Transform(input.Code, api.TransformOptions{
		Loader:            api.LoaderJS,
		Format:            api.FormatESModule,
		Target:            target,
		Charset:           api.CharsetUTF8,
		MinifyWhitespace:  input.Minify,
		MinifyIdentifiers: input.Minify,
		MinifySyntax:      input.Minify,
		LogLevel:          api.LogLevelSilent,
	})

	diagnostics := toDiagnostics(core.LevelWarn, optimizeHeader, result.Warnings)
	diagnostics = append(diagnostics, toDiagnostics(core.LevelError, optimizeHeader, result.Errors)...)

	if len(result.Errors) > 0 {
		return usecase.OptimizeResult{Diagnostics: diagnostics}
	}

	output := string(result.Code)
	return usecase.OptimizeResult{
		Diagnostics: diagnostics,
		Output:      &output,
	}
}

func failed(message string) usecase.OptimizeResult {
	return usecase.OptimizeResult{
		Diagnostics: []core.Diagnostic{{
			Level:   core.LevelError,
			Header:  optimizeHeader,
			Message: message,
		}},
	}
}
