package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/3-lines-studio/bifrost-elements/internal/core"
)

type BuildStep struct {
	Name      string
	StartTime time.Time
	EndTime   time.Time
	Success   bool
	Error     string
}

type cliOutputWithColors interface {
	Green(text string) string
	Yellow(text string) string
	Red(text string) string
	Gray(text string) string
	Out() io.Writer
	ErrOut() io.Writer
}

type BuildReport struct {
	colors         cliOutputWithColors
	steps          []BuildStep
	warnings       []core.Diagnostic
	errors         []core.Diagnostic
	files          []string
	startTime      time.Time
	componentCount int
	hasFailures    bool
}

func NewBuildReport(colors cliOutputWithColors) *BuildReport {
	return &BuildReport{
		colors:    colors,
		steps:     make([]BuildStep, 0),
		warnings:  make([]core.Diagnostic, 0),
		errors:    make([]core.Diagnostic, 0),
		startTime: time.Now(),
	}
}

func (r *BuildReport) SetComponentCount(count int) {
	r.componentCount = count
}

func (r *BuildReport) StartStep(name string) int {
	r.steps = append(r.steps, BuildStep{
		Name:      name,
		StartTime: time.Now(),
	})
	return len(r.steps) - 1
}

func (r *BuildReport) EndStep(idx int, success bool, err string) {
	step := &r.steps[idx]
	step.EndTime = time.Now()
	step.Success = success
	step.Error = err
	if !success {
		r.hasFailures = true
	}
}

// AddDiagnostics sorts build diagnostics into errors and warnings.
// Info diagnostics are not reported.
func (r *BuildReport) AddDiagnostics(diagnostics []core.Diagnostic) {
	for _, d := range diagnostics {
		switch d.Level {
		case core.LevelError:
			r.errors = append(r.errors, d)
			r.hasFailures = true
		case core.LevelWarn:
			r.warnings = append(r.warnings, d)
		}
	}
}

func (r *BuildReport) AddFile(path string) {
	r.files = append(r.files, path)
}

func (r *BuildReport) Render() {
	duration := time.Since(r.startTime)

	if len(r.errors) == 0 && len(r.warnings) == 0 {
		r.renderMinimal(duration)
	} else {
		r.renderVerbose(duration)
	}
}

func (r *BuildReport) renderMinimal(duration time.Duration) {
	out := r.colors.Out()
	fmt.Fprintf(out, "  "+r.colors.Green("✓ ")+"%d components found\n", r.componentCount)

	stepLines := make([]string, 0, len(r.steps))
	allSuccessful := true

	for _, step := range r.steps {
		if !step.Success {
			allSuccessful = false
			stepLines = append(stepLines, "  "+r.colors.Red("✗ ")+step.Name)
		}
	}

	if allSuccessful {
		fmt.Fprintf(out, "  "+r.colors.Green("✓ ")+"Build complete in %s\n", formatDuration(duration))
	} else {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Failed steps:")
		for _, line := range stepLines {
			fmt.Fprintln(out, line)
		}
	}

	r.renderFiles()
}

func (r *BuildReport) renderVerbose(duration time.Duration) {
	out := r.colors.Out()
	errOut := r.colors.ErrOut()
	fmt.Fprintf(out, "  %d components found\n", r.componentCount)

	fmt.Fprintln(out)
	for _, step := range r.steps {
		status := r.colors.Green("✓")
		if !step.Success {
			status = r.colors.Red("✗")
		}
		fmt.Fprintf(out, "  %s %s\n", status, step.Name)
	}

	if len(r.errors) > 0 {
		fmt.Fprintln(errOut)
		fmt.Fprintf(errOut, "  "+r.colors.Red("✗ ")+"Errors (%d):\n", len(r.errors))
		r.renderDiagnostics(errOut, r.errors, r.colors.Red("✗"))
	}

	if len(r.warnings) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  "+r.colors.Yellow("⚠ ")+"Warnings (%d):\n", len(r.warnings))
		r.renderDiagnostics(out, r.warnings, r.colors.Yellow("⚠"))
	}

	fmt.Fprintln(out)
	if len(r.errors) > 0 {
		fmt.Fprintf(errOut, "  %s\n", r.colors.Red(fmt.Sprintf("Build failed after %s", formatDuration(duration))))
	} else {
		fmt.Fprintf(out, "  "+r.colors.Green("✓ ")+"Build complete in %s\n", formatDuration(duration))
	}

	r.renderFiles()
}

func (r *BuildReport) renderFiles() {
	if len(r.files) == 0 {
		return
	}
	out := r.colors.Out()
	fmt.Fprintln(out)
	for _, f := range r.files {
		fmt.Fprintf(out, "    %s\n", r.colors.Gray(f))
	}
}

func (r *BuildReport) renderDiagnostics(w io.Writer, diagnostics []core.Diagnostic, mark string) {
	for _, d := range diagnostics {
		header := d.Header
		if header == "" {
			header = "Build"
		}
		fmt.Fprintf(w, "  %s %s\n", mark, header)
		fmt.Fprintf(w, "    %s\n", d.Message)

		for _, line := range deduplicateStrings(d.Lines) {
			fmt.Fprintf(w, "      • %s\n", line)
		}
	}
}

func (r *BuildReport) HasFailures() bool {
	return r.hasFailures
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.1fs", float64(d)/float64(time.Second))
}

// deduplicateStrings collapses repeated lines, keeping first-seen order.
func deduplicateStrings(items []string) []string {
	if len(items) <= 1 {
		return items
	}

	counts := make(map[string]int)
	order := make([]string, 0, len(items))
	for _, item := range items {
		if counts[item] == 0 {
			order = append(order, item)
		}
		counts[item]++
	}

	result := make([]string, 0, len(order))
	for _, item := range order {
		if counts[item] > 1 {
			result = append(result, fmt.Sprintf("%s (%d occurrences)", item, counts[item]))
		} else {
			result = append(result, item)
		}
	}

	return result
}
