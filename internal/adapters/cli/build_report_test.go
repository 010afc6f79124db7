package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/3-lines-studio/bifrost-elements/internal/core"
)

func newTestReport() (*BuildReport, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewBuildReport(NewWriterOutput(&out, &errOut)), &out, &errOut
}

func TestBuildReportMinimal(t *testing.T) {
	report, out, errOut := newTestReport()
	report.SetComponentCount(3)
	step := report.StartStep("Generating custom elements bundle")
	report.EndStep(step, true, "")
	report.AddDiagnostics([]core.Diagnostic{{Level: core.LevelInfo, Message: "ignored"}})
	report.AddFile("dist/custom-elements/index.js")
	report.Render()

	got := out.String()
	for _, want := range []string{"3 components found", "Build complete in", "dist/custom-elements/index.js"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "ignored") {
		t.Error("info diagnostics must not be rendered")
	}
	if errOut.Len() != 0 {
		t.Errorf("unexpected stderr: %s", errOut.String())
	}
	if report.HasFailures() {
		t.Error("expected no failures")
	}
}

func TestBuildReportVerbose(t *testing.T) {
	report, out, errOut := newTestReport()
	step := report.StartStep("Generating custom elements bundle")
	report.EndStep(step, false, "")
	report.AddDiagnostics([]core.Diagnostic{
		{Level: core.LevelError, Header: "Build Error", Message: "bundling failed", Lines: []string{"a.ts: x", "a.ts: x", "b.ts: y"}},
		{Level: core.LevelWarn, Message: "unused import"},
	})
	report.Render()

	stderr := errOut.String()
	for _, want := range []string{"Errors (1)", "Build Error", "bundling failed", "a.ts: x (2 occurrences)", "b.ts: y", "Build failed after"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr)
		}
	}

	stdout := out.String()
	for _, want := range []string{"Warnings (1)", "unused import", "✗ Generating custom elements bundle"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
	if !report.HasFailures() {
		t.Error("expected failures")
	}
}

func TestBuildReportFailedStep(t *testing.T) {
	report, out, _ := newTestReport()
	step := report.StartStep("Reading component manifest")
	report.EndStep(step, false, errors.New("no such file").Error())
	report.Render()

	if !strings.Contains(out.String(), "Failed steps:") {
		t.Errorf("expected failed step listing:\n%s", out.String())
	}
	if !report.HasFailures() {
		t.Error("expected failures")
	}
}

func TestDeduplicateStrings(t *testing.T) {
	got := deduplicateStrings([]string{"b", "a", "b", "c", "b"})
	want := []string{"b (3 occurrences)", "a", "c"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("deduplicateStrings() = %v, want %v", got, want)
	}
}
