package core

import (
	"errors"
	"strings"
	"sync"
)

const (
	LevelError = "error"
	LevelWarn  = "warn"
	LevelInfo  = "info"
)

// Diagnostic is a build message. Synthesized code has no source positions,
// so diagnostics carry text only.
type Diagnostic struct {
	Level   string
	Header  string
	Message string
	Lines   []string
}

// DiagnosticSink collects diagnostics for one build. Entries are only ever
// appended; concurrent appends are safe.
type DiagnosticSink struct {
	mu    sync.Mutex
	items []Diagnostic
}

func NewDiagnosticSink() *DiagnosticSink {
	return &DiagnosticSink{}
}

func (s *DiagnosticSink) Add(d ...Diagnostic) {
	if len(d) == 0 {
		return
	}
	s.mu.Lock()
	s.items = append(s.items, d...)
	s.mu.Unlock()
}

// Items returns a copy of the collected diagnostics in insertion order.
func (s *DiagnosticSink) Items() []Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Diagnostic, len(s.items))
	copy(out, s.items)
	return out
}

func (s *DiagnosticSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *DiagnosticSink) HasError() bool {
	return HasError(s.Items())
}

func HasError(diagnostics []Diagnostic) bool {
	for _, d := range diagnostics {
		if d.Level == LevelError {
			return true
		}
	}
	return false
}

// DiagnosticError lets collaborators fail with a fully formed diagnostic.
type DiagnosticError struct {
	Diagnostic Diagnostic
}

func (e *DiagnosticError) Error() string {
	if e.Diagnostic.Header == "" {
		return e.Diagnostic.Message
	}
	return e.Diagnostic.Header + ": " + e.Diagnostic.Message
}

// CatchError records err as a single error diagnostic and returns it.
func CatchError(sink *DiagnosticSink, err error) Diagnostic {
	d := Diagnostic{
		Level:  LevelError,
		Header: "Build Error",
	}

	var diagErr *DiagnosticError
	if errors.As(err, &diagErr) {
		d = diagErr.Diagnostic
		d.Level = LevelError
	} else if err != nil {
		lines := strings.Split(strings.TrimSpace(err.Error()), "\n")
		d.Message = strings.TrimSpace(lines[0])
		for _, line := range lines[1:] {
			if line = strings.TrimSpace(line); line != "" {
				d.Lines = append(d.Lines, line)
			}
		}
	} else {
		d.Message = "unknown error"
	}

	sink.Add(d)
	return d
}
