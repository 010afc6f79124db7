package esbuild

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/3-lines-studio/bifrost-elements/internal/core"
)

func formatMessage(m api.Message) string {
	text := m.Text
	if m.PluginName != "" {
		text = "[plugin " + m.PluginName + "] " + text
	}
	if m.Location == nil {
		return text
	}
	return fmt.Sprintf("%s:%d:%d: %s", m.Location.File, m.Location.Line, m.Location.Column, text)
}

// messagesError folds esbuild errors into one error: a headline and one line per message.
func messagesError(headline string, msgs []api.Message) error {
	lines := make([]string, 0, len(msgs)+1)
	lines = append(lines, headline)
	for _, m := range msgs {
		lines = append(lines, formatMessage(m))
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func toDiagnostics(level, header string, msgs []api.Message) []core.Diagnostic {
	diagnostics := make([]core.Diagnostic, 0, len(msgs))
	for _, m := range msgs {
		d := core.Diagnostic{
			Level:   level,
			Header:  header,
			Message: m.Text,
		}
		if m.Location != nil && m.Location.LineText != "" {
			d.Lines = append(d.Lines, fmt.Sprintf("%d:%d %s", m.Location.Line, m.Location.Column, m.Location.LineText))
		}
		for _, note := range m.Notes {
			d.Lines = append(d.Lines, note.Text)
		}
		diagnostics = append(diagnostics, d)
	}
	return diagnostics
}
