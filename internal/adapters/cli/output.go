package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

type Output struct {
	enableColors bool
	out          io.Writer
	errOut       io.Writer

	green  *color.Color
	yellow *color.Color
	red    *color.Color
	gray   *color.Color
}

func NewOutput() *Output {
	o := &Output{
		out:    os.Stdout,
		errOut: os.Stderr,
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed),
		gray:   color.New(color.FgHiBlack),
	}
	if isTerminal() {
		o.EnableColors()
	} else {
		o.DisableColors()
	}
	return o
}

// NewWriterOutput prints to the given writers without colors.
func NewWriterOutput(out, errOut io.Writer) *Output {
	o := NewOutput()
	o.out = out
	o.errOut = errOut
	o.DisableColors()
	return o
}

func (o *Output) EnableColors() {
	o.enableColors = true
	for _, c := range []*color.Color{o.green, o.yellow, o.red, o.gray} {
		c.EnableColor()
	}
}

func (o *Output) DisableColors() {
	o.enableColors = false
	for _, c := range []*color.Color{o.green, o.yellow, o.red, o.gray} {
		c.DisableColor()
	}
}

func (o *Output) Green(text string) string {
	return o.green.Sprint(text)
}

func (o *Output) Yellow(text string) string {
	return o.yellow.Sprint(text)
}

func (o *Output) Red(text string) string {
	return o.red.Sprint(text)
}

func (o *Output) Gray(text string) string {
	return o.gray.Sprint(text)
}

func (o *Output) Out() io.Writer {
	return o.out
}

func (o *Output) ErrOut() io.Writer {
	return o.errOut
}

func (o *Output) PrintHeader(msg string) {
	fmt.Fprintln(o.out, msg)
	fmt.Fprintln(o.out)
}

func (o *Output) PrintStep(emoji, msg string, args ...any) {
	fmt.Fprintf(o.out, "  "+msg+"\n", args...)
}

func (o *Output) PrintSuccess(msg string, args ...any) {
	formatted := fmt.Sprintf(msg, args...)
	fmt.Fprintf(o.out, "  "+o.Green("✓ ")+"%s\n", formatted)
}

func (o *Output) PrintWarning(msg string, args ...any) {
	formatted := fmt.Sprintf(msg, args...)
	fmt.Fprintf(o.out, "  "+o.Yellow("⚠ ")+"%s\n", formatted)
}

func (o *Output) PrintError(msg string, args ...any) {
	formatted := fmt.Sprintf(msg, args...)
	fmt.Fprintf(o.errOut, "  "+o.Red("✗ ")+"%s\n", formatted)
}

func (o *Output) PrintFile(path string) {
	fmt.Fprintf(o.out, "    %s\n", path)
}

func (o *Output) PrintDone(msg string) {
	fmt.Fprintln(o.out, msg)
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
