package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// ErrorLevel is the severity of a message.
type ErrorLevel int

const (
	ErrorLevelError ErrorLevel = iota
	ErrorLevelWarning
	ErrorLevelInfo
)

// ErrorOptions describes a CLI error message.
type ErrorOptions struct {
	Level       ErrorLevel
	Context     string
	Problem     string
	Suggestions []string
	Hints       []string
	NoColor     bool
}

func paint(noColor bool, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if noColor {
		c.DisableColor()
	}
	return c
}

// FormatError renders a message such as
//
//	ERROR UNKNOWN CLASS: Tset1
//	   Did you mean: Test1?
//	   > List classes: bdo models
func FormatError(opts ErrorOptions) string {
	var b strings.Builder

	label, attr := "ERROR", color.FgRed
	switch opts.Level {
	case ErrorLevelWarning:
		label, attr = "WARNING", color.FgYellow
	case ErrorLevelInfo:
		label, attr = "INFO", color.FgCyan
	}
	header := paint(opts.NoColor, attr, color.Bold)

	if opts.Context != "" {
		header.Fprintf(&b, "%s %s: %s\n", label, strings.ToUpper(opts.Context), opts.Problem)
	} else {
		header.Fprintf(&b, "%s %s\n", label, opts.Problem)
	}
	if len(opts.Suggestions) > 0 {
		paint(opts.NoColor, color.FgYellow).Fprintf(&b, "   Did you mean: %s?\n", strings.Join(opts.Suggestions, ", "))
	}
	hint := paint(opts.NoColor, color.FgCyan)
	for _, h := range opts.Hints {
		hint.Fprintf(&b, "   > %s\n", h)
	}
	return b.String()
}

// WriteError writes FormatError(opts) to w.
func WriteError(w io.Writer, opts ErrorOptions) {
	fmt.Fprint(w, FormatError(opts))
}

// FormatSuccess renders a success line.
func FormatSuccess(message string, noColor bool) string {
	return paint(noColor, color.FgGreen, color.Bold).Sprintf("OK %s", message)
}

// WriteSuccess writes FormatSuccess(message) and a newline to w.
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, FormatSuccess(message, noColor))
}

// UnknownClassError reports a class name that is not registered, suggesting
// registered names close to it.
func UnknownClassError(name string, registered []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Context:     "unknown class",
		Problem:     name,
		Suggestions: Suggest(name, registered),
		Hints:       []string{"List classes: bdo models"},
		NoColor:     noColor,
	})
}

// ConfigError reports an invalid configuration.
func ConfigError(err error, noColor bool) string {
	return FormatError(ErrorOptions{
		Context: "configuration error",
		Problem: err.Error(),
		Hints:   []string{"Check bdo.yaml or the BDO_* environment", "Get help: bdo --help"},
		NoColor: noColor,
	})
}
