package errors

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// ErrorReporter handles consistent error formatting and suggestions
type ErrorReporter struct {
	filename string
	lines    []string
}

// NewErrorReporter creates a new error reporter for a file
func NewErrorReporter(filename, source string) *ErrorReporter {
	return &ErrorReporter{
		filename: filename,
		lines:    strings.Split(source, "\n"),
	}
}

// FormatAll formats every error in order.
func (er *ErrorReporter) FormatAll(errs []CompilerError) string {
	var b strings.Builder
	for _, err := range errs {
		b.WriteString(er.FormatError(err))
	}
	return b.String()
}

// FormatError formats a compiler error with the offending line and a caret marker
func (er *ErrorReporter) FormatError(err CompilerError) string {
	var result strings.Builder

	levelColor := styleFor(err.Level).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	// Header: error[E0001]: message
	if err.Code != "" {
		result.WriteString(fmt.Sprintf("%s[%s]: %s\n",
			levelColor(string(err.Level)), err.Code, err.Message))
	} else {
		result.WriteString(fmt.Sprintf("%s: %s\n",
			levelColor(string(err.Level)), err.Message))
	}

	lineNumberWidth := gutterWidth(err.Position.Line)
	indent := strings.Repeat(" ", lineNumberWidth)

	result.WriteString(fmt.Sprintf("%s %s %s:%d:%d\n",
		indent, dim("-->"), er.filename, err.Position.Line, err.Position.Column))
	result.WriteString(fmt.Sprintf("%s %s\n", indent, dim("│")))

	if err.Position.Line <= len(er.lines) && err.Position.Line > 0 {
		lineContent := er.lines[err.Position.Line-1]
		result.WriteString(fmt.Sprintf("%s %s %s\n",
			bold(fmt.Sprintf("%*d", lineNumberWidth, err.Position.Line)),
			dim("│"),
			lineContent))

		caret := marker(err.Position.Column, err.Length, err.Level)
		result.WriteString(fmt.Sprintf("%s %s %s\n", indent, dim("│"), caret))
	}

	for _, suggestion := range err.Suggestions {
		result.WriteString(fmt.Sprintf("%s %s %s\n", indent, levelStyles[Help].Sprint("help:"), suggestion))
	}
	for _, note := range err.Notes {
		result.WriteString(fmt.Sprintf("%s %s %s %s\n", indent, dim("="), levelStyles[Note].Sprint("note:"), note))
	}
	if err.HelpText != "" {
		result.WriteString(fmt.Sprintf("%s %s %s %s\n", indent, dim("="), levelStyles[Help].Sprint("help:"), err.HelpText))
	}

	result.WriteString("\n")
	return result.String()
}

var levelStyles = map[ErrorLevel]*color.Color{
	Error:   color.New(color.FgRed, color.Bold),
	Warning: color.New(color.FgYellow, color.Bold),
	Note:    color.New(color.FgBlue, color.Bold),
	Help:    color.New(color.FgGreen, color.Bold),
}

func styleFor(level ErrorLevel) *color.Color {
	if c, ok := levelStyles[level]; ok {
		return c
	}
	return levelStyles[Error]
}

// marker underlines length columns starting at column.
func marker(column, length int, level ErrorLevel) string {
	return strings.Repeat(" ", max(0, column-1)) + styleFor(level).Sprint(strings.Repeat("^", max(1, length)))
}

// gutterWidth is the width of the line-number column, at least three.
func gutterWidth(line int) int {
	return max(3, len(strconv.Itoa(line)))
}
