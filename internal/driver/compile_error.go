package driver

import (
	"fmt"

	"hello-module/internal/errors"
)

// CompileError reports that a source did not make it past parsing or
// semantic analysis.
type CompileError struct {
	Filename string
	Source   string
	Errors   []errors.CompilerError
}

func (e *CompileError) Error() string {
	count := 0
	first := ""
	for _, err := range e.Errors {
		if err.Level != errors.Error {
			continue
		}
		if count == 0 {
			first = err.Error()
		}
		count++
	}

	switch count {
	case 0:
		return fmt.Sprintf("%s: compilation failed", e.Filename)
	case 1:
		return first
	}
	return fmt.Sprintf("%s (and %d more errors)", first, count-1)
}

// Format renders every diagnostic, warnings included, against the source.
func (e *CompileError) Format() string {
	return errors.NewErrorReporter(e.Filename, e.Source).FormatAll(e.Errors)
}
