package errors

import (
	"fmt"
	"strings"

	"hello-module/internal/ast"
)

// ErrorLevel represents the severity of an error
type ErrorLevel string

const (
	Error   ErrorLevel = "error"
	Warning ErrorLevel = "warning"
	Note    ErrorLevel = "note"
	Help    ErrorLevel = "help"
)

// CompilerError represents a structured error with suggestions and context
type CompilerError struct {
	Level       ErrorLevel
	Code        string       // Error code like E0001
	Message     string       // Primary error message
	Position    ast.Position // Location in source
	Length      int          // Length of the problematic region
	Suggestions []string
	Notes       []string
	HelpText    string
}

// Error renders the error on one line without colour.
func (e CompilerError) Error() string {
	loc := fmt.Sprintf("%d:%d", e.Position.Line, e.Position.Column)
	if e.Position.Filename != "" {
		loc = e.Position.Filename + ":" + loc
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s[%s]: %s", loc, e.Level, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", loc, e.Level, e.Message)
}

// HasErrors reports whether any entry is an error rather than a warning.
func HasErrors(errs []CompilerError) bool {
	for _, e := range errs {
		if e.Level == Error {
			return true
		}
	}
	return false
}

// Builder provides a fluent interface for creating errors with suggestions
type Builder struct {
	err CompilerError
}

// NewError creates a new error builder
func NewError(code, message string, pos ast.Position) *Builder {
	return &Builder{
		err: CompilerError{
			Level:    Error,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// NewWarning creates a new warning builder
func NewWarning(code, message string, pos ast.Position) *Builder {
	b := NewError(code, message, pos)
	b.err.Level = Warning
	return b
}

func (b *Builder) WithLength(length int) *Builder {
	b.err.Length = length
	return b
}

func (b *Builder) WithSuggestion(message string) *Builder {
	b.err.Suggestions = append(b.err.Suggestions, message)
	return b
}

func (b *Builder) WithNote(note string) *Builder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

func (b *Builder) WithHelp(help string) *Builder {
	b.err.HelpText = help
	return b
}

// Build returns the completed compiler error
func (b *Builder) Build() CompilerError {
	return b.err
}

// SyntaxError wraps a grammar failure
func SyntaxError(message string, pos ast.Position) CompilerError {
	return NewError(ErrorSyntax, message, pos).Build()
}

// FunctionCount reports a source that does not hold exactly one function
func FunctionCount(count int, pos ast.Position) CompilerError {
	return NewError(ErrorFunctionCount, fmt.Sprintf("expected exactly one function, found %d", count), pos).
		WithHelp("each source compiles to a module with a single function").
		Build()
}

// UndefinedVariable creates an error for undefined variables with suggestions
func UndefinedVariable(name string, pos ast.Position, similarNames []string) CompilerError {
	builder := NewError(ErrorUndefinedVariable, fmt.Sprintf("undefined variable '%s'", name), pos).
		WithLength(len(name))

	switch len(similarNames) {
	case 0:
		builder = builder.WithSuggestion("make sure the variable is declared before use")
	case 1:
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", similarNames[0]))
	default:
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean one of: '%s'?", strings.Join(similarNames, "', '")))
	}

	return builder.Build()
}

// TypeMismatch creates an error for type mismatches
func TypeMismatch(expected, actual string, pos ast.Position) CompilerError {
	builder := NewError(ErrorTypeMismatch, fmt.Sprintf("type mismatch: expected %s, found %s", expected, actual), pos)

	if expected == "bool" {
		builder = builder.WithSuggestion("use a comparison operator to create a boolean value")
	} else if actual == "bool" {
		builder = builder.WithNote("comparisons yield bool and can only be used as conditions")
	}

	return builder.Build()
}

// DuplicateDeclaration creates an error for names declared twice in one scope
func DuplicateDeclaration(name string, pos ast.Position) CompilerError {
	return NewError(ErrorDuplicateDeclaration, fmt.Sprintf("duplicate declaration: %s", name), pos).
		WithLength(len(name)).
		WithSuggestion(fmt.Sprintf("rename the duplicate '%s' to a unique name", name)).
		WithNote("identifiers must be unique within their scope").
		Build()
}

// UnknownType creates an error for type names that are not supported
func UnknownType(name string, pos ast.Position, known []string) CompilerError {
	builder := NewError(ErrorUnknownType, fmt.Sprintf("unknown type '%s'", name), pos).
		WithLength(len(name))

	similar := FindSimilarNames(name, known)
	if len(similar) > 0 {
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", similar[0]))
	}

	return builder.WithNote(fmt.Sprintf("known types: %s", strings.Join(known, ", "))).Build()
}

// MissingReturn creates an error for functions that can fall off their end
func MissingReturn(functionName, returnType string, pos ast.Position) CompilerError {
	message := fmt.Sprintf("function '%s' declares return type '%s' but not every path returns", functionName, returnType)
	return NewError(ErrorMissingReturn, message, pos).
		WithSuggestion(fmt.Sprintf("add a return statement that returns a value of type '%s'", returnType)).
		WithHelp("functions with return types must return a value on all execution paths").
		Build()
}

// LiteralOverflow reports an integer literal that does not fit its type
func LiteralOverflow(text, typeName string, pos ast.Position) CompilerError {
	return NewError(ErrorLiteralOverflow, fmt.Sprintf("integer literal %s overflows %s", text, typeName), pos).
		WithLength(len(text)).
		Build()
}

// UnreachableCode creates a warning for statements after a return
func UnreachableCode(pos ast.Position) CompilerError {
	return NewWarning(WarningUnreachableCode, "unreachable code", pos).
		WithSuggestion("remove this code").
		WithNote("code after a return statement will never be executed").
		Build()
}

// UnusedVariable creates a warning for variables that are never read
func UnusedVariable(name string, pos ast.Position) CompilerError {
	return NewWarning(WarningUnusedVariable, fmt.Sprintf("variable '%s' is declared but never used", name), pos).
		WithLength(len(name)).
		WithSuggestion("remove the variable declaration if it's not needed").
		Build()
}
