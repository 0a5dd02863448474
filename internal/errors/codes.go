package errors

// Error codes for the front end
//
// Error code ranges:
// E0001-E0099: Semantic analysis errors
// E0100-E0199: Parser errors
// E0800-E0899: Warning codes

const (
	// E0001: Variable resolution errors
	ErrorUndefinedVariable = "E0001"

	// E0002: Type compatibility errors
	ErrorTypeMismatch = "E0002"

	// E0003: Duplicate declaration errors
	ErrorDuplicateDeclaration = "E0003"

	// E0004: Unknown type names
	ErrorUnknownType = "E0004"

	// E0005: Function declares a return type but not every path returns
	ErrorMissingReturn = "E0005"

	// E0006: Integer literal does not fit its type
	ErrorLiteralOverflow = "E0006"

	// E0099: Generic semantic error
	ErrorGenericSemantic = "E0099"

	// E0100: Syntax errors reported by the grammar
	ErrorSyntax = "E0100"

	// E0101: Source holds no function, or more than one
	ErrorFunctionCount = "E0101"

	// E0800: Statement can never run
	WarningUnreachableCode = "E0800"

	// E0801: Variable declared but never read
	WarningUnusedVariable = "E0801"
)

// GetErrorDescription returns a human-readable description of the error code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorUndefinedVariable:
		return "Variable is used but not defined in the current scope"
	case ErrorTypeMismatch:
		return "Expression type does not match expected type"
	case ErrorDuplicateDeclaration:
		return "Duplicate declaration found"
	case ErrorUnknownType:
		return "Type name is not known"
	case ErrorMissingReturn:
		return "Function declares return type but not every path returns"
	case ErrorLiteralOverflow:
		return "Integer literal is out of range"
	case ErrorGenericSemantic:
		return "Semantic analysis error"
	case ErrorSyntax:
		return "Source text does not match the grammar"
	case ErrorFunctionCount:
		return "Source must define exactly one function"
	case WarningUnreachableCode:
		return "Code is unreachable"
	case WarningUnusedVariable:
		return "Variable is declared but never used"
	default:
		return "Unknown error code"
	}
}

// IsWarning returns true if the error code represents a warning rather than an error
func IsWarning(code string) bool {
	return code >= "E0800" && code < "E0900"
}

// GetErrorCategory returns the category of the error based on its code
func GetErrorCategory(code string) string {
	switch {
	case code >= "E0001" && code < "E0100":
		return "Semantic Analysis"
	case code >= "E0100" && code < "E0200":
		return "Parser"
	case code >= "E0800" && code < "E0900":
		return "Warning"
	default:
		return "Unknown"
	}
}
