package semantic

import (
	"math"
)

// Type is the static type of a value in the source language.
type Type int

const (
	TypeInvalid Type = iota
	TypeInt
	TypeBool
	TypeVoid
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeBool:
		return "bool"
	case TypeVoid:
		return "void"
	default:
		return "<invalid>"
	}
}

// builtinTypes are the type names a declaration may spell.
var builtinTypes = map[string]Type{
	"int":  TypeInt,
	"void": TypeVoid,
}

// KnownTypeNames lists the spellable type names in a stable order.
func KnownTypeNames() []string {
	return []string{"int", "void"}
}

// LookupType resolves a type name.
func LookupType(name string) (Type, bool) {
	t, ok := builtinTypes[name]
	return t, ok
}

func fitsInt32(v int64) bool {
	return v >= math.MinInt32 && v <= math.MaxInt32
}
