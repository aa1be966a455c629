// Package types defines the closed type vocabulary of the translator.
//
// Types are structural values, not interned IDs: the analyses compare and
// destructure them directly, and a translation unit is small enough that
// sharing buys nothing. Unknown is the conservative placeholder: passes must
// treat it as non-copy, may-alias, may-move.
package types

import (
	"fmt"
	"strings"
)

// Kind enumerates the closed set of type constructors.
type Kind uint8

const (
	// Unknown is the placeholder for untyped or unresolvable expressions.
	Unknown Kind = iota
	Int
	Float
	Bool
	String
	Bytes
	None
	List
	Set
	Dict
	Tuple
	Optional
	Union
	Function
	Custom
	Generic
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case Unknown:
		return "unknown"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case String:
		return "str"
	case Bytes:
		return "bytes"
	case None:
		return "none"
	case List:
		return "list"
	case Set:
		return "set"
	case Dict:
		return "dict"
	case Tuple:
		return "tuple"
	case Optional:
		return "optional"
	case Union:
		return "union"
	case Function:
		return "function"
	case Custom:
		return "custom"
	case Generic:
		return "generic"
	default:
		return "?"
	}
}

// Type is one node of the closed type vocabulary.
// Args carries element types: one for List/Set/Optional, key+value for Dict,
// element types for Tuple/Union, parameter types plus return for Function,
// and type arguments for Generic.
type Type struct {
	Kind Kind
	Name string // for Custom and Generic
	Args []Type
}

// Primitive constructors.

func Unknown_() Type  { return Type{Kind: Unknown} }
func IntT() Type      { return Type{Kind: Int} }
func FloatT() Type    { return Type{Kind: Float} }
func BoolT() Type     { return Type{Kind: Bool} }
func StringT() Type   { return Type{Kind: String} }
func BytesT() Type    { return Type{Kind: Bytes} }
func NoneT() Type     { return Type{Kind: None} }
func ListOf(elem Type) Type { return Type{Kind: List, Args: []Type{elem}} }
func SetOf(elem Type) Type  { return Type{Kind: Set, Args: []Type{elem}} }

func DictOf(key, value Type) Type {
	return Type{Kind: Dict, Args: []Type{key, value}}
}

func TupleOf(elems ...Type) Type {
	return Type{Kind: Tuple, Args: elems}
}

func OptionalOf(elem Type) Type {
	return Type{Kind: Optional, Args: []Type{elem}}
}

func UnionOf(elems ...Type) Type {
	return Type{Kind: Union, Args: elems}
}

// FunctionOf builds a function type; the last arg is the return type.
func FunctionOf(params []Type, ret Type) Type {
	args := make([]Type, 0, len(params)+1)
	args = append(args, params...)
	args = append(args, ret)
	return Type{Kind: Function, Args: args}
}

func Named(name string) Type {
	return Type{Kind: Custom, Name: name}
}

func GenericOf(name string, args ...Type) Type {
	return Type{Kind: Generic, Name: name, Args: args}
}

// IsCopy reports whether values of this type are duplicated on read without
// observable cost. Strings are not copy; Unknown is conservatively not copy.
func (t Type) IsCopy() bool {
	switch t.Kind {
	case Int, Float, Bool, None, Bytes:
		return true
	default:
		return false
	}
}

// IsPrimitive reports whether the type is one of the scalar primitives.
func (t Type) IsPrimitive() bool {
	switch t.Kind {
	case Int, Float, Bool, String, Bytes, None:
		return true
	default:
		return false
	}
}

// IsContainer reports whether the type has indexable/iterable contents.
func (t Type) IsContainer() bool {
	switch t.Kind {
	case List, Set, Dict, Tuple:
		return true
	default:
		return false
	}
}

// IsUnknown reports whether the type is the conservative placeholder.
func (t Type) IsUnknown() bool {
	return t.Kind == Unknown
}

// Elem returns the element type of List/Set/Optional, or Unknown.
func (t Type) Elem() Type {
	if len(t.Args) == 1 {
		return t.Args[0]
	}
	return Type{Kind: Unknown}
}

// Equal reports structural equality.
func (t Type) Equal(other Type) bool {
	if t.Kind != other.Kind || t.Name != other.Name || len(t.Args) != len(other.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equal(other.Args[i]) {
			return false
		}
	}
	return true
}

// String renders the type in the surface syntax used by diagnostics.
func (t Type) String() string {
	switch t.Kind {
	case List, Set, Optional:
		return fmt.Sprintf("%s[%s]", t.Kind, t.Elem())
	case Dict:
		if len(t.Args) == 2 {
			return fmt.Sprintf("dict[%s, %s]", t.Args[0], t.Args[1])
		}
		return "dict"
	case Tuple, Union:
		parts := make([]string, len(t.Args))
		for i, a := range t.Args {
			parts[i] = a.String()
		}
		return fmt.Sprintf("%s[%s]", t.Kind, strings.Join(parts, ", "))
	case Function:
		if len(t.Args) == 0 {
			return "function"
		}
		params := make([]string, len(t.Args)-1)
		for i := 0; i < len(t.Args)-1; i++ {
			params[i] = t.Args[i].String()
		}
		return fmt.Sprintf("(%s) -> %s", strings.Join(params, ", "), t.Args[len(t.Args)-1])
	case Custom:
		return t.Name
	case Generic:
		parts := make([]string, len(t.Args))
		for i, a := range t.Args {
			parts[i] = a.String()
		}
		return fmt.Sprintf("%s[%s]", t.Name, strings.Join(parts, ", "))
	default:
		return t.Kind.String()
	}
}
