package schema

import "fmt"

// Kind is the logical type of a column.
type Kind uint8

// Logical column kinds.
const (
	KindInt Kind = iota + 1
	KindLong
	KindDouble
	KindBool
	KindVarchar
	KindText
)

var kindNames = [...]string{
	KindInt:     "INT",
	KindLong:    "LONG",
	KindDouble:  "DOUBLE",
	KindBool:    "BOOL",
	KindVarchar: "VARCHAR",
	KindText:    "TEXT",
}

// String returns the logical name of the kind.
func (k Kind) String() string {
	if k == 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", k)
	}
	return kindNames[k]
}

// Type is a logical column type. Size is only meaningful for KindVarchar.
type Type struct {
	Kind Kind
	Size int
}

// Predefined column types.
var (
	Int    = Type{Kind: KindInt}
	Long   = Type{Kind: KindLong}
	Double = Type{Kind: KindDouble}
	Bool   = Type{Kind: KindBool}
	Text   = Type{Kind: KindText}
)

// Varchar returns a VARCHAR type of the given length.
func Varchar(size int) Type {
	return Type{Kind: KindVarchar, Size: size}
}

// String returns the logical representation, e.g. VARCHAR(36).
func (t Type) String() string {
	if t.Kind == KindVarchar {
		return fmt.Sprintf("VARCHAR(%d)", t.Size)
	}
	return t.Kind.String()
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= KindInt && k <= KindText
}
