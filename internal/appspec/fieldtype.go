package appspec

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// FieldType is the closed set of field type kinds. Each kind is its own
// struct carrying only the data relevant to that kind, so a consumer can
// never read a decimal's scale off a string field.
type FieldType interface {
	fieldType()
	// CtyType maps the field type onto the value system used for defaults
	// and expression literals.
	CtyType() cty.Type
	// String renders the type the way it is written in source.
	String() string
}

// StrType is a bounded string. MaxLength zero means unbounded.
type StrType struct{ MaxLength int }

// TextType is an unbounded text blob.
type TextType struct{}

// IntType is a signed integer.
type IntType struct{}

// DecimalType is a fixed-point number.
type DecimalType struct{ Precision, Scale int }

// BoolType is a boolean.
type BoolType struct{}

// DateType is a calendar date.
type DateType struct{}

// DateTimeType is a timestamp.
type DateTimeType struct{}

// UUIDType is a universally unique identifier.
type UUIDType struct{}

// EnumType is a closed set of named values, in declaration order.
type EnumType struct{ Values []string }

// RefType is a reference to another entity. Entity is always the resolved
// target name; raw source spellings never survive linking.
type RefType struct{ Entity string }

// EmailType is an e-mail address.
type EmailType struct{}

func (StrType) fieldType()      {}
func (TextType) fieldType()     {}
func (IntType) fieldType()      {}
func (DecimalType) fieldType()  {}
func (BoolType) fieldType()     {}
func (DateType) fieldType()     {}
func (DateTimeType) fieldType() {}
func (UUIDType) fieldType()     {}
func (EnumType) fieldType()     {}
func (RefType) fieldType()      {}
func (EmailType) fieldType()    {}

func (StrType) CtyType() cty.Type      { return cty.String }
func (TextType) CtyType() cty.Type     { return cty.String }
func (IntType) CtyType() cty.Type      { return cty.Number }
func (DecimalType) CtyType() cty.Type  { return cty.Number }
func (BoolType) CtyType() cty.Type     { return cty.Bool }
func (DateType) CtyType() cty.Type     { return cty.String }
func (DateTimeType) CtyType() cty.Type { return cty.String }
func (UUIDType) CtyType() cty.Type     { return cty.String }
func (EnumType) CtyType() cty.Type     { return cty.String }
func (RefType) CtyType() cty.Type      { return cty.String }
func (EmailType) CtyType() cty.Type    { return cty.String }

func (t StrType) String() string {
	if t.MaxLength == 0 {
		return "str"
	}
	return fmt.Sprintf("str(%d)", t.MaxLength)
}
func (TextType) String() string { return "text" }
func (IntType) String() string  { return "int" }
func (t DecimalType) String() string {
	return fmt.Sprintf("decimal(%d,%d)", t.Precision, t.Scale)
}
func (BoolType) String() string     { return "bool" }
func (DateType) String() string     { return "date" }
func (DateTimeType) String() string { return "datetime" }
func (UUIDType) String() string     { return "uuid" }
func (t EnumType) String() string {
	return fmt.Sprintf("enum(%s)", strings.Join(t.Values, ", "))
}
func (t RefType) String() string { return "ref " + t.Entity }
func (EmailType) String() string { return "email" }
