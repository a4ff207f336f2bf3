package validator

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/dazzle-lang/dazzle/internal/appspec"
)

// checkEntities enforces the entity-level invariants: exactly one primary
// key, well-formed enum and decimal arguments, constraints over existing
// fields, and defaults compatible with their field type.
func (c *checker) checkEntities() {
	for _, e := range c.app.Domain.Entities {
		c.checkPrimaryKey(e)
		c.checkFieldSet(e.Name, e.Decl, e.Fields, true)
		c.checkConstraints(e)
	}
}

func (c *checker) checkPrimaryKey(e appspec.Entity) {
	var pks []string
	for _, f := range e.Fields {
		if f.IsPrimaryKey() {
			pks = append(pks, f.Name)
		}
	}
	switch len(pks) {
	case 0:
		c.errorf(e.Decl, "entity '%s' has no primary key field (mark exactly one field 'pk')", e.Name)
	case 1:
		// exactly one, as required
	default:
		c.errorf(e.Decl, "entity '%s' has %d primary key fields (%s); exactly one is allowed",
			e.Name, len(pks), strings.Join(pks, ", "))
	}
}

// checkFieldSet validates a field list shared by entities and foreign
// models. pkAllowed distinguishes the two: a pk modifier is meaningless on
// a mirrored field.
func (c *checker) checkFieldSet(owner string, rng hcl.Range, fields []appspec.Field, pkAllowed bool) {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Name] {
			c.errorf(rng, "'%s' declares field '%s' more than once", owner, f.Name)
		}
		seen[f.Name] = true

		if !pkAllowed && f.IsPrimaryKey() {
			c.errorf(rng, "field '%s' of '%s' carries 'pk', which has no meaning on a foreign model", f.Name, owner)
		}
		if f.Has(appspec.ModifierRequired) && f.Has(appspec.ModifierOptional) {
			c.errorf(rng, "field '%s' of '%s' is marked both required and optional", f.Name, owner)
		}

		c.checkFieldType(owner, rng, f)
		c.checkDefault(owner, rng, f)
	}
}

func (c *checker) checkFieldType(owner string, rng hcl.Range, f appspec.Field) {
	switch t := f.Type.(type) {
	case appspec.StrType:
		if t.MaxLength < 0 {
			c.errorf(rng, "field '%s' of '%s': str length must not be negative", f.Name, owner)
		}
	case appspec.DecimalType:
		if t.Precision < 1 {
			c.errorf(rng, "field '%s' of '%s': decimal precision must be at least 1", f.Name, owner)
		}
		if t.Scale < 0 || t.Scale > t.Precision {
			c.errorf(rng, "field '%s' of '%s': decimal scale must be between 0 and the precision (%d)",
				f.Name, owner, t.Precision)
		}
	case appspec.EnumType:
		seen := make(map[string]bool, len(t.Values))
		for _, v := range t.Values {
			if seen[v] {
				c.errorf(rng, "field '%s' of '%s': duplicate enum value '%s'", f.Name, owner, v)
			}
			seen[v] = true
		}
		if len(t.Values) == 0 {
			c.errorf(rng, "field '%s' of '%s': enum declares no values", f.Name, owner)
		}
	case appspec.RefType:
		if _, ok := c.app.Entity(t.Entity); !ok {
			// The linker guarantees this; re-checked defensively.
			c.errorf(rng, "field '%s' of '%s' references unknown entity '%s'", f.Name, owner, t.Entity)
		}
	}
}

// checkDefault verifies the declared default converts into the field's
// value type, and that enum defaults name a declared value.
func (c *checker) checkDefault(owner string, rng hcl.Range, f appspec.Field) {
	if f.Default == nil {
		return
	}
	if t, ok := f.Type.(appspec.EnumType); ok {
		name := defaultString(f)
		for _, v := range t.Values {
			if v == name {
				return
			}
		}
		c.errorf(rng, "field '%s' of '%s': default '%s' is not one of the enum values (%s)",
			f.Name, owner, name, strings.Join(t.Values, ", "))
		return
	}
	if _, err := convert.Convert(*f.Default, f.Type.CtyType()); err != nil {
		c.errorf(rng, "field '%s' of '%s': default value is not a valid %s", f.Name, owner, f.Type)
	}
}

func defaultString(f appspec.Field) string {
	if f.Default.Type() == cty.String {
		return f.Default.AsString()
	}
	return fmt.Sprintf("%v", *f.Default)
}

func (c *checker) checkConstraints(e appspec.Entity) {
	for _, con := range e.Constraints {
		for _, name := range con.Fields {
			if _, ok := e.Field(name); !ok {
				c.errorf(e.Decl, "entity '%s': %s constraint references unknown field '%s'",
					e.Name, con.Kind, name)
			}
		}
	}
}
