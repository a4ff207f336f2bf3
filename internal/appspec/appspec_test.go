package appspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestField_DerivedPredicates(t *testing.T) {
	pk := Field{Name: "id", Type: UUIDType{}, Modifiers: []Modifier{ModifierPK}}
	assert.True(t, pk.IsPrimaryKey())
	assert.True(t, pk.IsUnique(), "pk implies unique")
	assert.False(t, pk.IsRequired())

	unique := Field{Name: "vat", Type: StrType{MaxLength: 14}, Modifiers: []Modifier{ModifierUnique, ModifierRequired}}
	assert.True(t, unique.IsUnique())
	assert.True(t, unique.IsRequired())
	assert.False(t, unique.IsPrimaryKey())

	plain := Field{Name: "note", Type: TextType{}}
	assert.False(t, plain.IsUnique())
	assert.False(t, plain.IsRequired())
}

func TestEntity_PrimaryKey(t *testing.T) {
	e := Entity{
		Name: "Client",
		Fields: []Field{
			{Name: "id", Type: UUIDType{}, Modifiers: []Modifier{ModifierPK}},
			{Name: "name", Type: StrType{}},
		},
	}

	pk, ok := e.PrimaryKey()
	require.True(t, ok)
	assert.Equal(t, "id", pk.Name)

	e.Fields = append(e.Fields, Field{Name: "alt", Modifiers: []Modifier{ModifierPK}})
	_, ok = e.PrimaryKey()
	assert.False(t, ok, "two pks resolve to none")

	_, ok = Entity{Name: "Empty"}.PrimaryKey()
	assert.False(t, ok)
}

func TestFieldType_Cty(t *testing.T) {
	assert.Equal(t, cty.String, StrType{MaxLength: 10}.CtyType())
	assert.Equal(t, cty.String, EnumType{Values: []string{"a"}}.CtyType())
	assert.Equal(t, cty.Number, IntType{}.CtyType())
	assert.Equal(t, cty.Number, DecimalType{Precision: 10, Scale: 2}.CtyType())
	assert.Equal(t, cty.Bool, BoolType{}.CtyType())
	assert.Equal(t, cty.String, RefType{Entity: "Client"}.CtyType())
}

func TestFieldType_String(t *testing.T) {
	assert.Equal(t, "str(120)", StrType{MaxLength: 120}.String())
	assert.Equal(t, "str", StrType{}.String())
	assert.Equal(t, "decimal(10,2)", DecimalType{Precision: 10, Scale: 2}.String())
	assert.Equal(t, "enum(active, archived)", EnumType{Values: []string{"active", "archived"}}.String())
	assert.Equal(t, "ref Client", RefType{Entity: "Client"}.String())
}

func TestApp_Lookups(t *testing.T) {
	app := &App{
		Domain: Domain{Entities: []Entity{{Name: "Client"}}},
		Surfaces: []Surface{
			{Name: "client_list", Entity: "Client"},
		},
		Integrations: []Integration{
			{
				Name: "vat_check",
				Actions: []IntegrationAction{
					{Name: "verify", Service: "vies", Operation: "check_vat"},
				},
			},
		},
	}

	_, ok := app.Entity("Client")
	assert.True(t, ok)
	_, ok = app.Entity("Ghost")
	assert.False(t, ok)

	s, ok := app.Surface("client_list")
	require.True(t, ok)
	assert.Equal(t, "Client", s.Entity)

	// Integration actions are addressable across all integrations.
	act, ok := app.IntegrationAction("verify")
	require.True(t, ok)
	assert.Equal(t, "check_vat", act.Operation)
	_, ok = app.IntegrationAction("nope")
	assert.False(t, ok)
}

func TestExpression_IsLiteral(t *testing.T) {
	v := cty.StringVal("x")
	assert.True(t, Expression{Literal: &v}.IsLiteral())
	assert.False(t, Expression{Path: []string{"client", "vat"}}.IsLiteral())
}
