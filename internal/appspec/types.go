package appspec

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Modifier is one field modifier keyword.
type Modifier string

const (
	ModifierRequired   Modifier = "required"
	ModifierOptional   Modifier = "optional"
	ModifierPK         Modifier = "pk"
	ModifierUnique     Modifier = "unique"
	ModifierAutoAdd    Modifier = "auto_add"
	ModifierAutoUpdate Modifier = "auto_update"
)

// Field is one field of an entity or foreign model. The convenience
// predicates are derived from the modifier set on every call; nothing is
// stored twice.
type Field struct {
	Name      string
	Type      FieldType
	Modifiers []Modifier
	// Default is the declared default value, already parsed into the cty
	// value system, or nil.
	Default *cty.Value
}

// Has reports whether the field carries the given modifier.
func (f Field) Has(m Modifier) bool {
	for _, fm := range f.Modifiers {
		if fm == m {
			return true
		}
	}
	return false
}

// IsRequired reports whether the field must be populated.
func (f Field) IsRequired() bool { return f.Has(ModifierRequired) }

// IsPrimaryKey reports whether the field is its entity's primary key.
func (f Field) IsPrimaryKey() bool { return f.Has(ModifierPK) }

// IsUnique reports whether values of the field must be unique.
func (f Field) IsUnique() bool { return f.Has(ModifierUnique) || f.Has(ModifierPK) }

// ConstraintKind distinguishes unique constraints from plain indexes.
type ConstraintKind string

const (
	ConstraintUnique ConstraintKind = "unique"
	ConstraintIndex  ConstraintKind = "index"
)

// Constraint is a multi-field unique or index declaration.
type Constraint struct {
	Kind   ConstraintKind
	Fields []string
}

// Entity is one domain entity. Exactly one field carries the pk modifier;
// the validator enforces this invariant.
type Entity struct {
	Name        string
	Title       string
	Fields      []Field
	Constraints []Constraint
	// Module names the module that declared the entity.
	Module string
	// Decl points at the declaration site for diagnostics.
	Decl hcl.Range
}

// Field looks a field up by name.
func (e Entity) Field(name string) (Field, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// PrimaryKey returns the pk-modified field, if exactly one exists.
func (e Entity) PrimaryKey() (Field, bool) {
	var pk Field
	found := false
	for _, f := range e.Fields {
		if f.IsPrimaryKey() {
			if found {
				return Field{}, false
			}
			pk = f
			found = true
		}
	}
	return pk, found
}

// Domain is the full entity set of the application, ordered
// deterministically by the linker.
type Domain struct {
	Entities []Entity
}

// Entity looks an entity up by name.
func (d Domain) Entity(name string) (Entity, bool) {
	for _, e := range d.Entities {
		if e.Name == name {
			return e, true
		}
	}
	return Entity{}, false
}

// SurfaceMode is how a surface presents its entity.
type SurfaceMode string

const (
	ModeList   SurfaceMode = "list"
	ModeView   SurfaceMode = "view"
	ModeCreate SurfaceMode = "create"
	ModeEdit   SurfaceMode = "edit"
	ModeCustom SurfaceMode = "custom"
)

// Surface is one UI surface bound to an entity.
type Surface struct {
	Name     string
	Title    string
	Entity   string // resolved entity name
	Mode     SurfaceMode
	Sections []Section
	Actions  []Action
	Module   string
	Decl     hcl.Range
}

// Section is a named group of field elements on a surface.
type Section struct {
	Name   string
	Title  string
	Fields []string
}

// OutcomeKind names what an action leads to.
type OutcomeKind string

const (
	OutcomeSurface     OutcomeKind = "surface"
	OutcomeExperience  OutcomeKind = "experience"
	OutcomeIntegration OutcomeKind = "integration"
)

// Action is a user-triggerable surface action.
type Action struct {
	Name    string
	Title   string
	Outcome Outcome
}

// Outcome is the resolved target of an action.
type Outcome struct {
	Kind   OutcomeKind
	Target string
}

// StepKind classifies an experience step.
type StepKind string

const (
	StepSurface     StepKind = "surface"
	StepProcess     StepKind = "process"
	StepIntegration StepKind = "integration"
)

// TransitionTrigger names a step result.
type TransitionTrigger string

const (
	TriggerSuccess TransitionTrigger = "success"
	TriggerFailure TransitionTrigger = "failure"
)

// Experience is a multi-step flow.
type Experience struct {
	Name   string
	Title  string
	Start  string
	Steps  []Step
	Module string
	Decl   hcl.Range
}

// Step looks a step up by name.
func (e Experience) Step(name string) (Step, bool) {
	for _, s := range e.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return Step{}, false
}

// Step is one step of an experience.
type Step struct {
	Name        string
	Kind        StepKind
	Target      string
	Transitions []Transition
}

// Transition routes a step result to the next step.
type Transition struct {
	On TransitionTrigger
	To string
}

// AuthKind names a service authentication scheme.
type AuthKind string

const (
	AuthOAuth2Legacy AuthKind = "oauth2_legacy"
	AuthOAuth2PKCE   AuthKind = "oauth2_pkce"
	AuthJWTStatic    AuthKind = "jwt_static"
	AuthAPIKeyHeader AuthKind = "api_key_header"
	AuthAPIKeyQuery  AuthKind = "api_key_query"
	AuthNone         AuthKind = "none"
)

// AuthProfile is how the application authenticates to a service.
type AuthProfile struct {
	Kind    AuthKind
	Options map[string]string
}

// Service is an external service declaration.
type Service struct {
	Name    string
	Title   string
	URL     string
	Auth    AuthProfile
	Team    string
	Contact string
	Module  string
	Decl    hcl.Range
}

// ForeignConstraint describes how a foreign model may be used locally.
type ForeignConstraint string

const (
	ForeignReadOnly    ForeignConstraint = "read_only"
	ForeignEventDriven ForeignConstraint = "event_driven"
	ForeignBatchImport ForeignConstraint = "batch_import"
)

// ForeignModel mirrors an entity owned by an external service.
type ForeignModel struct {
	Name        string
	Title       string
	Service     string // resolved service name
	KeyFields   []string
	Constraints []ForeignConstraint
	Fields      []Field
	Module      string
	Decl        hcl.Range
}

// Field looks a foreign-model field up by name.
func (m ForeignModel) Field(name string) (Field, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Expression is either a literal value or a dotted path into the schema in
// scope. Exactly one of the two is set.
type Expression struct {
	Literal *cty.Value
	Path    []string
}

// IsLiteral reports whether the expression is a literal.
func (e Expression) IsLiteral() bool { return e.Literal != nil }

// Mapping assigns an expression to one field of a call payload.
type Mapping struct {
	Target string
	Expr   Expression
}

// IntegrationAction calls a service operation when a surface triggers it.
type IntegrationAction struct {
	Name        string
	WhenSurface string // resolved surface name, may be empty
	Service     string // resolved service name
	Operation   string
	Mappings    []Mapping
}

// SyncMode is how an integration sync is driven.
type SyncMode string

const (
	SyncScheduled   SyncMode = "scheduled"
	SyncEventDriven SyncMode = "event_driven"
)

// MatchRule pairs a foreign-model field with the entity field used for
// reconciliation.
type MatchRule struct {
	From string
	Into string
}

// Sync reconciles a foreign model into a local entity.
type Sync struct {
	Name     string
	Mode     SyncMode
	Schedule string
	From     string // resolved foreign model name
	Into     string // resolved entity name
	Matches  []MatchRule
}

// Integration wires services and foreign models into the application.
type Integration struct {
	Name     string
	Title    string
	Services []string
	Models   []string
	Actions  []IntegrationAction
	Syncs    []Sync
	Module   string
	Decl     hcl.Range
}
