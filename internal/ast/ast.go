// Package ast holds the pre-link representation of parsed modules. Every
// cross-construct reference is still a raw name as written in the source;
// the linker is the only stage with enough visibility to resolve them.
package ast

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Module is one parsed source file together with its identity: the
// ModuleIR of the pipeline. Fragments are transient; the linker consumes
// them and they are not referenced after linking.
type Module struct {
	// Name is the dotted module path, e.g. "vat_tools.core".
	Name string
	// Filename identifies the source file for diagnostics.
	Filename string

	// AppName and AppTitle come from the `app` header. Only the declared
	// root module may carry one; the linker enforces this.
	AppName  string
	AppTitle string
	AppRange hcl.Range

	Fragment *ModuleFragment
}

// ModuleFragment is the syntax-validated content declared in one file.
type ModuleFragment struct {
	Uses          []Use
	Entities      []*Entity
	Surfaces      []*Surface
	Experiences   []*Experience
	Services      []*Service
	ForeignModels []*ForeignModel
	Integrations  []*Integration
}

// Use is one `use <module.path>` declaration.
type Use struct {
	Module string
	Range  hcl.Range
}

// Ref is a raw, unresolved reference to a named construct.
type Ref struct {
	Name  string
	Range hcl.Range
}

// IsZero reports whether the reference was never set.
func (r Ref) IsZero() bool { return r.Name == "" }

// Entity is a declared domain entity.
type Entity struct {
	Name        string
	Title       string
	Fields      []*Field
	Constraints []*Constraint
	Range       hcl.Range
}

// Field is one field declaration inside an entity or foreign model.
type Field struct {
	Name      string
	Type      FieldType
	Modifiers []Modifier
	// Default is the parsed default literal, if any.
	Default      *cty.Value
	DefaultRange hcl.Range
	Range        hcl.Range
}

// Modifier is one field modifier as written, with its location.
type Modifier struct {
	Name  string
	Range hcl.Range
}

// FieldType is the parsed type expression of a field. Kind-specific
// arguments are only meaningful for the kind that declares them; the
// post-link IR replaces this with a proper tagged union.
type FieldType struct {
	Kind       string
	MaxLength  int      // str
	Precision  int      // decimal
	Scale      int      // decimal
	EnumValues []string // enum
	RefEntity  Ref      // ref; raw until linked
	Range      hcl.Range
}

// Constraint is a `unique(...)` or `index(...)` declaration over fields.
type Constraint struct {
	Kind   string
	Fields []Ref
	Range  hcl.Range
}

// Surface is a UI surface bound to one entity.
type Surface struct {
	Name      string
	Title     string
	Entity    Ref
	Mode      string
	ModeRange hcl.Range
	Sections  []*SurfaceSection
	Actions   []*SurfaceAction
	Range     hcl.Range
}

// SurfaceSection is a named group of field elements.
type SurfaceSection struct {
	Name   string
	Title  string
	Fields []Ref
	Range  hcl.Range
}

// SurfaceAction is a user-triggerable action with an outcome target.
type SurfaceAction struct {
	Name    string
	Title   string
	Outcome Outcome
	Range   hcl.Range
}

// Outcome names what an action leads to: another surface, an experience,
// or an integration action.
type Outcome struct {
	Kind   string
	Target Ref
}

// Experience is a multi-step flow.
type Experience struct {
	Name  string
	Title string
	Start Ref
	Steps []*Step
	Range hcl.Range
}

// Step is one step of an experience.
type Step struct {
	Name        string
	Kind        string
	Target      Ref
	Transitions []Transition
	Range       hcl.Range
}

// Transition routes a step result to the next step.
type Transition struct {
	On    string
	To    Ref
	Range hcl.Range
}

// Service declares an external service and how to authenticate to it.
type Service struct {
	Name    string
	Title   string
	URL     string
	Auth    Auth
	Team    string
	Contact string
	Range   hcl.Range
}

// Auth is a service's authentication profile.
type Auth struct {
	Kind    string
	Options map[string]string
	Range   hcl.Range
}

// ForeignModel mirrors an entity owned by an external service.
type ForeignModel struct {
	Name        string
	Title       string
	Service     Ref
	KeyFields   []Ref
	Constraints []Modifier
	Fields      []*Field
	Range       hcl.Range
}

// Integration wires services and foreign models into the application.
type Integration struct {
	Name     string
	Title    string
	Services []Ref
	Models   []Ref
	Actions  []*IntegrationAction
	Syncs    []*IntegrationSync
	Range    hcl.Range
}

// IntegrationAction calls a service operation when a surface triggers it.
type IntegrationAction struct {
	Name          string
	WhenSurface   Ref
	CallService   Ref
	CallOperation string
	Mappings      []*Mapping
	Range         hcl.Range
}

// Mapping assigns an expression to a target field of the call payload.
type Mapping struct {
	Target string
	Expr   Expression
	Range  hcl.Range
}

// Expression is either a literal value or a dotted path; exactly one of
// the two is set.
type Expression struct {
	Literal *cty.Value
	Path    []string
	Range   hcl.Range
}

// IntegrationSync reconciles a foreign model into a local entity.
type IntegrationSync struct {
	Name     string
	Mode     string
	Schedule string
	From     Ref
	Into     Ref
	Matches  []Match
	Range    hcl.Range
}

// Match pairs a foreign-model field with the entity field it reconciles on.
type Match struct {
	From  Ref
	Into  Ref
	Range hcl.Range
}
