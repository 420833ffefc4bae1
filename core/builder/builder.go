// Package builder turns the declarations of one compilation unit into the
// entity model.
//
// Building runs in two passes. The first pass creates one entity per
// struct; the second attaches the associated functions of inherent impl
// blocks to the struct entity with the same name. Shapes the model does not
// cover are reported as Skip outcomes and never abort the build.
package builder

import (
	"fmt"

	"github.com/tristendillon/ruml/core/models"
	"github.com/tristendillon/ruml/core/typesig"
)

type SkipReason int

const (
	SkipTupleStruct SkipReason = iota
	SkipDuplicateStruct
	SkipEnum
	SkipTraitImpl
	SkipComplexTarget
	SkipUnknownTarget
	SkipReceiver
	SkipPatternBinding
)

func (r SkipReason) String() string {
	switch r {
	case SkipTupleStruct:
		return "tuple struct"
	case SkipDuplicateStruct:
		return "duplicate struct"
	case SkipEnum:
		return "enum"
	case SkipTraitImpl:
		return "trait impl"
	case SkipComplexTarget:
		return "qualified or generic impl target"
	case SkipUnknownTarget:
		return "impl target not declared in unit"
	case SkipReceiver:
		return "receiver parameter"
	case SkipPatternBinding:
		return "non-identifier parameter binding"
	default:
		return "unknown"
	}
}

// Skip records a declaration or parameter left out of the model.
type Skip struct {
	Reason  SkipReason
	Subject string
}

func (s Skip) String() string {
	return fmt.Sprintf("%s (%s)", s.Subject, s.Reason)
}

// Outcome is the tagged result of a construction rule: either an entity or
// a skip, never both.
type Outcome struct {
	Entity *models.Entity
	Skip   *Skip
}

func built(e *models.Entity) Outcome { return Outcome{Entity: e} }

func skipped(reason SkipReason, subject string) Outcome {
	return Outcome{Skip: &Skip{Reason: reason, Subject: subject}}
}

// Result holds the entities of one unit in declaration order and every skip
// encountered while building them.
type Result struct {
	Entities []*models.Entity
	Skips    []Skip
}

type Option func(*Builder)

// WithEnums makes the builder emit a memberless entity per enum instead of
// skipping it.
func WithEnums(include bool) Option {
	return func(b *Builder) {
		b.includeEnums = include
	}
}

type Builder struct {
	includeEnums bool
}

func New(opts ...Option) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build is shorthand for New().Build(unit).Entities.
func Build(unit *models.CompilationUnit) []*models.Entity {
	return New().Build(unit).Entities
}

func (b *Builder) Build(unit *models.CompilationUnit) *Result {
	result := &Result{}
	if unit == nil {
		return result
	}

	byName := make(map[string]*models.Entity)
	var order []string

	// Pass 1: struct shapes.
	for _, decl := range unit.Decls {
		var out Outcome
		var name string
		switch decl.Kind {
		case models.DeclStruct:
			name = decl.Struct.Name
			out = StructEntity(decl.Struct)
		case models.DeclEnum:
			name = decl.Enum.Name
			out = b.enumEntity(decl.Enum)
		default:
			continue
		}

		if out.Skip != nil {
			result.Skips = append(result.Skips, *out.Skip)
			continue
		}
		if _, exists := byName[name]; exists {
			result.Skips = append(result.Skips, Skip{Reason: SkipDuplicateStruct, Subject: name})
			continue
		}
		byName[name] = out.Entity
		order = append(order, name)
	}

	// Pass 2: method attachment.
	for _, decl := range unit.Decls {
		if decl.Kind != models.DeclImpl {
			continue
		}
		impl := decl.Impl
		target, skip := implTarget(impl)
		if skip != nil {
			result.Skips = append(result.Skips, *skip)
			continue
		}
		owner, ok := byName[target]
		if !ok || owner.Kind.Role != models.RoleStruct {
			result.Skips = append(result.Skips, Skip{Reason: SkipUnknownTarget, Subject: target})
			continue
		}
		for i := range impl.Methods {
			method, paramSkips := MethodEntity(&impl.Methods[i])
			result.Skips = append(result.Skips, paramSkips...)
			owner.Members = append(owner.Members, method)
		}
	}

	result.Entities = make([]*models.Entity, 0, len(order))
	for _, name := range order {
		result.Entities = append(result.Entities, byName[name])
		delete(byName, name)
	}
	return result
}

func implTarget(impl *models.ImplDecl) (string, *Skip) {
	subject := "impl"
	if n := len(impl.Target.Segments); n > 0 {
		subject = impl.Target.Segments[n-1]
	}
	if impl.IsTraitImpl {
		return "", &Skip{Reason: SkipTraitImpl, Subject: subject}
	}
	if !impl.Target.Simple() {
		return "", &Skip{Reason: SkipComplexTarget, Subject: subject}
	}
	return impl.Target.Segments[0], nil
}

func (b *Builder) enumEntity(decl *models.EnumDecl) Outcome {
	if !b.includeEnums {
		return skipped(SkipEnum, decl.Name)
	}
	return built(models.NewEntity(models.EnumKind(), decl.Name, decl.Visibility))
}

// StructEntity builds the entity for a struct with named fields. Unit
// structs produce a memberless entity; tuple structs are skipped.
func StructEntity(decl *models.StructDecl) Outcome {
	if decl.Shape == models.ShapeTuple {
		return skipped(SkipTupleStruct, decl.Name)
	}
	entity := models.NewEntity(models.StructKind(), decl.Name, decl.Visibility)
	for _, f := range decl.Fields {
		entity.Members = append(entity.Members, FieldEntity(f.Name, f.TypeExpr, f.Visibility))
	}
	return built(entity)
}

// FieldEntity builds a field member. When the canonical type string has
// dependencies the field owns one synthetic struct child listing them.
func FieldEntity(name, typeExpr string, visibility models.Visibility) *models.Entity {
	typeStr := typesig.Canonical(typeExpr)
	field := models.NewEntity(models.FieldKind(name), typeStr, visibility)
	if typesig.HasDependencies(typeStr) {
		field.Members = []*models.Entity{DependencyEntity(typeStr)}
	}
	return field
}

// DependencyEntity lists the decomposed tokens of typeStr as childless fields.
func DependencyEntity(typeStr string) *models.Entity {
	dep := models.NewEntity(models.StructKind(), typeStr, models.Private)
	for _, token := range typesig.Decompose(typeStr) {
		dep.Members = append(dep.Members, models.NewEntity(models.FieldKind(""), token, models.Private))
	}
	return dep
}

// MethodEntity builds a method member with one parameter per typed,
// identifier-bound argument. Receivers and pattern bindings are reported
// as skips.
func MethodEntity(decl *models.MethodDecl) (*models.Entity, []Skip) {
	method := models.NewEntity(models.MethodKind(decl.Name), decl.Name, decl.Visibility)
	var skips []Skip
	for _, p := range decl.Params {
		out := ParameterEntity(decl.Name, p)
		if out.Skip != nil {
			skips = append(skips, *out.Skip)
			continue
		}
		method.Members = append(method.Members, out.Entity)
	}
	return method, skips
}

func ParameterEntity(method string, p models.ParamDecl) Outcome {
	if p.Receiver {
		return skipped(SkipReceiver, method)
	}
	if !p.Binding.Simple {
		return skipped(SkipPatternBinding, method)
	}
	return built(models.NewEntity(
		models.ParameterKind(p.Binding.Ident),
		typesig.Canonical(p.TypeExpr),
		models.Private,
	))
}
