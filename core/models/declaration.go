package models

// DeclKind tags a top-level declaration of a compilation unit.
type DeclKind int

const (
	DeclOther DeclKind = iota
	DeclStruct
	DeclImpl
	DeclEnum
)

func (k DeclKind) String() string {
	switch k {
	case DeclStruct:
		return "struct"
	case DeclImpl:
		return "impl"
	case DeclEnum:
		return "enum"
	default:
		return "other"
	}
}

// CompilationUnit is one source file's worth of parsed top-level declarations.
type CompilationUnit struct {
	Path  string
	Decls []Declaration
}

// Declaration is a tagged union; exactly one of Struct, Impl or Enum is set
// according to Kind, none for DeclOther.
type Declaration struct {
	Kind   DeclKind
	Struct *StructDecl
	Impl   *ImplDecl
	Enum   *EnumDecl
}

// FieldShape describes how a struct lists its fields.
type FieldShape int

const (
	ShapeNamed FieldShape = iota // struct S { a: T }
	ShapeTuple                   // struct S(T);
	ShapeUnit                    // struct S;
)

type StructDecl struct {
	Name       string
	Visibility Visibility
	Shape      FieldShape
	Fields     []FieldDecl
}

type FieldDecl struct {
	Name       string
	Visibility Visibility
	TypeExpr   string
}

// TypePath is the self type of an impl block. Segments is empty when the
// type is not a path at all (references, tuples, slices).
type TypePath struct {
	Segments []string
	Generic  bool
}

// Simple reports whether the path is a single segment without generic arguments.
func (p TypePath) Simple() bool {
	return len(p.Segments) == 1 && !p.Generic
}

type ImplDecl struct {
	Target      TypePath
	IsTraitImpl bool
	Methods     []MethodDecl
}

type MethodDecl struct {
	Name       string
	Visibility Visibility
	Params     []ParamDecl
}

// Binding is the pattern a parameter is bound to. Ident is only meaningful
// when Simple is true.
type Binding struct {
	Ident  string
	Simple bool
}

func IdentBinding(name string) Binding { return Binding{Ident: name, Simple: true} }

type ParamDecl struct {
	Binding  Binding
	TypeExpr string
	Receiver bool
}

type EnumDecl struct {
	Name       string
	Visibility Visibility
}

func NewStruct(decl StructDecl) Declaration {
	return Declaration{Kind: DeclStruct, Struct: &decl}
}

func NewImpl(decl ImplDecl) Declaration {
	return Declaration{Kind: DeclImpl, Impl: &decl}
}

func NewEnum(decl EnumDecl) Declaration {
	return Declaration{Kind: DeclEnum, Enum: &decl}
}
