package models

// Role identifies what an Entity represents inside the model.
type Role int

const (
	RoleStruct Role = iota
	RoleEnum
	RoleField
	RoleMethod
	RoleParameter
)

func (r Role) String() string {
	switch r {
	case RoleStruct:
		return "struct"
	case RoleEnum:
		return "enum"
	case RoleField:
		return "field"
	case RoleMethod:
		return "method"
	case RoleParameter:
		return "parameter"
	default:
		return "unknown"
	}
}

// Kind is the tagged role of an Entity. Name is only set for fields,
// methods and parameters and holds the member identifier, which is
// distinct from the entity's DisplayName.
type Kind struct {
	Role Role   `json:"role"`
	Name string `json:"name,omitempty"`
}

func StructKind() Kind               { return Kind{Role: RoleStruct} }
func EnumKind() Kind                 { return Kind{Role: RoleEnum} }
func FieldKind(name string) Kind     { return Kind{Role: RoleField, Name: name} }
func MethodKind(name string) Kind    { return Kind{Role: RoleMethod, Name: name} }
func ParameterKind(name string) Kind { return Kind{Role: RoleParameter, Name: name} }

func (k Kind) IsMember() bool {
	return k.Role == RoleField || k.Role == RoleMethod
}

type Visibility int

const (
	Private Visibility = iota
	Public
)

func (v Visibility) String() string {
	if v == Public {
		return "public"
	}
	return "private"
}

// Entity is the single recursive node of the model.
//
// For structs and enums DisplayName is the declared type name. For fields
// and parameters it is the canonical type expression, and for methods it
// is the method name. A field whose type has dependencies owns exactly one
// synthetic struct child listing the decomposed type tokens.
type Entity struct {
	Kind        Kind       `json:"kind"`
	DisplayName string     `json:"display_name"`
	Members     []*Entity  `json:"members,omitempty"`
	Visibility  Visibility `json:"visibility"`
}

func NewEntity(kind Kind, displayName string, visibility Visibility, members ...*Entity) *Entity {
	return &Entity{
		Kind:        kind,
		DisplayName: displayName,
		Members:     members,
		Visibility:  visibility,
	}
}

// Dependencies returns the synthetic dependency child of a field or
// parameter, or nil when the type expression has none.
func (e *Entity) Dependencies() *Entity {
	for _, m := range e.Members {
		if m.Kind.Role == RoleStruct {
			return m
		}
	}
	return nil
}

// Clone returns a deep copy of the entity tree.
func (e *Entity) Clone() *Entity {
	if e == nil {
		return nil
	}
	c := &Entity{
		Kind:        e.Kind,
		DisplayName: e.DisplayName,
		Visibility:  e.Visibility,
	}
	if len(e.Members) > 0 {
		c.Members = make([]*Entity, len(e.Members))
		for i, m := range e.Members {
			c.Members[i] = m.Clone()
		}
	}
	return c
}

// CloneEntities deep-copies a list of entities.
func CloneEntities(entities []*Entity) []*Entity {
	out := make([]*Entity, len(entities))
	for i, e := range entities {
		out[i] = e.Clone()
	}
	return out
}
