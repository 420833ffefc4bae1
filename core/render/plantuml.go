// Package render turns the entity model into diagram text.
package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tristendillon/ruml/core/models"
	"github.com/tristendillon/ruml/core/typesig"
)

const FormatPlantUML = "plantuml"

var ErrUnknownFormat = errors.New("unknown output format")

// Renderer renders a list of entities. Implementations must not mutate
// the entities they are given.
type Renderer interface {
	Render(entities []*models.Entity) string
}

// ForFormat returns the renderer registered for format. Format names are
// case-insensitive; the empty string selects PlantUML.
func ForFormat(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", FormatPlantUML:
		return PlantUML{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

type PlantUML struct{}

func (PlantUML) Render(entities []*models.Entity) string {
	return Render(entities)
}

// Render produces the PlantUML document for entities: every entity block
// separated by a blank line, then every entity's edge block, wrapped in the
// @startuml/@enduml markers.
func Render(entities []*models.Entity) string {
	bodies := make([]string, len(entities))
	for i, e := range entities {
		bodies[i] = Body(e) + "}"
	}

	names := Names(entities)
	edges := make([]string, len(entities))
	for i, e := range entities {
		edges[i] = EdgeBlock(e, names)
	}

	return fmt.Sprintf("@startuml\n\n%s\n%s\n@enduml",
		strings.Join(bodies, "\n\n"),
		strings.Join(edges, "\n\n"))
}

// Body renders the header and member lines of one entity, without the
// closing brace.
func Body(e *models.Entity) string {
	var sb strings.Builder
	switch e.Kind.Role {
	case models.RoleStruct:
		fmt.Fprintf(&sb, "class \"%s\" {\n", e.DisplayName)
	case models.RoleEnum:
		fmt.Fprintf(&sb, "enum \"%s\" {\n", e.DisplayName)
	}
	for _, m := range e.Members {
		switch m.Kind.Role {
		case models.RoleField:
			fmt.Fprintf(&sb, "    + %s: %s\n", m.Kind.Name, m.DisplayName)
		case models.RoleMethod:
			fmt.Fprintf(&sb, "    + %s(%s)\n", m.Kind.Name, Parameters(m))
		}
	}
	return sb.String()
}

// Parameters renders the "name: Type" list of a method.
func Parameters(method *models.Entity) string {
	params := make([]string, 0, len(method.Members))
	for _, p := range method.Members {
		if p.Kind.Role != models.RoleParameter {
			continue
		}
		params = append(params, p.Kind.Name+": "+p.DisplayName)
	}
	return strings.Join(params, ", ")
}

// Names is the set of top-level entity display names; it is the namespace
// dependency edges resolve against.
func Names(entities []*models.Entity) map[string]struct{} {
	names := make(map[string]struct{}, len(entities))
	for _, e := range entities {
		names[e.DisplayName] = struct{}{}
	}
	return names
}

// Edge is a dependency of Owner on the type expression Target.
type Edge struct {
	Owner  string
	Member string
	Target string
}

func (e Edge) String() string {
	return fmt.Sprintf("\"%s\" <-- \"%s\"", e.Owner, e.Target)
}

// Edges returns the dependency edges of one entity: one per field or method
// member whose type tokens intersect names.
func Edges(e *models.Entity, names map[string]struct{}) []Edge {
	var edges []Edge
	for _, m := range e.Members {
		if !m.Kind.IsMember() {
			continue
		}
		if typesig.Intersects(m.DisplayName, names) {
			edges = append(edges, Edge{Owner: e.DisplayName, Member: m.Kind.Name, Target: m.DisplayName})
		}
	}
	return edges
}

// AllEdges returns the edges of every entity in input order.
func AllEdges(entities []*models.Entity) []Edge {
	names := Names(entities)
	var edges []Edge
	for _, e := range entities {
		edges = append(edges, Edges(e, names)...)
	}
	return edges
}

// EdgeBlock renders the edges of one entity, one line each.
func EdgeBlock(e *models.Entity, names map[string]struct{}) string {
	var sb strings.Builder
	for _, edge := range Edges(e, names) {
		sb.WriteString(edge.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
