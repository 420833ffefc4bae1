// Package export loads the entity model into a Neo4j graph.
package export

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/tristendillon/ruml/core/config"
	"github.com/tristendillon/ruml/core/logger"
	"github.com/tristendillon/ruml/core/models"
	"github.com/tristendillon/ruml/core/render"
	"github.com/tristendillon/ruml/core/typesig"
)

// Neo4jLoader upserts types, members and dependency edges using batched
// UNWIND queries.
type Neo4jLoader struct {
	driver neo4j.DriverWithContext
}

func NewNeo4jLoader(cfg config.Neo4j) (*Neo4jLoader, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	return &Neo4jLoader{driver: driver}, nil
}

func (l *Neo4jLoader) Close(ctx context.Context) error {
	return l.driver.Close(ctx)
}

func (l *Neo4jLoader) runCypher(ctx context.Context, cypher string, params map[string]any) error {
	_, err := neo4j.ExecuteQuery(ctx, l.driver, cypher, params, neo4j.EagerResultTransformer)
	return err
}

// Export verifies connectivity and loads entities, optionally wiping the
// previous export first.
func (l *Neo4jLoader) Export(ctx context.Context, entities []*models.Entity, clean bool) error {
	if err := l.driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("failed to connect to neo4j: %w", err)
	}

	if clean {
		if err := l.CleanGraph(ctx); err != nil {
			return fmt.Errorf("failed to clean graph: %w", err)
		}
	}
	if err := l.CreateIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	if err := l.LoadTypes(ctx, entities); err != nil {
		return fmt.Errorf("failed to load types: %w", err)
	}
	if err := l.LoadMembers(ctx, entities); err != nil {
		return fmt.Errorf("failed to load members: %w", err)
	}
	if err := l.LoadEdges(ctx, entities); err != nil {
		return fmt.Errorf("failed to load dependency edges: %w", err)
	}
	return nil
}

func (l *Neo4jLoader) CleanGraph(ctx context.Context) error {
	logger.Info("Cleaning existing graph data...")
	queries := []string{
		"MATCH ()-[r:DEPENDS_ON]->() DELETE r",
		"MATCH ()-[r:HAS_MEMBER]->() DELETE r",
		"MATCH (n:RumlMember) DETACH DELETE n",
		"MATCH (n:RumlType) DETACH DELETE n",
	}
	for _, q := range queries {
		if err := l.runCypher(ctx, q, nil); err != nil {
			return err
		}
	}
	return nil
}

func (l *Neo4jLoader) CreateIndexes(ctx context.Context) error {
	indexes := []string{
		"CREATE INDEX ruml_type_name IF NOT EXISTS FOR (n:RumlType) ON (n.name)",
		"CREATE INDEX ruml_member_key IF NOT EXISTS FOR (n:RumlMember) ON (n.key)",
	}
	for _, q := range indexes {
		if err := l.runCypher(ctx, q, nil); err != nil {
			return err
		}
	}
	return nil
}

func (l *Neo4jLoader) LoadTypes(ctx context.Context, entities []*models.Entity) error {
	batch := TypeRows(entities)
	logger.Info("Loading %d types...", len(batch))
	return l.runCypher(ctx,
		`UNWIND $batch AS row
		 MERGE (n:RumlType {name: row.name})
		 SET n.kind = row.kind, n.visibility = row.visibility`,
		map[string]any{"batch": batch},
	)
}

// LoadMembers upserts RumlMember nodes and links them to their owners.
func (l *Neo4jLoader) LoadMembers(ctx context.Context, entities []*models.Entity) error {
	batch := MemberRows(entities)
	logger.Info("Loading %d members...", len(batch))
	return l.runCypher(ctx,
		`UNWIND $batch AS row
		 MERGE (m:RumlMember {key: row.key})
		 SET m.owner = row.owner, m.name = row.name, m.role = row.role,
		     m.type = row.type, m.visibility = row.visibility
		 WITH m, row
		 MATCH (t:RumlType {name: row.owner})
		 MERGE (t)-[:HAS_MEMBER]->(m)`,
		map[string]any{"batch": batch},
	)
}

func (l *Neo4jLoader) LoadEdges(ctx context.Context, entities []*models.Entity) error {
	batch := EdgeRows(entities)
	logger.Info("Loading %d dependency edges...", len(batch))
	if len(batch) == 0 {
		return nil
	}
	return l.runCypher(ctx,
		`UNWIND $batch AS row
		 MATCH (a:RumlType {name: row.owner}), (b:RumlType {name: row.target})
		 MERGE (a)-[r:DEPENDS_ON {via: row.via}]->(b)`,
		map[string]any{"batch": batch},
	)
}

func TypeRows(entities []*models.Entity) []map[string]any {
	rows := make([]map[string]any, 0, len(entities))
	for _, e := range entities {
		rows = append(rows, map[string]any{
			"name":       e.DisplayName,
			"kind":       e.Kind.Role.String(),
			"visibility": e.Visibility.String(),
		})
	}
	return rows
}

// MemberRows lists fields and methods. Methods carry their rendered
// parameter list as type.
func MemberRows(entities []*models.Entity) []map[string]any {
	var rows []map[string]any
	for _, e := range entities {
		for _, m := range e.Members {
			if !m.Kind.IsMember() {
				continue
			}
			typ := m.DisplayName
			if m.Kind.Role == models.RoleMethod {
				typ = "(" + render.Parameters(m) + ")"
			}
			rows = append(rows, map[string]any{
				"key":        MemberKey(e.DisplayName, m),
				"owner":      e.DisplayName,
				"name":       m.Kind.Name,
				"role":       m.Kind.Role.String(),
				"type":       typ,
				"visibility": m.Visibility.String(),
			})
		}
	}
	return rows
}

// EdgeRows resolves every dependency edge to the declared types it names,
// once per target.
func EdgeRows(entities []*models.Entity) []map[string]any {
	names := render.Names(entities)
	var rows []map[string]any
	for _, edge := range render.AllEdges(entities) {
		seen := make(map[string]bool)
		for _, token := range typesig.Decompose(edge.Target) {
			if _, declared := names[token]; !declared || seen[token] {
				continue
			}
			seen[token] = true
			rows = append(rows, map[string]any{
				"owner":  edge.Owner,
				"target": token,
				"via":    edge.Member,
			})
		}
	}
	return rows
}

func MemberKey(owner string, m *models.Entity) string {
	return owner + "::" + m.Kind.Role.String() + "::" + m.Kind.Name
}
