package generator

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/davecgh/go-spew/spew"
	"golang.org/x/sync/errgroup"

	"github.com/tristendillon/ruml/core/ast"
	"github.com/tristendillon/ruml/core/builder"
	cacheModels "github.com/tristendillon/ruml/core/cache/models"
	"github.com/tristendillon/ruml/core/config"
	"github.com/tristendillon/ruml/core/logger"
	"github.com/tristendillon/ruml/core/models"
	"github.com/tristendillon/ruml/core/render"
	"github.com/tristendillon/ruml/core/walker"
)

type DiagramGenerator struct {
	cfg    *config.Config
	Walker *walker.SourceWalkerImpl
	Parser *ast.Parser
	Cache  cacheModels.CacheManagerInterface
	// Out receives the diagram when no output file is configured.
	Out io.Writer
}

// NewDiagramGenerator creates a generator for cfg. cache may be nil.
func NewDiagramGenerator(cfg *config.Config, cache cacheModels.CacheManagerInterface) *DiagramGenerator {
	if cfg == nil {
		cfg = config.Default()
	}
	return &DiagramGenerator{
		cfg:    cfg,
		Walker: walker.NewSourceWalker(cfg.Extensions, cfg.Exclude),
		Parser: ast.NewParser(),
		Cache:  cache,
		Out:    os.Stdout,
	}
}

func (dg *DiagramGenerator) Config() *config.Config {
	return dg.cfg
}

// Run generates the diagram for input and writes it out.
func (dg *DiagramGenerator) Run(ctx context.Context, input string) error {
	diagram, err := dg.Generate(ctx, input)
	if err != nil {
		return err
	}
	return dg.Write(diagram)
}

// Generate renders the diagram for every source file under input.
func (dg *DiagramGenerator) Generate(ctx context.Context, input string) (string, error) {
	renderer, err := render.ForFormat(dg.cfg.Format)
	if err != nil {
		return "", err
	}

	entities, err := dg.Collect(ctx, input)
	if err != nil {
		return "", err
	}

	if logger.IsVerbose() {
		logger.Debug("Entity model:\n%s", spew.Sdump(entities))
	}

	return renderer.Render(entities), nil
}

// Collect walks input, builds every file independently and concatenates the
// results in walk order.
func (dg *DiagramGenerator) Collect(ctx context.Context, input string) ([]*models.Entity, error) {
	files, err := dg.Walker.Walk(input)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	perFile := make([][]*models.Entity, len(files))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(dg.workers())
	for i, path := range files {
		i, path := i, path
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			entities, err := dg.entitiesFor(ctx, path)
			if err != nil {
				return err
			}
			perFile[i] = entities
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var all []*models.Entity
	for _, entities := range perFile {
		all = append(all, entities...)
	}
	if !dg.cfg.IncludeEnums {
		all = withoutEnums(all)
	}

	logger.Debug("Collected %d entities from %d files", len(all), len(files))
	return all, nil
}

// Write sends the diagram, followed by a newline, to the configured output
// file or to Out.
func (dg *DiagramGenerator) Write(diagram string) error {
	if dg.cfg.Output == "" {
		_, err := fmt.Fprintln(dg.Out, diagram)
		return err
	}

	if dir := filepath.Dir(dg.cfg.Output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(dg.cfg.Output, []byte(diagram+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write diagram to %s: %w", dg.cfg.Output, err)
	}

	logger.Info("Wrote diagram to %s", dg.cfg.Output)
	return nil
}

// entitiesFor builds one file. Enums are always built so cached entries do
// not depend on include_enums; Collect filters them afterwards.
func (dg *DiagramGenerator) entitiesFor(ctx context.Context, path string) ([]*models.Entity, error) {
	if dg.Cache != nil {
		entities, hit, err := dg.Cache.Lookup(path)
		if err != nil {
			logger.Warn("Cache lookup failed for %s: %v", path, err)
		} else if hit {
			logger.Debug("Cache hit for %s", path)
			return entities, nil
		}
	}

	unit, err := dg.Parser.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}

	result := builder.New(builder.WithEnums(true)).Build(unit)
	for _, skip := range result.Skips {
		logger.Debug("%s: skipped %s", path, skip)
	}

	if dg.Cache != nil {
		if err := dg.Cache.Store(path, result.Entities); err != nil {
			logger.Warn("Failed to cache %s: %v", path, err)
		}
	}
	return result.Entities, nil
}

func (dg *DiagramGenerator) workers() int {
	if dg.cfg.Workers > 0 {
		return dg.cfg.Workers
	}
	return runtime.NumCPU()
}

func withoutEnums(entities []*models.Entity) []*models.Entity {
	out := entities[:0]
	for _, e := range entities {
		if e.Kind.Role != models.RoleEnum {
			out = append(out, e)
		}
	}
	return out
}
