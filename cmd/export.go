package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tristendillon/ruml/core/export"
	"github.com/tristendillon/ruml/core/generator"
	"github.com/tristendillon/ruml/core/logger"
)

var (
	neo4jURI      string
	neo4jUser     string
	neo4jPassword string
	cleanGraph    bool
)

var exportCmd = &cobra.Command{
	Use:   "export [INPUT]",
	Short: "Load the entity model into Neo4j",
	Long: `Builds the same entity model as the diagram and upserts it into Neo4j as
RumlType and RumlMember nodes joined by HAS_MEMBER and DEPENDS_ON relationships.
The password falls back to the NEO4J_PASSWORD environment variable.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		closeLog, err := setupLogging()
		if err != nil {
			return err
		}
		defer closeLog()

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("uri") {
			cfg.Neo4j.URI = neo4jURI
		}
		if flags.Changed("user") {
			cfg.Neo4j.User = neo4jUser
		}
		if flags.Changed("password") {
			cfg.Neo4j.Password = neo4jPassword
		}
		if flags.Changed("clean") {
			cfg.Neo4j.Clean = cleanGraph
		}
		if cfg.Neo4j.Password == "" {
			cfg.Neo4j.Password = os.Getenv("NEO4J_PASSWORD")
		}

		cache, err := openCache(cfg)
		if err != nil {
			return err
		}
		defer closeCache(cache)

		ctx := cmd.Context()
		entities, err := generator.NewDiagramGenerator(cfg, cacheOrNil(cache)).Collect(ctx, inputArg(args))
		if err != nil {
			return fmt.Errorf("failed to build entity model: %w", err)
		}

		loader, err := export.NewNeo4jLoader(cfg.Neo4j)
		if err != nil {
			return err
		}
		defer loader.Close(ctx)

		if err := loader.Export(ctx, entities, cfg.Neo4j.Clean); err != nil {
			return fmt.Errorf("failed to export to %s: %w", cfg.Neo4j.URI, err)
		}

		logger.Info("Exported %d types to %s", len(entities), cfg.Neo4j.URI)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&neo4jURI, "uri", "", "Neo4j bolt URI")
	exportCmd.Flags().StringVar(&neo4jUser, "user", "", "Neo4j user")
	exportCmd.Flags().StringVar(&neo4jPassword, "password", "", "Neo4j password")
	exportCmd.Flags().BoolVar(&cleanGraph, "clean", false, "Delete previously exported nodes first")
}
