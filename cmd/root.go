/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tristendillon/ruml/core/generator"
)

var rootCmd = &cobra.Command{
	Use:   "ruml [INPUT]",
	Short: "Generate PlantUML class diagrams from Rust sources.",
	Long: `ruml reads Rust source files and prints a PlantUML class diagram of their
structs, fields and inherent methods, with an edge for every field whose type
names another struct in the diagram.

INPUT is a single file (parsed regardless of extension) or a directory that is
walked for .rs files. It defaults to the current directory.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
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

		cache, err := openCache(cfg)
		if err != nil {
			return err
		}
		defer closeCache(cache)

		gen := generator.NewDiagramGenerator(cfg, cacheOrNil(cache))
		gen.Out = cmd.OutOrStdout()
		if err := gen.Run(cmd.Context(), inputArg(args)); err != nil {
			return fmt.Errorf("failed to generate diagram: %w", err)
		}
		return nil
	},
}

var logfile string
var verbose bool

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logfile, "logfile", "", "File to write logs to")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default ./"+configFileName+")")
	rootCmd.PersistentFlags().StringVarP(&format, "type", "t", "plantuml", "Output format")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Write the diagram to a file instead of stdout")
	rootCmd.PersistentFlags().BoolVar(&includeEnums, "enums", false, "Include memberless enum blocks")
	rootCmd.PersistentFlags().BoolVar(&useCache, "cache", false, "Persist parse results between runs")
}
