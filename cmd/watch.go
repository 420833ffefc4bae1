package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tristendillon/ruml/core/cache/manager"
	"github.com/tristendillon/ruml/core/generator"
	"github.com/tristendillon/ruml/core/logger"
	"github.com/tristendillon/ruml/core/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [INPUT]",
	Short: "Regenerate the diagram whenever a source file changes",
	Long: `Generates the diagram once, then watches INPUT and regenerates it after every
change to a matching source file. Unchanged files are served from the cache.`,
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

		cache, err := openCache(cfg)
		if err != nil {
			return err
		}
		if cache == nil {
			cache = manager.NewCacheManager()
		}
		defer closeCache(cache)

		input := inputArg(args)
		root := input
		info, err := os.Stat(input)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", input, err)
		}
		if !info.IsDir() {
			root = filepath.Dir(input)
		}

		gen := generator.NewDiagramGenerator(cfg, cache)
		gen.Out = cmd.OutOrStdout()
		ctx := cmd.Context()

		fw, err := watcher.NewFileWatcher(root, gen.Walker, cache)
		if err != nil {
			return err
		}
		defer fw.Close()

		regenerate := func() error {
			if err := gen.Run(ctx, input); err != nil {
				return fmt.Errorf("failed to generate diagram: %w", err)
			}
			return nil
		}
		fw.FileWatcher.AddOnStartFunc(regenerate)
		fw.FileWatcher.AddOnChangeFunc(regenerate)
		fw.FileWatcher.AddOnCloseFunc(func() error {
			logger.Info("Stopped watching %s", root)
			return nil
		})

		logger.Info("Watching %s for changes...", root)
		return fw.Watch(ctx)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
