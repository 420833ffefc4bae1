package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tristendillon/ruml/core/cache/manager"
	cacheModels "github.com/tristendillon/ruml/core/cache/models"
	"github.com/tristendillon/ruml/core/config"
	"github.com/tristendillon/ruml/core/logger"
)

const configFileName = config.FileName

var (
	configPath   string
	format       string
	output       string
	includeEnums bool
	useCache     bool
)

func setupLogging() (func(), error) {
	logger.SetVerbose(verbose)
	if logfile == "" {
		return func() {}, nil
	}
	f, err := logger.OpenLogFile(logfile)
	if err != nil {
		return nil, err
	}
	return func() { f.Close() }, nil
}

// loadConfig reads the config file and applies the flags that were set
// explicitly on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("type") {
		cfg.Format = format
	}
	if flags.Changed("output") {
		cfg.Output = output
	}
	if flags.Changed("enums") {
		cfg.IncludeEnums = includeEnums
	}
	if flags.Changed("cache") {
		cfg.Cache.Enabled = useCache
	}
	return cfg, nil
}

func openCache(cfg *config.Config) (*manager.CacheManager, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	logger.Debug("Using persistent cache at %s", cfg.Cache.Path)
	return manager.NewPersistentCacheManager(cfg.Cache.Path)
}

// cacheOrNil avoids handing a typed nil pointer to an interface parameter.
func cacheOrNil(cm *manager.CacheManager) cacheModels.CacheManagerInterface {
	if cm == nil {
		return nil
	}
	return cm
}

func closeCache(cm *manager.CacheManager) {
	if cm == nil {
		return
	}
	if err := cm.Close(); err != nil {
		logger.Warn("Failed to close cache: %v", err)
	}
}

func inputArg(args []string) string {
	if len(args) == 0 {
		return "./"
	}
	return args[0]
}
