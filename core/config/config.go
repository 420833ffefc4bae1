package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tristendillon/ruml/core/logger"
	"gopkg.in/yaml.v3"
)

const FileName = "ruml.yaml"

type Config struct {
	Format       string   `yaml:"format"`
	Output       string   `yaml:"output"`
	IncludeEnums bool     `yaml:"include_enums"`
	Extensions   []string `yaml:"extensions"`
	Exclude      []string `yaml:"exclude"`
	Workers      int      `yaml:"workers"`
	Cache        Cache    `yaml:"cache"`
	Neo4j        Neo4j    `yaml:"neo4j"`
}

type Cache struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type Neo4j struct {
	URI      string `yaml:"uri"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Clean    bool   `yaml:"clean"`
}

func Default() *Config {
	return &Config{
		Format:     "plantuml",
		Extensions: []string{".rs"},
		Exclude:    []string{".git", "target"},
		Cache: Cache{
			Path: filepath.Join(".ruml", "cache.db"),
		},
		Neo4j: Neo4j{
			URI:  "bolt://localhost:7687",
			User: "neo4j",
		},
	}
}

// Load reads ruml.yaml from the working directory, falling back to the
// defaults when there is none.
func Load() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("cannot determine working dir: %w", err)
	}
	return LoadDir(wd)
}

func LoadDir(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err != nil {
		logger.Debug("No config file found in %s, using default config", dir)
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. Keys missing from the file keep their
// default values.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml %s: %w", path, err)
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = Default().Extensions
	}
	logger.Debug("Config file found: %s", path)
	logger.Debug("Config: format=%s extensions=%v exclude=%v cache=%t", cfg.Format, cfg.Extensions, cfg.Exclude, cfg.Cache.Enabled)

	return cfg, nil
}

// Write saves cfg as yaml at path.
func Write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}
