package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/signadot/confdoc/guard"

	"github.com/goccy/go-yaml"
)

// Config is the confdoc configuration file.
//
//	schema: server.yaml
//	store:
//	  kind: bolt
//	  path: docs.db
//	  retry:
//	    maxElapsed: 30s
//	guards:
//	- name: no-root-port
//	  rule: 'key != "port" || value >= 1024'
//	log:
//	  level: debug
type Config struct {
	Schema string        `yaml:"schema"`
	Store  StoreConfig   `yaml:"store"`
	Guards []GuardConfig `yaml:"guards"`
	Log    LogConfig     `yaml:"log"`
}

// StoreConfig selects the backend documents are loaded from and saved to.
type StoreConfig struct {
	Kind string `yaml:"kind"`

	// file
	Root     string `yaml:"root"`
	Compress bool   `yaml:"compress"`
	Umask    int    `yaml:"umask"`

	// bolt
	Path   string `yaml:"path"`
	Bucket string `yaml:"bucket"`

	// redis
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
	Channel string `yaml:"channel"`

	// postgres
	URL   string `yaml:"url"`
	Table string `yaml:"table"`

	Retry *RetryConfig `yaml:"retry"`
}

type RetryConfig struct {
	MaxElapsed string `yaml:"maxElapsed"`
	Max        uint64 `yaml:"max"`
}

// GuardConfig is a rule vetoing mutations made through the command.
type GuardConfig struct {
	Name string `yaml:"name"`
	Rule string `yaml:"rule"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

const (
	storeFile     = "file"
	storeBolt     = "bolt"
	storeRedis    = "redis"
	storePostgres = "postgres"
)

// LoadConfig loads a configuration file in YAML.  Absent settings keep
// their DefaultConfig values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{Kind: storeFile},
		Log:   LogConfig{Level: "warn"},
	}
}

func (c *Config) Validate() error {
	sc := &c.Store
	switch sc.Kind {
	case storeFile:
	case storeBolt:
		if sc.Path == "" {
			return fmt.Errorf("bolt store requires a path")
		}
	case storeRedis:
		if sc.Addr == "" {
			return fmt.Errorf("redis store requires an addr")
		}
	case storePostgres:
		if sc.URL == "" {
			return fmt.Errorf("postgres store requires a url")
		}
	default:
		return fmt.Errorf("unknown store kind %q", sc.Kind)
	}
	if sc.Retry != nil {
		if _, err := sc.Retry.maxElapsed(); err != nil {
			return err
		}
	}
	if _, err := c.level(); err != nil {
		return err
	}
	if _, err := c.guards(); err != nil {
		return err
	}
	return nil
}

func (r *RetryConfig) maxElapsed() (time.Duration, error) {
	if r.MaxElapsed == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(r.MaxElapsed)
	if err != nil {
		return 0, fmt.Errorf("retry maxElapsed: %w", err)
	}
	return d, nil
}

func (c *Config) level() (slog.Level, error) {
	var level slog.Level
	if c.Log.Level == "" {
		return slog.LevelWarn, nil
	}
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}

func (c *Config) guards() ([]guard.Guard, error) {
	res := make([]guard.Guard, 0, len(c.Guards))
	for i, g := range c.Guards {
		name := g.Name
		if name == "" {
			name = fmt.Sprintf("guard %d", i)
		}
		r, err := guard.Compile(name, g.Rule)
		if err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	return res, nil
}
