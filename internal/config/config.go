// Package config holds the closed set of players the tool reports on, the
// seasons it offers, and the server and analysis settings.
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvDataDir = "PLAYERREPORT_DATA_DIR"
	EnvAddr    = "PLAYERREPORT_ADDR"
	EnvModel   = "PLAYERREPORT_MODEL"
)

const (
	DefaultAddr  = ":8050"
	DefaultModel = "claude-haiku-4-5-20251001"
)

// Player maps a display name to the CSV file holding its match log.
type Player struct {
	Name string `yaml:"name" validate:"required"`
	File string `yaml:"file" validate:"required"`
}

// Config holds all application configuration.
type Config struct {
	DataDir string   `yaml:"data_dir"`
	Seasons []int    `yaml:"seasons" validate:"required,min=1,dive,gte=1900,lte=2100"`
	Players []Player `yaml:"players" validate:"required,min=1,unique=Name,dive"`
	Server  struct {
		Addr string `yaml:"addr" validate:"required"`
	} `yaml:"server"`
	Analyze struct {
		Model string `yaml:"model" validate:"required"`
	} `yaml:"analyze"`

	// dir is the directory of the file the config was read from; a relative
	// DataDir is resolved against it.
	dir string
}

// Default returns the built-in two-player configuration, used when no
// config file exists.
func Default() *Config {
	cfg := &Config{
		DataDir: ".",
		Seasons: []int{2023},
		Players: []Player{
			{Name: "Tolu Arokodare", File: "tolu_clean.csv"},
			{Name: "Yira Sor", File: "yira_clean.csv"},
		},
	}
	cfg.Server.Addr = DefaultAddr
	cfg.Analyze.Model = DefaultModel
	return cfg
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides. A missing file yields the default configuration.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "load .env")
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case path == "" || os.IsNotExist(err):
		cfg = Default()
	case err != nil:
		return nil, errors.Wrap(err, "read config")
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
		cfg.dir = filepath.Dir(path)
	}

	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv(EnvModel); v != "" {
		cfg.Analyze.Model = v
	}

	// Defaults
	if cfg.DataDir == "" {
		cfg.DataDir = "."
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}
	if cfg.Analyze.Model == "" {
		cfg.Analyze.Model = DefaultModel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the player and season sets are usable.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "validate config")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Namespace()+" failed "+fe.Tag())
	}
	return errors.Newf("invalid config: %s", strings.Join(msgs, "; "))
}

// PlayerNames returns the configured player names in file order.
func (c *Config) PlayerNames() []string {
	names := make([]string, len(c.Players))
	for i, p := range c.Players {
		names[i] = p.Name
	}
	return names
}

// HasPlayer reports whether name is a configured player.
func (c *Config) HasPlayer(name string) bool {
	_, ok := c.PlayerFile(name)
	return ok
}

// PlayerFile returns the resolved path of name's match log.
func (c *Config) PlayerFile(name string) (string, bool) {
	for _, p := range c.Players {
		if p.Name != name {
			continue
		}
		if filepath.IsAbs(p.File) {
			return p.File, true
		}
		base := c.DataDir
		if !filepath.IsAbs(base) && c.dir != "" {
			base = filepath.Join(c.dir, base)
		}
		return filepath.Join(base, p.File), true
	}
	return "", false
}

// DefaultSeason returns the latest configured season.
func (c *Config) DefaultSeason() int {
	if len(c.Seasons) == 0 {
		return 0
	}
	return slices.Max(c.Seasons)
}

// HasSeason reports whether season is offered.
func (c *Config) HasSeason(season int) bool {
	return slices.Contains(c.Seasons, season)
}
