package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/rnwolfe/prio/internal/rank"
)

// Defaults applied when the config file or a key is missing.
const (
	DefaultAddr         = "127.0.0.1:8000"
	DefaultSuggestCount = rank.DefaultSuggestions
)

// Config holds the top-level prio configuration.
type Config struct {
	Rank       RankConfig       `toml:"rank"`
	Server     ServerConfig     `toml:"server"`
	UI         UIConfig         `toml:"ui"`
	Strategies []StrategyConfig `toml:"strategies,omitempty"`
}

// RankConfig sets the defaults used by analyze and suggest.
type RankConfig struct {
	Strategy     string `toml:"strategy"`
	SuggestCount int    `toml:"suggest_count"`
}

// ServerConfig controls `prio serve`.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
	// AuthSecret enables bearer-token auth on /api/ routes when non-empty.
	AuthSecret string `toml:"auth_secret,omitempty"`
}

// UIConfig controls terminal output.
type UIConfig struct {
	// Color defaults to true when not set in config.
	Color *bool `toml:"color,omitempty"`
}

// ColorEnabled returns whether colored output is on.
func (u UIConfig) ColorEnabled() bool {
	if u.Color == nil {
		return true
	}
	return *u.Color
}

// StrategyConfig is a user-defined weight profile from a [[strategies]] table.
type StrategyConfig struct {
	Name        string  `toml:"name"`
	Description string  `toml:"description"`
	Urgency     float64 `toml:"urgency"`
	Importance  float64 `toml:"importance"`
	Effort      float64 `toml:"effort"`
	Dependency  float64 `toml:"dependency"`
}

func (s StrategyConfig) toStrategy() rank.Strategy {
	return rank.Strategy{
		Name:        s.Name,
		Description: s.Description,
		Weights: rank.Weights{
			Urgency:    s.Urgency,
			Importance: s.Importance,
			Effort:     s.Effort,
			Dependency: s.Dependency,
		},
	}
}

// StrategySet returns the built-in profiles plus any user-defined ones.
func (c *Config) StrategySet() (*rank.StrategySet, error) {
	set := rank.DefaultStrategies()
	if len(c.Strategies) == 0 {
		return set, nil
	}
	custom := make([]rank.Strategy, 0, len(c.Strategies))
	for _, s := range c.Strategies {
		custom = append(custom, s.toStrategy())
	}
	set, err := set.With(custom...)
	if err != nil {
		return nil, fmt.Errorf("custom strategies: %w", err)
	}
	return set, nil
}

// Validate checks cross-field constraints the TOML decoder cannot.
func (c *Config) Validate() error {
	set, err := c.StrategySet()
	if err != nil {
		return err
	}
	if c.Rank.Strategy != "" && !set.Has(c.Rank.Strategy) {
		return fmt.Errorf("rank.strategy: unknown strategy %q", c.Rank.Strategy)
	}
	if n := c.Rank.SuggestCount; n < 1 || n > rank.MaxSuggestions {
		return fmt.Errorf("rank.suggest_count: %d is outside 1..%d", n, rank.MaxSuggestions)
	}
	return nil
}

// Paths returns standard XDG-compliant paths.
type Paths struct {
	ConfigDir  string
	DataDir    string
	CacheDir   string
	StateDir   string
	ConfigFile string
	DBFile     string
}

// GetPaths returns the resolved paths, respecting XDG env vars.
func GetPaths() Paths {
	home, _ := os.UserHomeDir()

	configDir := envOr("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	dataDir := envOr("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	cacheDir := envOr("XDG_CACHE_HOME", filepath.Join(home, ".cache"))
	stateDir := envOr("XDG_STATE_HOME", filepath.Join(home, ".local", "state"))

	prioConfig := filepath.Join(configDir, "prio")
	prioData := filepath.Join(dataDir, "prio")

	return Paths{
		ConfigDir:  prioConfig,
		DataDir:    prioData,
		CacheDir:   filepath.Join(cacheDir, "prio"),
		StateDir:   filepath.Join(stateDir, "prio"),
		ConfigFile: filepath.Join(prioConfig, "config.toml"),
		DBFile:     envOr("PRIO_DB", filepath.Join(prioData, "prio.db")),
	}
}

// EnsureDirs creates all required directories.
func (p Paths) EnsureDirs() error {
	dirs := []string{p.ConfigDir, p.DataDir, p.CacheDir, p.StateDir}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// Load reads config from disk, returning defaults if not found. Keys
// missing from the file keep their defaults.
func Load() (*Config, error) {
	paths := GetPaths()
	cfg := defaultConfig()

	data, err := os.ReadFile(paths.ConfigFile)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", paths.ConfigFile, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", paths.ConfigFile, err)
	}
	return cfg, nil
}

// Save writes config to disk.
func Save(cfg *Config) error {
	paths := GetPaths()
	if err := paths.EnsureDirs(); err != nil {
		return err
	}

	f, err := os.OpenFile(paths.ConfigFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Initialized returns true if a config file exists.
func Initialized() bool {
	paths := GetPaths()
	_, err := os.Stat(paths.ConfigFile)
	return err == nil
}

// BoolPtr returns a pointer to a bool value.
func BoolPtr(v bool) *bool {
	return &v
}

func defaultConfig() *Config {
	return &Config{
		Rank: RankConfig{
			Strategy:     rank.DefaultStrategy,
			SuggestCount: DefaultSuggestCount,
		},
		Server: ServerConfig{
			Addr:           DefaultAddr,
			AllowedOrigins: []string{"*"},
		},
		UI: UIConfig{
			Color: BoolPtr(true),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
