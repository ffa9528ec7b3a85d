package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rnwolfe/prio/internal/rank"
)

// KeyType represents the data type of a config key.
type KeyType string

const (
	KeyTypeString KeyType = "string"
	KeyTypeInt    KeyType = "int"
	KeyTypeBool   KeyType = "bool"
	KeyTypeList   KeyType = "list"
)

// KeyEntry describes a known, settable config key.
type KeyEntry struct {
	// Type is the value's data type (string, int, bool, list).
	Type KeyType
	// Desc is a human-readable description shown in `prio config list`.
	Desc string
	// DefaultStr is the string representation of the default/zero value.
	DefaultStr string
	// Secret values are masked when listed.
	Secret bool

	// get returns the current value as a string.
	get func(*Config) string
	// set validates and applies the value to cfg, returning an error on type mismatch.
	set func(cfg *Config, value string) error
	// unset resets the key to its schema default.
	unset func(cfg *Config)
}

// Get returns the current value of the key as a string.
func (e *KeyEntry) Get(cfg *Config) string { return e.get(cfg) }

// Set validates and sets the value, returning a descriptive error on type mismatch.
func (e *KeyEntry) Set(cfg *Config, value string) error { return e.set(cfg, value) }

// Unset resets the key to its schema default.
func (e *KeyEntry) Unset(cfg *Config) { e.unset(cfg) }

// SchemaKeys is the authoritative registry of all settable config keys.
// Keys use dot-notation matching the TOML section structure.
var SchemaKeys = map[string]*KeyEntry{
	"rank.strategy": {
		Type:       KeyTypeString,
		Desc:       "Default strategy for analyze and suggest",
		DefaultStr: rank.DefaultStrategy,
		get:        func(cfg *Config) string { return cfg.Rank.Strategy },
		set: func(cfg *Config, v string) error {
			set, err := cfg.StrategySet()
			if err != nil {
				return err
			}
			if !set.Has(v) {
				return fmt.Errorf("unknown strategy %q (valid: %s)", v, strings.Join(set.Names(), ", "))
			}
			cfg.Rank.Strategy = v
			return nil
		},
		unset: func(cfg *Config) { cfg.Rank.Strategy = rank.DefaultStrategy },
	},
	"rank.suggest_count": {
		Type:       KeyTypeInt,
		Desc:       fmt.Sprintf("Number of suggestions shown by default (1-%d)", rank.MaxSuggestions),
		DefaultStr: strconv.Itoa(DefaultSuggestCount),
		get:        func(cfg *Config) string { return strconv.Itoa(cfg.Rank.SuggestCount) },
		set: func(cfg *Config, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("invalid value %q for rank.suggest_count: not an integer", v)
			}
			if n < 1 || n > rank.MaxSuggestions {
				return fmt.Errorf("invalid value %d for rank.suggest_count: must be 1-%d", n, rank.MaxSuggestions)
			}
			cfg.Rank.SuggestCount = n
			return nil
		},
		unset: func(cfg *Config) { cfg.Rank.SuggestCount = DefaultSuggestCount },
	},
	"server.addr": {
		Type:       KeyTypeString,
		Desc:       "Listen address for `prio serve`",
		DefaultStr: DefaultAddr,
		get:        func(cfg *Config) string { return cfg.Server.Addr },
		set: func(cfg *Config, v string) error {
			if !strings.Contains(v, ":") {
				return fmt.Errorf("invalid value %q for server.addr: expected host:port", v)
			}
			cfg.Server.Addr = v
			return nil
		},
		unset: func(cfg *Config) { cfg.Server.Addr = DefaultAddr },
	},
	"server.allowed_origins": {
		Type:       KeyTypeList,
		Desc:       "Comma-separated CORS origins (* for any)",
		DefaultStr: "*",
		get:        func(cfg *Config) string { return strings.Join(cfg.Server.AllowedOrigins, ",") },
		set: func(cfg *Config, v string) error {
			origins := ParseList(v)
			if len(origins) == 0 {
				return fmt.Errorf("server.allowed_origins: at least one origin is required")
			}
			cfg.Server.AllowedOrigins = origins
			return nil
		},
		unset: func(cfg *Config) { cfg.Server.AllowedOrigins = []string{"*"} },
	},
	"server.auth_secret": {
		Type:       KeyTypeString,
		Desc:       "HMAC secret; when set, /api/ routes require a bearer token",
		DefaultStr: "",
		Secret:     true,
		get:        func(cfg *Config) string { return cfg.Server.AuthSecret },
		set:        func(cfg *Config, v string) error { cfg.Server.AuthSecret = v; return nil },
		unset:      func(cfg *Config) { cfg.Server.AuthSecret = "" },
	},
	"ui.color": {
		Type:       KeyTypeBool,
		Desc:       "Colored terminal output",
		DefaultStr: "true",
		get:        func(cfg *Config) string { return strconv.FormatBool(cfg.UI.ColorEnabled()) },
		set: func(cfg *Config, v string) error {
			b, err := ParseBoolValue(v)
			if err != nil {
				return fmt.Errorf("invalid value %q for ui.color: %w", v, err)
			}
			cfg.UI.Color = BoolPtr(b)
			return nil
		},
		unset: func(cfg *Config) { cfg.UI.Color = BoolPtr(true) },
	},
}

// ValidKeyNames returns the sorted list of all known config key names.
func ValidKeyNames() []string {
	names := make([]string, 0, len(SchemaKeys))
	for k := range SchemaKeys {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// LookupKey returns the KeyEntry for a known config key.
func LookupKey(key string) (*KeyEntry, bool) {
	entry, ok := SchemaKeys[key]
	return entry, ok
}

// ParseBoolValue accepts common boolean string representations.
// Valid truthy values: true, 1, yes, on.
// Valid falsy values: false, 0, no, off.
func ParseBoolValue(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("not a boolean: %q (use one of: true/false, 1/0, yes/no, on/off)", s)
	}
}

// ParseList splits a comma-separated value, dropping blanks.
func ParseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
